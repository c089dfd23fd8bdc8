package companion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cyberFlowTech/zapry-companion-go/character"
)

// ErrMalformedImport wraps every reason an import document is rejected.
var ErrMalformedImport = errors.New("malformed character document")

// ExportCharacter encodes the whole aggregate as an indented JSON document.
func (m *Manager) ExportCharacter() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return json.MarshalIndent(m.c, "", "  ")
}

// DecodeCharacter parses and validates a document produced by
// ExportCharacter. Unknown fields, trailing data and invariant violations are
// rejected with ErrMalformedImport.
func DecodeCharacter(data []byte) (*character.Companion, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var c character.Companion
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedImport, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformedImport)
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedImport, err)
	}
	return &c, nil
}

// ImportCharacter replaces the managed aggregate with the decoded document.
// On any error the current aggregate is left untouched.
func (m *Manager) ImportCharacter(data []byte) error {
	c, err := DecodeCharacter(data)
	if err != nil {
		m.log.WithError(err).Warn("import rejected")
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c = c
	if m.metrics != nil {
		m.metrics.ObserveLevel(c.ID, c.Evolution.Level)
	}
	m.log.WithFields(logrus.Fields{"companion_id": c.ID, "level": c.Evolution.Level}).Info("character imported")
	return nil
}

// ──────────────────────────────────────────────
// Snapshot persistence
// ──────────────────────────────────────────────

// SnapshotStore persists export documents by companion id. The store
// package provides in-memory, Redis, SQL and cached implementations.
type SnapshotStore interface {
	Save(ctx context.Context, id string, doc []byte) error
	Load(ctx context.Context, id string) ([]byte, error)
}

// SaveTo writes the current export document to s.
func (m *Manager) SaveTo(ctx context.Context, s SnapshotStore) error {
	doc, err := m.ExportCharacter()
	if err != nil {
		return fmt.Errorf("export character: %w", err)
	}
	id := m.ID()
	if err := s.Save(ctx, id, doc); err != nil {
		return fmt.Errorf("save snapshot %s: %w", id, err)
	}
	return nil
}

// LoadFrom restores a manager from the document stored under id.
func LoadFrom(ctx context.Context, s SnapshotStore, id string, opts Options) (*Manager, error) {
	doc, err := s.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", id, err)
	}
	c, err := DecodeCharacter(doc)
	if err != nil {
		return nil, err
	}
	return newManager(c, opts.withDefaults())
}
