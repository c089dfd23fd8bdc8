// Package companion is the character manager: it owns one companion
// aggregate, runs each interaction through the emotion, memory and
// relationship subsystems, adapts personality and publishes change events.
package companion

import (
	"errors"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cyberFlowTech/zapry-companion-go/character"
	"github.com/cyberFlowTech/zapry-companion-go/emotion"
	"github.com/cyberFlowTech/zapry-companion-go/events"
	"github.com/cyberFlowTech/zapry-companion-go/evolution"
	"github.com/cyberFlowTech/zapry-companion-go/memory"
	"github.com/cyberFlowTech/zapry-companion-go/privacy"
	"github.com/cyberFlowTech/zapry-companion-go/relationship"
)

// ErrEmptyMessage is returned for a message with no visible text.
var ErrEmptyMessage = errors.New("empty message")

// Rand is the random source for trigger rolls and the personality growth
// gate. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// ──────────────────────────────────────────────
// Options
// ──────────────────────────────────────────────

// Options groups optional collaborators for Manager. Zero values select
// defaults: wall clock, time-seeded RNG, discard logger, a private bus,
// no metrics and no audit sink.
type Options struct {
	Clock    func() time.Time
	Rand     Rand
	Logger   *logrus.Entry
	Bus      *events.Bus
	Metrics  *Metrics
	Audit    privacy.AuditLogger
	NewToken func() string
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Logger = logrus.NewEntry(l)
	}
	if o.Bus == nil {
		o.Bus = events.NewBus(o.Logger)
	}
	return o
}

// ──────────────────────────────────────────────
// Manager
// ──────────────────────────────────────────────

// Manager owns a single companion. All methods are safe for concurrent use;
// calls are serialized so every interaction, including the events it
// publishes, completes before the next begins. Event handlers run while the
// manager is locked and must not call back into it.
type Manager struct {
	mu sync.Mutex
	c  *character.Companion

	clock   func() time.Time
	rng     Rand
	bus     *events.Bus
	log     *logrus.Entry
	metrics *Metrics

	emotion      *emotion.Engine
	memory       *memory.Manager
	relationship *relationship.Tracker
	privacy      *privacy.Manager
	evolution    *evolution.System
}

// New creates a manager around a fresh companion with default state.
func New(id character.Identity, opts Options) *Manager {
	opts = opts.withDefaults()
	m, _ := newManager(character.New(id, opts.Clock()), opts)
	return m
}

// NewFromPartial creates a manager around a companion built from defaults
// merged with p. Invalid overrides are reported as character.ErrInvalidField.
func NewFromPartial(id character.Identity, p character.Partial, opts Options) (*Manager, error) {
	opts = opts.withDefaults()
	c, err := character.FromPartial(id, p, opts.Clock())
	if err != nil {
		return nil, err
	}
	return newManager(c, opts)
}

// Wrap takes ownership of an existing companion after validating it.
func Wrap(c *character.Companion, opts Options) (*Manager, error) {
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return newManager(c, opts.withDefaults())
}

func newManager(c *character.Companion, opts Options) (*Manager, error) {
	m := &Manager{
		c:            c,
		clock:        opts.Clock,
		rng:          opts.Rand,
		bus:          opts.Bus,
		log:          opts.Logger.WithField("component", "CharacterManager"),
		metrics:      opts.Metrics,
		emotion:      emotion.NewEngine(opts.Rand, opts.Logger),
		memory:       memory.NewManager(opts.Logger),
		relationship: relationship.NewTracker(opts.Logger),
		privacy:      privacy.NewManager(opts.Audit, opts.NewToken, opts.Logger),
		evolution:    evolution.NewSystem(opts.Bus, opts.Clock, opts.Logger),
	}
	if m.metrics != nil {
		m.metrics.Attach(m.bus)
		m.metrics.ObserveLevel(c.ID, c.Evolution.Level)
	}
	return m, nil
}

// ID returns the companion id.
func (m *Manager) ID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.c.ID
}

// Bus returns the event bus the manager publishes to.
func (m *Manager) Bus() *events.Bus { return m.bus }

// Snapshot returns a deep copy of the current aggregate.
func (m *Manager) Snapshot() (*character.Companion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.c.Clone()
}

func (m *Manager) emit(name events.Name, now time.Time, payload any) {
	m.bus.Publish(events.Event{Name: name, CompanionID: m.c.ID, At: now, Payload: payload})
}

// ──────────────────────────────────────────────
// Interaction
// ──────────────────────────────────────────────

// InteractionResult reports what one interaction changed.
type InteractionResult struct {
	Blocked      bool                `json:"blocked"`
	Reason       string              `json:"reason,omitempty"`
	Emotion      emotion.Result      `json:"emotion"`
	Memory       memory.Result       `json:"memory"`
	Relationship relationship.Result `json:"relationship"`
	Personality  PersonalityResult   `json:"personality"`
}

// Changed reports whether any subsystem changed state.
func (r InteractionResult) Changed() bool {
	return r.Emotion.Changed || r.Memory.Changed || r.Relationship.Changed || r.Personality.Shifted
}

// ProcessInteraction runs one user message through the subsystems in order:
// emotion, memory, relationship, then personality adaptation and learning.
// A message blocked by parental controls changes nothing.
func (m *Manager) ProcessInteraction(message string, ctx character.InteractionContext) (InteractionResult, error) {
	if strings.TrimSpace(message) == "" {
		return InteractionResult{}, ErrEmptyMessage
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.c
	now := m.clock()

	if ok, reason := privacy.CanInteract(c.Privacy, c.Relationship, message, ctx.Topic, now); !ok {
		m.log.WithFields(logrus.Fields{"companion_id": c.ID, "reason": reason}).Info("interaction blocked")
		m.countInteraction("blocked")
		return InteractionResult{Blocked: true, Reason: reason}, nil
	}

	var res InteractionResult
	res.Emotion = m.emotion.Process(c, message, ctx, now)
	res.Memory = m.memory.Process(c, message, ctx, now)
	res.Relationship = m.relationship.Process(c, message, ctx, now)
	res.Personality = m.adaptPersonality(c, c.Emotional.Current, topicsOf(res.Memory.Turn), now)
	if m.privacy.CanStoreData(c, privacy.KindBehavioral) {
		updateLearning(&c.Learning, c.Relationship.DailyInteractions, topicsOf(res.Memory.Turn), now)
	}
	c.UpdatedAt = now

	if res.Emotion.Changed {
		m.emit(events.EmotionChanged, now, events.EmotionChangedPayload{
			From: res.Emotion.Previous, To: res.Emotion.Emotion,
			Intensity: res.Emotion.Intensity, Trigger: res.Emotion.Trigger,
		})
	}
	if res.Memory.Changed {
		mem := c.Memory
		m.emit(events.MemoryUpdated, now, events.MemoryUpdatedPayload{
			ShortTerm: len(mem.ShortTerm), LongTerm: len(mem.LongTerm), Emotional: len(mem.Emotional),
			Preferences: len(mem.Preferences), Facts: len(mem.Facts),
		})
	}
	if res.Relationship.Changed {
		r := c.Relationship
		m.emit(events.RelationshipChanged, now, events.RelationshipChangedPayload{
			Intimacy: r.Intimacy, Trust: r.Trust, Type: r.Type, OldType: res.Relationship.OldType,
			Milestone: res.Relationship.Milestone, Conflict: res.Relationship.Conflict,
		})
	}
	if res.Personality.Shifted {
		m.emit(events.PersonalityShifted, now, events.PersonalityShiftedPayload{
			Deltas: res.Personality.Deltas, Stage: res.Personality.Stage,
		})
	}

	m.countInteraction("processed")
	m.log.WithFields(logrus.Fields{
		"companion_id": c.ID,
		"emotion":      c.Emotional.Current,
		"intimacy":     c.Relationship.Intimacy,
		"trust":        c.Relationship.Trust,
	}).Debug("interaction processed")
	return res, nil
}

func (m *Manager) countInteraction(outcome string) {
	if m.metrics != nil {
		m.metrics.Interactions.WithLabelValues(outcome).Inc()
	}
}

func topicsOf(turn *character.ConversationTurn) []string {
	if turn == nil {
		return nil
	}
	return turn.Topics
}

// ──────────────────────────────────────────────
// Triggers
// ──────────────────────────────────────────────

// AddTrigger registers or replaces an emotional trigger by id.
func (m *Manager) AddTrigger(t character.EmotionalTrigger) error {
	if err := t.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.Emotional.AddTrigger(t)
	return nil
}

// RemoveTrigger deletes a trigger and reports whether it existed.
func (m *Manager) RemoveTrigger(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.c.Emotional.RemoveTrigger(id)
}
