package companion

import (
	"github.com/cyberFlowTech/zapry-companion-go/character"
	"github.com/cyberFlowTech/zapry-companion-go/events"
	"github.com/cyberFlowTech/zapry-companion-go/privacy"
)

// UpdatePrivacy replaces the privacy settings. Narrowing the retention window
// immediately sweeps data that falls outside it.
func (m *Manager) UpdatePrivacy(s character.PrivacySettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock()
	if err := m.privacy.UpdateSettings(m.c, s, now); err != nil {
		return err
	}
	m.c.UpdatedAt = now
	return nil
}

// CanStoreData reports whether the current consent allows kind.
func (m *Manager) CanStoreData(kind privacy.DataKind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.privacy.CanStoreData(m.c, kind)
}

// ExportUserData returns the compliance export, anonymized when the
// companion's settings ask for it.
func (m *Manager) ExportUserData() (privacy.UserData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.privacy.ExportUserData(m.c, m.clock())
}

// CleanExpiredData drops data older than the retention window.
func (m *Manager) CleanExpiredData() privacy.CleanupReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock()
	rep := m.privacy.CleanExpiredData(m.c, now)
	if rep.Removed() > 0 {
		m.c.UpdatedAt = now
	}
	return rep
}

// DeleteAllUserData erases every user-derived record. Identity survives.
func (m *Manager) DeleteAllUserData() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock()
	m.privacy.DeleteAllUserData(m.c, now)
	m.c.UpdatedAt = now
	m.emit(events.DataErased, now, events.DataErasedPayload{Reason: "user request"})
}
