package companion

import (
	"github.com/cyberFlowTech/zapry-companion-go/character"
	"github.com/cyberFlowTech/zapry-companion-go/evolution"
)

// AddExperience grants typed experience. Negative amounts and unknown types
// are rejected with evolution.ErrNegativeAmount / ErrUnknownExperienceType
// and leave the companion unchanged.
func (m *Manager) AddExperience(t character.ExperienceType, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.evolution.AddExperience(m.c, t, amount); err != nil {
		return err
	}
	m.c.UpdatedAt = m.clock()
	return nil
}

// UnlockSkill spends a skill point; false means nothing changed.
func (m *Manager) UnlockSkill(id character.SkillID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	ok := m.evolution.UnlockSkill(m.c, id)
	if ok {
		m.c.UpdatedAt = m.clock()
	}
	return ok
}

// UseAbility activates an ability; false means requirements are unmet or
// it is cooling down.
func (m *Manager) UseAbility(id character.AbilityID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	ok := m.evolution.UseAbility(m.c, id)
	if ok {
		m.c.UpdatedAt = m.clock()
	}
	return ok
}

// CheckAchievements re-evaluates every achievement and returns the new ones.
func (m *Manager) CheckAchievements() []character.AchievementID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evolution.CheckAchievements(m.c)
}

// ResetEvolution returns the evolution slice to level 1.
func (m *Manager) ResetEvolution() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evolution.ResetEvolution(m.c)
	if m.metrics != nil {
		m.metrics.ObserveLevel(m.c.ID, m.c.Evolution.Level)
	}
}

// Progress reports level progress.
func (m *Manager) Progress() evolution.Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return evolution.ProgressOf(m.c.Evolution)
}

// AvailableSkills lists skills that can be unlocked right now.
func (m *Manager) AvailableSkills() []character.SkillID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return evolution.Available(m.c.Evolution)
}
