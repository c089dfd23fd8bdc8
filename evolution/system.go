// Package evolution implements the gamified progression layer: typed
// experience, levels and stages, skill trees, achievements and abilities
// with cooldowns.
package evolution

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cyberFlowTech/zapry-companion-go/character"
	"github.com/cyberFlowTech/zapry-companion-go/events"
)

var (
	ErrNegativeAmount        = errors.New("experience amount must be finite and non-negative")
	ErrUnknownExperienceType = errors.New("unknown experience type")
)

// System applies evolution operations to a companion and publishes the
// resulting events. It holds no per-companion state.
type System struct {
	bus *events.Bus
	now func() time.Time
	log *logrus.Entry
}

// NewSystem creates an evolution system. bus may be nil; now defaults to
// time.Now and a nil log discards output.
func NewSystem(bus *events.Bus, now func() time.Time, log *logrus.Entry) *System {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &System{bus: bus, now: now, log: log.WithField("component", "EvolutionSystem")}
}

func (s *System) emit(c *character.Companion, name events.Name, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{Name: name, CompanionID: c.ID, At: s.now(), Payload: payload})
}

// ──────────────────────────────────────────────
// Experience
// ──────────────────────────────────────────────

// Multiplier is the product of every unlocked skill's multiplier for t.
func Multiplier(ev character.Evolution, t character.ExperienceType) float64 {
	m := 1.0
	for _, id := range ev.UnlockedSkills {
		d, ok := Skill(id)
		if !ok {
			continue
		}
		if f, ok := d.Multipliers[t]; ok {
			m *= f
		}
	}
	return m
}

// AddExperience grants amount experience of type t, scaled by unlocked skill
// multipliers. The total saturates at character.MaxTotalExperience. It levels
// up as many times as the new total allows, applies
// trait growth and re-checks achievements.
func (s *System) AddExperience(c *character.Companion, t character.ExperienceType, amount float64) error {
	if !(amount >= 0) || math.IsInf(amount, 1) {
		return fmt.Errorf("%w: %v", ErrNegativeAmount, amount)
	}
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownExperienceType, t)
	}
	ev := &c.Evolution
	gained := math.Min(amount*Multiplier(*ev, t), math.Max(character.MaxTotalExperience-ev.TotalExperience, 0))

	ev.Breakdown.Add(t, gained)
	ev.TotalExperience += gained
	target := character.LevelForExperience(ev.TotalExperience)
	for ev.Level < target {
		old, oldStage := ev.Level, ev.Stage
		ev.Level++
		ev.SkillPoints++
		ev.Stage = character.StageForLevel(ev.Level)
		s.log.WithFields(logrus.Fields{"companion_id": c.ID, "level": ev.Level}).Info("level up")
		s.emit(c, events.LevelUp, events.LevelUpPayload{
			OldLevel: old, NewLevel: ev.Level, Stage: ev.Stage, SkillPointsGained: 1,
		})
		if ev.Stage != oldStage {
			s.log.WithFields(logrus.Fields{"companion_id": c.ID, "stage": ev.Stage}).Info("stage evolution")
			s.emit(c, events.StageEvolution, events.StageEvolutionPayload{
				OldStage: oldStage, NewStage: ev.Stage, Level: ev.Level,
			})
		}
	}
	ev.Experience = ev.TotalExperience - character.ExperienceForLevel(ev.Level)

	for trait, w := range growthWeights[t] {
		applyGrowth(c, trait, gained/1000*w)
	}

	s.CheckAchievements(c)
	s.emit(c, events.ExperienceGained, events.ExperienceGainedPayload{
		Type: t, Amount: gained, Total: ev.TotalExperience, Level: ev.Level,
	})
	return nil
}

// applyGrowth moves a core trait and records the amount actually applied.
func applyGrowth(c *character.Companion, t character.Trait, delta float64) {
	if delta == 0 {
		return
	}
	applied := c.Personality.Core.Add(t, delta)
	if c.Evolution.Growth == nil {
		c.Evolution.Growth = map[character.Trait]float64{}
	}
	c.Evolution.Growth[t] += applied
}

// ──────────────────────────────────────────────
// Skills
// ──────────────────────────────────────────────

// CanUnlock reports whether id could be unlocked right now.
func CanUnlock(ev character.Evolution, id character.SkillID) bool {
	d, ok := Skill(id)
	if !ok || ev.HasSkill(id) || ev.SkillPoints < 1 {
		return false
	}
	return d.PrerequisitesMet(ev)
}

// UnlockSkill spends one skill point on id. It returns false and changes
// nothing when the skill is unknown, already owned, its prerequisites are
// unmet or no point is available.
func (s *System) UnlockSkill(c *character.Companion, id character.SkillID) bool {
	ev := &c.Evolution
	if !CanUnlock(*ev, id) {
		return false
	}
	d, _ := Skill(id)
	ev.SkillPoints--
	ev.UnlockedSkills = append(ev.UnlockedSkills, id)
	for t, g := range d.Growth {
		applyGrowth(c, t, g)
	}
	s.log.WithFields(logrus.Fields{"companion_id": c.ID, "skill": id}).Info("skill unlocked")

	s.CheckAchievements(c)
	s.emit(c, events.SkillUnlocked, events.SkillUnlockedPayload{
		Skill: id, Category: string(d.Category), Level: ev.Level,
	})
	return true
}

// ──────────────────────────────────────────────
// Abilities
// ──────────────────────────────────────────────

// Ready reports whether ability id is off cooldown at now.
func Ready(ev character.Evolution, id character.AbilityID, now time.Time) bool {
	until, ok := ev.Cooldowns[id]
	return !ok || !now.Before(until)
}

// UseAbility activates id when its requirements are met and it is off
// cooldown. A failed use leaves the cooldown untouched.
func (s *System) UseAbility(c *character.Companion, id character.AbilityID) bool {
	d, ok := Ability(id)
	if !ok {
		return false
	}
	ev := &c.Evolution
	now := s.now()
	if !d.RequirementsMet(*ev) || !Ready(*ev, id, now) {
		return false
	}
	until := now.Add(d.Cooldown)
	if prev, ok := ev.Cooldowns[id]; ok && prev.After(until) {
		until = prev
	}
	if ev.Cooldowns == nil {
		ev.Cooldowns = map[character.AbilityID]time.Time{}
	}
	ev.Cooldowns[id] = until
	for t, b := range d.Boost {
		c.Personality.Core.Add(t, b)
	}
	s.log.WithFields(logrus.Fields{"companion_id": c.ID, "ability": id}).Debug("ability used")
	s.emit(c, events.AbilityUsed, events.AbilityUsedPayload{Ability: id, CooldownUntil: until})
	return true
}

// ──────────────────────────────────────────────
// Achievements
// ──────────────────────────────────────────────

// CheckAchievements unlocks every satisfied achievement not yet owned, grants
// its rewards and returns the newly unlocked ids. Calling it again without a
// state change unlocks nothing.
func (s *System) CheckAchievements(c *character.Companion) []character.AchievementID {
	var unlocked []character.AchievementID
	ev := &c.Evolution
	for _, d := range Achievements() {
		if ev.HasAchievement(d.ID) || !d.Earned(*ev) {
			continue
		}
		ev.Achievements = append(ev.Achievements, d.ID)
		ev.SkillPoints += d.Rewards.SkillPoints
		for t, g := range d.Rewards.Growth {
			applyGrowth(c, t, g)
		}
		unlocked = append(unlocked, d.ID)
		s.log.WithFields(logrus.Fields{"companion_id": c.ID, "achievement": d.ID, "tier": d.Tier}).Info("achievement unlocked")
		s.emit(c, events.AchievementUnlocked, events.AchievementUnlockedPayload{
			Achievement: d.ID, Tier: string(d.Tier), Rewards: d.Rewards,
		})
	}
	return unlocked
}

// ResetEvolution returns c's evolution slice to level 1 defaults.
func (s *System) ResetEvolution(c *character.Companion) {
	c.Evolution = character.DefaultEvolution()
	s.log.WithField("companion_id", c.ID).Info("evolution reset")
}

// ──────────────────────────────────────────────
// Progress
// ──────────────────────────────────────────────

// Progress summarises level progress for display.
type Progress struct {
	Level             int                      `json:"level"`
	Stage             character.EvolutionStage `json:"stage"`
	Experience        float64                  `json:"experience"`
	ExperienceToLevel float64                  `json:"experience_to_level"`
	Percent           float64                  `json:"percent"`
	TotalExperience   float64                  `json:"total_experience"`
	SkillPoints       int                      `json:"skill_points"`
	Skills            int                      `json:"skills"`
	Achievements      int                      `json:"achievements"`
}

// ProgressOf reports how far ev is into its current level.
func ProgressOf(ev character.Evolution) Progress {
	span := float64(ev.Level * 100)
	p := Progress{
		Level:             ev.Level,
		Stage:             ev.Stage,
		Experience:        ev.Experience,
		ExperienceToLevel: span - ev.Experience,
		TotalExperience:   ev.TotalExperience,
		SkillPoints:       ev.SkillPoints,
		Skills:            len(ev.UnlockedSkills),
		Achievements:      len(ev.Achievements),
	}
	if span > 0 {
		p.Percent = character.Clamp(ev.Experience/span*100, 0, 100)
	}
	return p
}

// Available lists the skills that could be unlocked right now.
func Available(ev character.Evolution) []character.SkillID {
	var out []character.SkillID
	for _, d := range Skills() {
		if CanUnlock(ev, d.ID) {
			out = append(out, d.ID)
		}
	}
	return out
}
