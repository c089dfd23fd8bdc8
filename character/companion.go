// Package character defines the companion aggregate: the single mutable
// record holding personality, emotion, memory, relationship, privacy,
// learning and evolution state for one character.
package character

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidField reports a field that fails validation.
var ErrInvalidField = errors.New("invalid field")

// Identity fields survive a full privacy erase.
type Identity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	UserID   string `json:"user_id,omitempty"`
	UserName string `json:"user_name,omitempty"`
}

// Companion is the aggregate. It is owned by exactly one manager and is not
// safe for concurrent use on its own.
type Companion struct {
	Identity
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Personality  Personality     `json:"personality"`
	Emotional    EmotionalState  `json:"emotional_state"`
	Memory       Memory          `json:"memory"`
	Relationship Relationship    `json:"relationship"`
	Privacy      PrivacySettings `json:"privacy"`
	Learning     Learning        `json:"learning"`
	Evolution    Evolution       `json:"evolution"`
}

// New builds a companion with every slice at its default. An empty ID is
// replaced by a random UUID.
func New(id Identity, now time.Time) *Companion {
	if id.ID == "" {
		id.ID = uuid.NewString()
	}
	return &Companion{
		Identity:     id,
		CreatedAt:    now,
		UpdatedAt:    now,
		Personality:  DefaultPersonality(now),
		Emotional:    DefaultEmotionalState(),
		Memory:       DefaultMemory(),
		Relationship: DefaultRelationship(now),
		Privacy:      DefaultPrivacy(),
		Learning:     DefaultLearning(),
		Evolution:    DefaultEvolution(),
	}
}

// Clone returns a deep copy via the export encoding.
func (c *Companion) Clone() (*Companion, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var out Companion
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func fieldErr(field string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidField, field, fmt.Sprintf(format, args...))
}

func checkUnit(field string, v float64) error {
	if v < 0 || v > 1 {
		return fieldErr(field, "%v outside [0,1]", v)
	}
	return nil
}

// Validate checks every aggregate invariant. It is run on imported documents
// before they replace live state.
func (c *Companion) Validate() error {
	if c.ID == "" {
		return fieldErr("id", "empty")
	}
	for _, t := range AllTraits {
		if err := checkUnit("personality.core."+string(t), c.Personality.Core.Get(t)); err != nil {
			return err
		}
	}
	if err := checkUnit("personality.current.intensity", c.Personality.Current.Intensity); err != nil {
		return err
	}
	if err := checkUnit("personality.adaptation.growth_rate", c.Personality.Adaptation.GrowthRate); err != nil {
		return err
	}
	if len(c.Personality.Adaptation.History) > PersonalityHistCap {
		return fieldErr("personality.adaptation.history", "exceeds cap %d", PersonalityHistCap)
	}

	e := c.Emotional
	if !e.Current.Valid() {
		return fieldErr("emotional_state.current", "unknown emotion %q", e.Current)
	}
	if err := checkUnit("emotional_state.intensity", e.Intensity); err != nil {
		return err
	}
	if err := checkUnit("emotional_state.stability", e.Stability); err != nil {
		return err
	}
	if len(e.History) > EmotionHistoryCap {
		return fieldErr("emotional_state.history", "exceeds cap %d", EmotionHistoryCap)
	}
	for _, t := range e.Triggers {
		if !t.Response.Valid() {
			return fieldErr("emotional_state.triggers", "trigger %q has unknown response %q", t.ID, t.Response)
		}
		if err := checkUnit("emotional_state.triggers.probability", t.Probability); err != nil {
			return err
		}
	}

	m := c.Memory
	caps := []struct {
		name string
		n    int
		cap  int
	}{
		{"memory.short_term", len(m.ShortTerm), ShortTermCap},
		{"memory.long_term", len(m.LongTerm), LongTermCap},
		{"memory.emotional", len(m.Emotional), EmotionalMemoryCap},
		{"memory.preferences", len(m.Preferences), PreferenceCap},
		{"memory.facts", len(m.Facts), FactCap},
		{"relationship.conflicts", len(c.Relationship.Conflicts), ConflictCap},
		{"relationship.milestones", len(c.Relationship.Milestones), MilestoneCap},
	}
	for _, cp := range caps {
		if cp.n > cp.cap {
			return fieldErr(cp.name, "%d entries exceed cap %d", cp.n, cp.cap)
		}
	}

	r := c.Relationship
	if r.Intimacy < 0 || r.Intimacy > 10 {
		return fieldErr("relationship.intimacy", "%v outside [0,10]", r.Intimacy)
	}
	if r.Trust < 0 || r.Trust > 10 {
		return fieldErr("relationship.trust", "%v outside [0,10]", r.Trust)
	}
	if !r.Type.Valid() {
		return fieldErr("relationship.type", "unknown type %q", r.Type)
	}

	if err := c.Privacy.Validate(); err != nil {
		return err
	}
	if err := checkUnit("learning.adaptation_rate", c.Learning.AdaptationRate); err != nil {
		return err
	}

	ev := c.Evolution
	if ev.Level < 1 {
		return fieldErr("evolution.level", "%d below 1", ev.Level)
	}
	if ev.TotalExperience < 0 || ev.Experience < 0 {
		return fieldErr("evolution.experience", "negative experience")
	}
	if !(ev.TotalExperience <= MaxTotalExperience) {
		return fieldErr("evolution.total_experience", "%v above %v", ev.TotalExperience, float64(MaxTotalExperience))
	}
	if want := LevelForExperience(ev.TotalExperience); want != ev.Level {
		return fieldErr("evolution.level", "level %d does not match total experience %v (want %d)", ev.Level, ev.TotalExperience, want)
	}
	if ev.Stage != StageForLevel(ev.Level) {
		return fieldErr("evolution.stage", "stage %q does not match level %d", ev.Stage, ev.Level)
	}
	if ev.SkillPoints < 0 {
		return fieldErr("evolution.skill_points", "negative")
	}
	seenSkill := map[SkillID]bool{}
	for _, s := range ev.UnlockedSkills {
		if !s.Valid() || seenSkill[s] {
			return fieldErr("evolution.unlocked_skills", "invalid or duplicate skill %v", s)
		}
		seenSkill[s] = true
	}
	seenAch := map[AchievementID]bool{}
	for _, a := range ev.Achievements {
		if !a.Valid() || seenAch[a] {
			return fieldErr("evolution.achievements", "invalid or duplicate achievement %v", a)
		}
		seenAch[a] = true
	}
	return nil
}

// Normalize fills nil collections left empty by a decoded document so the
// rest of the code can append without nil checks.
func (c *Companion) Normalize() {
	if c.Personality.Adaptation.History == nil {
		c.Personality.Adaptation.History = []PersonalitySnapshot{}
	}
	if c.Personality.Adaptation.GrowthGoals == nil {
		c.Personality.Adaptation.GrowthGoals = []string{}
	}
	if c.Emotional.History == nil {
		c.Emotional.History = []EmotionMemory{}
	}
	if c.Emotional.Triggers == nil {
		c.Emotional.Triggers = []EmotionalTrigger{}
	}
	m := &c.Memory
	if m.ShortTerm == nil {
		m.ShortTerm = []ConversationTurn{}
	}
	if m.LongTerm == nil {
		m.LongTerm = []SignificantEvent{}
	}
	if m.Emotional == nil {
		m.Emotional = []EmotionalMemory{}
	}
	if m.Preferences == nil {
		m.Preferences = []Preference{}
	}
	if m.Facts == nil {
		m.Facts = []Fact{}
	}
	if c.Relationship.Conflicts == nil {
		c.Relationship.Conflicts = []Conflict{}
	}
	if c.Relationship.Milestones == nil {
		c.Relationship.Milestones = []Milestone{}
	}
	if c.Relationship.Achieved == nil {
		c.Relationship.Achieved = map[string]bool{}
	}
	if c.Learning.Behavior.TopicWeights == nil {
		c.Learning.Behavior.TopicWeights = map[string]float64{}
	}
	ev := &c.Evolution
	if ev.UnlockedSkills == nil {
		ev.UnlockedSkills = []SkillID{}
	}
	if ev.Achievements == nil {
		ev.Achievements = []AchievementID{}
	}
	if ev.Cooldowns == nil {
		ev.Cooldowns = map[AbilityID]time.Time{}
	}
	if ev.Growth == nil {
		ev.Growth = map[Trait]float64{}
	}
}
