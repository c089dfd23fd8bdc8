// Package events is the companion's synchronous publish/subscribe bus and
// the typed payloads of every outbound notification.
package events

import (
	"time"

	"github.com/cyberFlowTech/zapry-companion-go/character"
)

// Name identifies an event kind.
type Name string

const (
	EmotionChanged      Name = "emotionChanged"
	RelationshipChanged Name = "relationshipChanged"
	MemoryUpdated       Name = "memoryUpdated"
	PersonalityShifted  Name = "personalityShifted"
	ExperienceGained    Name = "experience-gained"
	LevelUp             Name = "level-up"
	StageEvolution      Name = "stage-evolution"
	SkillUnlocked       Name = "skill-unlocked"
	AchievementUnlocked Name = "achievement-unlocked"
	AbilityUsed         Name = "ability-used"
	DataErased          Name = "data-erased"
)

// All lists every event name.
var All = []Name{
	EmotionChanged, RelationshipChanged, MemoryUpdated, PersonalityShifted,
	ExperienceGained, LevelUp, StageEvolution, SkillUnlocked, AchievementUnlocked, AbilityUsed,
	DataErased,
}

// Event is one emitted notification. Payload is one of the *Payload types below.
type Event struct {
	Name        Name
	CompanionID string
	At          time.Time
	Payload     any
}

type EmotionChangedPayload struct {
	From      character.Emotion `json:"from"`
	To        character.Emotion `json:"to"`
	Intensity float64           `json:"intensity"`
	Trigger   string            `json:"trigger,omitempty"`
}

type RelationshipChangedPayload struct {
	Intimacy  float64                    `json:"intimacy"`
	Trust     float64                    `json:"trust"`
	Type      character.RelationshipType `json:"type"`
	OldType   character.RelationshipType `json:"old_type"`
	Milestone *character.Milestone       `json:"milestone,omitempty"`
	Conflict  *character.Conflict        `json:"conflict,omitempty"`
}

type MemoryUpdatedPayload struct {
	ShortTerm   int `json:"short_term"`
	LongTerm    int `json:"long_term"`
	Emotional   int `json:"emotional"`
	Preferences int `json:"preferences"`
	Facts       int `json:"facts"`
}

type PersonalityShiftedPayload struct {
	Deltas map[character.Trait]float64 `json:"deltas"`
	Stage  character.DevelopmentStage  `json:"stage"`
}

type ExperienceGainedPayload struct {
	Type   character.ExperienceType `json:"type"`
	Amount float64                  `json:"amount"`
	Total  float64                  `json:"total"`
	Level  int                      `json:"level"`
}

type LevelUpPayload struct {
	OldLevel          int                      `json:"old_level"`
	NewLevel          int                      `json:"new_level"`
	Stage             character.EvolutionStage `json:"stage"`
	SkillPointsGained int                      `json:"skill_points_gained"`
}

type StageEvolutionPayload struct {
	OldStage character.EvolutionStage `json:"old_stage"`
	NewStage character.EvolutionStage `json:"new_stage"`
	Level    int                      `json:"level"`
}

type SkillUnlockedPayload struct {
	Skill    character.SkillID `json:"skill"`
	Category string            `json:"category"`
	Level    int               `json:"level"`
}

// Rewards describes what an achievement grants.
type Rewards struct {
	SkillPoints int                         `json:"skill_points,omitempty"`
	Growth      map[character.Trait]float64 `json:"growth,omitempty"`
	Title       string                      `json:"title,omitempty"`
}

type AchievementUnlockedPayload struct {
	Achievement character.AchievementID `json:"achievement"`
	Tier        string                  `json:"tier"`
	Rewards     Rewards                 `json:"rewards"`
}

type AbilityUsedPayload struct {
	Ability       character.AbilityID `json:"ability"`
	CooldownUntil time.Time           `json:"cooldown_until"`
}

type DataErasedPayload struct {
	Reason string `json:"reason"`
}
