package character

import (
	"math"
	"time"
)

// Emotion is the companion's categorical emotional label.
type Emotion string

const (
	EmotionNeutral   Emotion = "neutral"
	EmotionHappy     Emotion = "happy"
	EmotionExcited   Emotion = "excited"
	EmotionCalm      Emotion = "calm"
	EmotionCurious   Emotion = "curious"
	EmotionCaring    Emotion = "caring"
	EmotionLoving    Emotion = "loving"
	EmotionSurprised Emotion = "surprised"
	EmotionAnxious   Emotion = "anxious"
	EmotionSad       Emotion = "sad"
	EmotionAngry     Emotion = "angry"
)

// Emotions lists every valid emotion in a stable order.
var Emotions = []Emotion{
	EmotionNeutral, EmotionHappy, EmotionExcited, EmotionCalm, EmotionCurious, EmotionCaring,
	EmotionLoving, EmotionSurprised, EmotionAnxious, EmotionSad, EmotionAngry,
}

func (e Emotion) Valid() bool {
	for _, v := range Emotions {
		if v == e {
			return true
		}
	}
	return false
}

// Trait names a personality dimension. All traits live in [0,1].
type Trait string

const (
	TraitCheerfulness Trait = "cheerfulness"
	TraitEmpathy      Trait = "empathy"
	TraitCuriosity    Trait = "curiosity"
	TraitHumor        Trait = "humor"
	TraitPatience     Trait = "patience"
	TraitCreativity   Trait = "creativity"
	TraitPlayfulness  Trait = "playfulness"
	TraitSensitivity  Trait = "sensitivity"

	TraitAdaptability Trait = "adaptability"
	TraitConsistency  Trait = "consistency"
	TraitAuthenticity Trait = "authenticity"
)

// CoreTraitNames are the eight fixed-scale traits.
var CoreTraitNames = []Trait{
	TraitCheerfulness, TraitEmpathy, TraitCuriosity, TraitHumor,
	TraitPatience, TraitCreativity, TraitPlayfulness, TraitSensitivity,
}

// AllTraits is CoreTraitNames plus the three meta traits.
var AllTraits = append(append([]Trait{}, CoreTraitNames...), TraitAdaptability, TraitConsistency, TraitAuthenticity)

func (t Trait) Valid() bool {
	for _, v := range AllTraits {
		if v == t {
			return true
		}
	}
	return false
}

// TimeOfDay is the coarse local-time bucket used as mood context.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeNight     TimeOfDay = "night"
)

// TimeOfDayAt buckets t by local hour: 06-12 morning, 12-18 afternoon,
// 18-22 evening, 22-06 night.
func TimeOfDayAt(t time.Time) TimeOfDay {
	h := t.Hour()
	switch {
	case h >= 6 && h < 12:
		return TimeMorning
	case h >= 12 && h < 18:
		return TimeAfternoon
	case h >= 18 && h < 22:
		return TimeEvening
	default:
		return TimeNight
	}
}

// SameDay reports whether a and b fall on the same calendar day in b's location.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DevelopmentStage tracks personality maturity by interaction volume.
type DevelopmentStage string

const (
	DevelopmentInitial     DevelopmentStage = "initial"
	DevelopmentDeveloping  DevelopmentStage = "developing"
	DevelopmentEstablished DevelopmentStage = "established"
	DevelopmentMature      DevelopmentStage = "mature"
)

// DevelopmentStageFor derives the stage from total personality interactions.
func DevelopmentStageFor(interactions int) DevelopmentStage {
	switch {
	case interactions < 10:
		return DevelopmentInitial
	case interactions < 50:
		return DevelopmentDeveloping
	case interactions < 200:
		return DevelopmentEstablished
	default:
		return DevelopmentMature
	}
}

// RelationshipType is derived from intimacy and trust, never stored independently.
type RelationshipType string

const (
	RelationshipFriend           RelationshipType = "friend"
	RelationshipCloseFriend      RelationshipType = "close_friend"
	RelationshipBestFriend       RelationshipType = "best_friend"
	RelationshipRomanticInterest RelationshipType = "romantic_interest"
	RelationshipLifePartner      RelationshipType = "life_partner"
	RelationshipMentor           RelationshipType = "mentor"
	RelationshipConfidant        RelationshipType = "confidant"
)

func (r RelationshipType) Valid() bool {
	switch r {
	case RelationshipFriend, RelationshipCloseFriend, RelationshipBestFriend, RelationshipRomanticInterest,
		RelationshipLifePartner, RelationshipMentor, RelationshipConfidant:
		return true
	}
	return false
}

// RetentionPolicy bounds how long interaction data is kept.
type RetentionPolicy string

const (
	RetentionSessionOnly RetentionPolicy = "session_only"
	RetentionShortTerm   RetentionPolicy = "short_term"
	RetentionMediumTerm  RetentionPolicy = "medium_term"
	RetentionLongTerm    RetentionPolicy = "long_term"
	RetentionPermanent   RetentionPolicy = "permanent"
)

func (r RetentionPolicy) Valid() bool {
	switch r {
	case RetentionSessionOnly, RetentionShortTerm, RetentionMediumTerm, RetentionLongTerm, RetentionPermanent:
		return true
	}
	return false
}

// ConsentLevel is ordered: minimal < standard < enhanced < research.
type ConsentLevel string

const (
	ConsentMinimal  ConsentLevel = "minimal"
	ConsentStandard ConsentLevel = "standard"
	ConsentEnhanced ConsentLevel = "enhanced"
	ConsentResearch ConsentLevel = "research"
)

// Rank returns the position in the consent hierarchy, -1 if invalid.
func (c ConsentLevel) Rank() int {
	switch c {
	case ConsentMinimal:
		return 0
	case ConsentStandard:
		return 1
	case ConsentEnhanced:
		return 2
	case ConsentResearch:
		return 3
	}
	return -1
}

func (c ConsentLevel) Valid() bool { return c.Rank() >= 0 }

// ExperienceType is the typed bucket an experience grant belongs to.
type ExperienceType string

const (
	ExperienceConversation ExperienceType = "conversation"
	ExperienceEmotional    ExperienceType = "emotional"
	ExperienceLearning     ExperienceType = "learning"
	ExperienceRelationship ExperienceType = "relationship"
)

// ExperienceTypes lists the accepted experience types.
var ExperienceTypes = []ExperienceType{
	ExperienceConversation, ExperienceEmotional, ExperienceLearning, ExperienceRelationship,
}

func (t ExperienceType) Valid() bool {
	for _, v := range ExperienceTypes {
		if v == t {
			return true
		}
	}
	return false
}

// EvolutionStage is the coarse phase derived from level.
type EvolutionStage string

const (
	StageNascent      EvolutionStage = "nascent"
	StageDeveloping   EvolutionStage = "developing"
	StageMaturing     EvolutionStage = "maturing"
	StageEvolved      EvolutionStage = "evolved"
	StageTranscendent EvolutionStage = "transcendent"
)

// StageForLevel derives the evolution stage: nascent ≤1, developing ≤3,
// maturing ≤6, evolved ≤10, transcendent above.
func StageForLevel(level int) EvolutionStage {
	switch {
	case level <= 1:
		return StageNascent
	case level <= 3:
		return StageDeveloping
	case level <= 6:
		return StageMaturing
	case level <= 10:
		return StageEvolved
	default:
		return StageTranscendent
	}
}

// Rank orders stages for comparisons.
func (s EvolutionStage) Rank() int {
	switch s {
	case StageNascent:
		return 0
	case StageDeveloping:
		return 1
	case StageMaturing:
		return 2
	case StageEvolved:
		return 3
	case StageTranscendent:
		return 4
	}
	return -1
}

// MaxTotalExperience caps cumulative experience. Grants beyond it saturate.
const MaxTotalExperience = 1e9

// ExperienceForLevel is the cumulative experience needed to reach level:
// the sum of i*100 for i below level.
func ExperienceForLevel(level int) float64 {
	if level <= 1 {
		return 0
	}
	l := float64(level)
	return 50 * l * (l - 1)
}

// LevelForExperience returns the largest level whose cumulative threshold
// does not exceed total. It solves 50*L*(L-1) <= total directly and then
// corrects for rounding.
func LevelForExperience(total float64) int {
	if !(total >= ExperienceForLevel(2)) {
		return 1
	}
	if total > MaxTotalExperience {
		total = MaxTotalExperience
	}
	level := int((1 + math.Sqrt(1+total/12.5)) / 2)
	for level > 1 && ExperienceForLevel(level) > total {
		level--
	}
	for ExperienceForLevel(level+1) <= total {
		level++
	}
	return level
}

// InteractionContext is the metadata that accompanies a user message.
// Every field is optional.
type InteractionContext struct {
	Topic    string `json:"topic,omitempty"`
	Setting  string `json:"setting,omitempty"`
	UserMood string `json:"user_mood,omitempty"`
}
