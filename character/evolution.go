package character

import "time"

// BehaviorModel is the learned picture of how the user interacts.
type BehaviorModel struct {
	InteractionFrequency float64            `json:"interaction_frequency"` // interactions per day, smoothed
	PreferredHours       [24]int            `json:"preferred_hours"`
	TopicWeights         map[string]float64 `json:"topic_weights"`
}

// Learning is read by the emotion and personality weighting.
type Learning struct {
	Behavior       BehaviorModel `json:"behavior"`
	AdaptationRate float64       `json:"adaptation_rate"`
}

// DefaultLearning returns an empty behaviour model.
func DefaultLearning() Learning {
	return Learning{
		Behavior:       BehaviorModel{TopicWeights: map[string]float64{}},
		AdaptationRate: 0.5,
	}
}

// ExperienceBreakdown splits cumulative experience by type.
type ExperienceBreakdown struct {
	Conversation float64 `json:"conversation"`
	Emotional    float64 `json:"emotional"`
	Learning     float64 `json:"learning"`
	Relationship float64 `json:"relationship"`
}

// Get returns the experience of type t.
func (b ExperienceBreakdown) Get(t ExperienceType) float64 {
	switch t {
	case ExperienceConversation:
		return b.Conversation
	case ExperienceEmotional:
		return b.Emotional
	case ExperienceLearning:
		return b.Learning
	case ExperienceRelationship:
		return b.Relationship
	}
	return 0
}

// Add increases the bucket for t.
func (b *ExperienceBreakdown) Add(t ExperienceType, amount float64) {
	switch t {
	case ExperienceConversation:
		b.Conversation += amount
	case ExperienceEmotional:
		b.Emotional += amount
	case ExperienceLearning:
		b.Learning += amount
	case ExperienceRelationship:
		b.Relationship += amount
	}
}

// Evolution is the gamified progression slice.
//
// Experience is progress inside the current level; TotalExperience is
// cumulative. Level always equals LevelForExperience(TotalExperience).
type Evolution struct {
	Level           int                     `json:"level"`
	Experience      float64                 `json:"experience"`
	TotalExperience float64                 `json:"total_experience"`
	Breakdown       ExperienceBreakdown     `json:"breakdown"`
	Stage           EvolutionStage          `json:"stage"`
	UnlockedSkills  []SkillID               `json:"unlocked_skills"`
	SkillPoints     int                     `json:"skill_points"`
	Achievements    []AchievementID         `json:"achievements"`
	Cooldowns       map[AbilityID]time.Time `json:"cooldowns"`
	Growth          map[Trait]float64       `json:"growth"`
}

// DefaultEvolution returns a level-1 evolution slice.
func DefaultEvolution() Evolution {
	return Evolution{
		Level:          1,
		Stage:          StageNascent,
		UnlockedSkills: []SkillID{},
		Achievements:   []AchievementID{},
		Cooldowns:      map[AbilityID]time.Time{},
		Growth:         map[Trait]float64{},
	}
}

// HasSkill reports whether id is unlocked.
func (e Evolution) HasSkill(id SkillID) bool {
	for _, s := range e.UnlockedSkills {
		if s == id {
			return true
		}
	}
	return false
}

// HasAchievement reports whether id is unlocked.
func (e Evolution) HasAchievement(id AchievementID) bool {
	for _, a := range e.Achievements {
		if a == id {
			return true
		}
	}
	return false
}
