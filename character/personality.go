package character

import "time"

// CoreTraits holds the eight fixed-scale traits plus the three meta traits.
type CoreTraits struct {
	Cheerfulness float64 `json:"cheerfulness"`
	Empathy      float64 `json:"empathy"`
	Curiosity    float64 `json:"curiosity"`
	Humor        float64 `json:"humor"`
	Patience     float64 `json:"patience"`
	Creativity   float64 `json:"creativity"`
	Playfulness  float64 `json:"playfulness"`
	Sensitivity  float64 `json:"sensitivity"`

	Adaptability float64 `json:"adaptability"`
	Consistency  float64 `json:"consistency"`
	Authenticity float64 `json:"authenticity"`
}

func (c *CoreTraits) field(t Trait) *float64 {
	switch t {
	case TraitCheerfulness:
		return &c.Cheerfulness
	case TraitEmpathy:
		return &c.Empathy
	case TraitCuriosity:
		return &c.Curiosity
	case TraitHumor:
		return &c.Humor
	case TraitPatience:
		return &c.Patience
	case TraitCreativity:
		return &c.Creativity
	case TraitPlayfulness:
		return &c.Playfulness
	case TraitSensitivity:
		return &c.Sensitivity
	case TraitAdaptability:
		return &c.Adaptability
	case TraitConsistency:
		return &c.Consistency
	case TraitAuthenticity:
		return &c.Authenticity
	}
	return nil
}

// Get returns the trait value, 0 for unknown traits.
func (c CoreTraits) Get(t Trait) float64 {
	if p := c.field(t); p != nil {
		return *p
	}
	return 0
}

// Set stores v clamped to [0,1]. Unknown traits are ignored.
func (c *CoreTraits) Set(t Trait, v float64) {
	if p := c.field(t); p != nil {
		*p = Clamp01(v)
	}
}

// Add applies delta with clamping and returns the delta actually applied.
func (c *CoreTraits) Add(t Trait, delta float64) float64 {
	p := c.field(t)
	if p == nil {
		return 0
	}
	before := *p
	*p = Clamp01(before + delta)
	return *p - before
}

// DefaultCoreTraits is a balanced, slightly warm starting personality.
func DefaultCoreTraits() CoreTraits {
	return CoreTraits{
		Cheerfulness: 0.7,
		Empathy:      0.7,
		Curiosity:    0.6,
		Humor:        0.5,
		Patience:     0.6,
		Creativity:   0.5,
		Playfulness:  0.5,
		Sensitivity:  0.5,
		Adaptability: 0.5,
		Consistency:  0.7,
		Authenticity: 0.8,
	}
}

// CurrentMood describes the dominant mood the companion is in right now.
type CurrentMood struct {
	Dominant    Emotion       `json:"dominant"`
	Intensity   float64       `json:"intensity"`
	Duration    time.Duration `json:"duration"`
	Trigger     string        `json:"trigger,omitempty"`
	TimeContext TimeOfDay     `json:"time_context"`
	Since       time.Time     `json:"since"`
}

// PersonalitySnapshot is a point-in-time copy of the traits.
type PersonalitySnapshot struct {
	Traits    CoreTraits       `json:"traits"`
	Stage     DevelopmentStage `json:"stage"`
	Timestamp time.Time        `json:"timestamp"`
}

// Adaptation tracks how the personality changes over the relationship.
type Adaptation struct {
	GrowthRate   float64               `json:"growth_rate"`
	History      []PersonalitySnapshot `json:"history"`
	Stage        DevelopmentStage      `json:"stage"`
	GrowthGoals  []string              `json:"growth_goals"`
	Interactions int                   `json:"interactions"`
}

// Personality is the personality slice of the aggregate.
type Personality struct {
	Core       CoreTraits  `json:"core"`
	Current    CurrentMood `json:"current"`
	Adaptation Adaptation  `json:"adaptation"`
}

// DefaultPersonality returns the initial personality slice.
func DefaultPersonality(now time.Time) Personality {
	return Personality{
		Core: DefaultCoreTraits(),
		Current: CurrentMood{
			Dominant:    EmotionNeutral,
			Intensity:   0.5,
			TimeContext: TimeOfDayAt(now),
			Since:       now,
		},
		Adaptation: Adaptation{
			GrowthRate:  0.3,
			History:     []PersonalitySnapshot{},
			Stage:       DevelopmentInitial,
			GrowthGoals: []string{},
		},
	}
}
