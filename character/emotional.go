package character

import "time"

// EmotionMemory is one entry of the emotional transition history. It records
// the emotion that was left behind and how far the move was.
type EmotionMemory struct {
	Emotion   Emotion   `json:"emotion"`
	Intensity float64   `json:"intensity"`
	Timestamp time.Time `json:"timestamp"`
	Trigger   string    `json:"trigger,omitempty"`
	Impact    float64   `json:"impact"`
}

// TriggerKind selects how an emotional trigger matches.
type TriggerKind string

const (
	TriggerKeyword   TriggerKind = "keyword"
	TriggerContext   TriggerKind = "context"
	TriggerSentiment TriggerKind = "sentiment"
)

// EmotionalTrigger is a rule that forces an emotional response when it fires.
//
// Keyword triggers match any of Keywords. Context triggers match when Topic
// and/or Setting equal the interaction context (empty fields are wildcards).
// Sentiment triggers match when message sentiment is at or below a negative
// Threshold, or at or above a positive one.
type EmotionalTrigger struct {
	ID            string        `json:"id" yaml:"id"`
	Kind          TriggerKind   `json:"kind" yaml:"kind"`
	Keywords      []string      `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Topic         string        `json:"topic,omitempty" yaml:"topic,omitempty"`
	Setting       string        `json:"setting,omitempty" yaml:"setting,omitempty"`
	Threshold     float64       `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Response      Emotion       `json:"response" yaml:"response"`
	Probability   float64       `json:"probability" yaml:"probability"`
	Cooldown      time.Duration `json:"cooldown" yaml:"cooldown"`
	LastActivated time.Time     `json:"last_activated,omitempty" yaml:"-"`
}

// EmotionalState is the emotion slice of the aggregate.
type EmotionalState struct {
	Current   Emotion            `json:"current"`
	Intensity float64            `json:"intensity"`
	History   []EmotionMemory    `json:"history"`
	Triggers  []EmotionalTrigger `json:"triggers"`
	Stability float64            `json:"stability"`
}

// DefaultTriggers are the built-in trigger rules every companion starts with.
func DefaultTriggers() []EmotionalTrigger {
	return []EmotionalTrigger{
		{
			ID:          "compliment",
			Kind:        TriggerKeyword,
			Keywords:    []string{"고마워", "최고야", "멋져", "you're amazing", "thank you so much", "proud of you"},
			Response:    EmotionHappy,
			Probability: 0.8,
			Cooldown:    5 * time.Minute,
		},
		{
			ID:          "farewell",
			Kind:        TriggerKeyword,
			Keywords:    []string{"잘 있어", "안녕히", "goodbye", "see you later", "bye bye"},
			Response:    EmotionSad,
			Probability: 0.5,
			Cooldown:    30 * time.Minute,
		},
		{
			ID:          "late_night_talk",
			Kind:        TriggerContext,
			Setting:     "night",
			Response:    EmotionCalm,
			Probability: 0.3,
			Cooldown:    time.Hour,
		},
		{
			ID:          "user_distress",
			Kind:        TriggerSentiment,
			Threshold:   -0.6,
			Response:    EmotionCaring,
			Probability: 0.7,
			Cooldown:    10 * time.Minute,
		},
	}
}

// DefaultEmotionalState returns the initial emotion slice.
func DefaultEmotionalState() EmotionalState {
	return EmotionalState{
		Current:   EmotionNeutral,
		Intensity: 0.5,
		History:   []EmotionMemory{},
		Triggers:  DefaultTriggers(),
		Stability: 0.5,
	}
}

// Validate checks the rule shape: id, kind, response, probability and cooldown.
func (t EmotionalTrigger) Validate() error {
	if t.ID == "" {
		return fieldErr("triggers", "trigger without id")
	}
	switch t.Kind {
	case TriggerKeyword, TriggerContext, TriggerSentiment:
	default:
		return fieldErr("triggers", "trigger %q has unknown kind %q", t.ID, t.Kind)
	}
	if !t.Response.Valid() {
		return fieldErr("triggers", "trigger %q has unknown response %q", t.ID, t.Response)
	}
	if err := checkUnit("triggers.probability", t.Probability); err != nil {
		return err
	}
	if t.Cooldown < 0 {
		return fieldErr("triggers", "trigger %q has negative cooldown", t.ID)
	}
	return nil
}

// AddTrigger appends t, replacing any trigger with the same ID.
func (s *EmotionalState) AddTrigger(t EmotionalTrigger) {
	for i := range s.Triggers {
		if s.Triggers[i].ID == t.ID {
			s.Triggers[i] = t
			return
		}
	}
	s.Triggers = append(s.Triggers, t)
}

// RemoveTrigger deletes the trigger with the given ID and reports whether it existed.
func (s *EmotionalState) RemoveTrigger(id string) bool {
	for i := range s.Triggers {
		if s.Triggers[i].ID == id {
			s.Triggers = append(s.Triggers[:i], s.Triggers[i+1:]...)
			return true
		}
	}
	return false
}
