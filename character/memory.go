package character

import "time"

// Capacity limits of every capped sequence in the aggregate.
const (
	ShortTermCap        = 10
	LongTermCap         = 50
	EmotionalMemoryCap  = 50
	PreferenceCap       = 100
	FactCap             = 200
	EmotionHistoryCap   = 20
	ConflictCap         = 20
	MilestoneCap        = 30
	PersonalityHistCap  = 20
	ConsolidateInterval = 10
)

// ConversationTurn is one user message as remembered in short-term memory.
type ConversationTurn struct {
	ID           string    `json:"id"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
	Significance float64   `json:"significance"`
	Topics       []string  `json:"topics"`
	Sentiment    float64   `json:"sentiment"`
}

// EventType classifies long-term significant events.
type EventType string

const (
	EventFirstMeeting          EventType = "first_meeting"
	EventEmotionalBreakthrough EventType = "emotional_breakthrough"
	EventSupportGiven          EventType = "support_given"
	EventCelebration           EventType = "celebration"
	EventLearningMoment        EventType = "learning_moment"
	EventSharedExperience      EventType = "shared_experience"
)

// SignificantEvent is a long-term memory promoted from a significant turn.
type SignificantEvent struct {
	ID                 string    `json:"id"`
	Type               EventType `json:"type"`
	Description        string    `json:"description"`
	Timestamp          time.Time `json:"timestamp"`
	Impact             float64   `json:"impact"`
	RelationshipChange float64   `json:"relationship_change"`
	Topics             []string  `json:"topics,omitempty"`
	SourceTurnID       string    `json:"source_turn_id,omitempty"`
}

// EmotionalMemory is an intense emotional moment worth keeping.
type EmotionalMemory struct {
	ID        string    `json:"id"`
	Emotion   Emotion   `json:"emotion"`
	Intensity float64   `json:"intensity"`
	Trigger   string    `json:"trigger"`
	Context   string    `json:"context,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Impact    float64   `json:"impact"`
}

// Preference is a learned like or dislike.
type Preference struct {
	ID            string    `json:"id"`
	Category      string    `json:"category"`
	Value         string    `json:"value"`
	Confidence    float64   `json:"confidence"`
	Importance    float64   `json:"importance"`
	LearnedAt     time.Time `json:"learned_at"`
	LastConfirmed time.Time `json:"last_confirmed"`
}

// Fact is a learned piece of personal information about the user.
type Fact struct {
	ID             string    `json:"id"`
	Category       string    `json:"category"`
	Content        string    `json:"content"`
	Confidence     float64   `json:"confidence"`
	Importance     float64   `json:"importance"`
	LearnedAt      time.Time `json:"learned_at"`
	LastReferenced time.Time `json:"last_referenced"`
}

// Memory is the memory slice of the aggregate. TurnCount counts every turn
// ever stored and drives periodic consolidation.
type Memory struct {
	ShortTerm   []ConversationTurn `json:"short_term"`
	LongTerm    []SignificantEvent `json:"long_term"`
	Emotional   []EmotionalMemory  `json:"emotional"`
	Preferences []Preference       `json:"preferences"`
	Facts       []Fact             `json:"facts"`
	TurnCount   int                `json:"turn_count"`
}

// DefaultMemory returns an empty memory slice.
func DefaultMemory() Memory {
	return Memory{
		ShortTerm:   []ConversationTurn{},
		LongTerm:    []SignificantEvent{},
		Emotional:   []EmotionalMemory{},
		Preferences: []Preference{},
		Facts:       []Fact{},
	}
}

// AddEmotionalMemory appends m and prunes the lowest-impact entries beyond the cap.
func (m *Memory) AddEmotionalMemory(e EmotionalMemory) {
	m.Emotional = append(m.Emotional, e)
	m.Emotional = PruneLowest(m.Emotional, EmotionalMemoryCap, func(x EmotionalMemory) float64 { return x.Impact })
}

// AddLongTerm appends e and prunes the lowest-impact events beyond the cap.
func (m *Memory) AddLongTerm(e SignificantEvent) {
	m.LongTerm = append(m.LongTerm, e)
	m.LongTerm = PruneLowest(m.LongTerm, LongTermCap, func(x SignificantEvent) float64 { return x.Impact })
}

// CountEvents counts long-term events of type t.
func (m Memory) CountEvents(t EventType) int {
	n := 0
	for _, e := range m.LongTerm {
		if e.Type == t {
			n++
		}
	}
	return n
}
