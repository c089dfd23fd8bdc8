package character

import (
	"fmt"
	"time"
)

// ConflictType classifies a detected conflict.
type ConflictType string

const (
	ConflictMisunderstanding       ConflictType = "misunderstanding"
	ConflictBoundaryCrossed        ConflictType = "boundary_crossed"
	ConflictValueConflict          ConflictType = "value_conflict"
	ConflictCommunicationBreakdown ConflictType = "communication_breakdown"
)

// Conflict is a recorded friction point in the relationship.
type Conflict struct {
	ID          string       `json:"id"`
	Type        ConflictType `json:"type"`
	Description string       `json:"description"`
	Severity    float64      `json:"severity"`
	Timestamp   time.Time    `json:"timestamp"`
	Resolved    bool         `json:"resolved"`
}

// MilestoneType names a one-time relationship achievement.
type MilestoneType string

const (
	MilestoneLevelUp             MilestoneType = "relationship_level_up"
	MilestoneTrustBreakthrough   MilestoneType = "trust_breakthrough"
	MilestoneEmotionalConnection MilestoneType = "emotional_connection"
	MilestoneSharedSecret        MilestoneType = "shared_secret"
	MilestoneCelebration         MilestoneType = "celebration_together"
)

// Milestone is a special moment recorded once per named condition.
// Threshold is set for level-up milestones; Key identifies keyword-driven
// milestones that may recur for distinct content.
type Milestone struct {
	ID           string        `json:"id"`
	Type         MilestoneType `json:"type"`
	Threshold    float64       `json:"threshold,omitempty"`
	Key          string        `json:"key,omitempty"`
	Message      string        `json:"message"`
	Significance float64       `json:"significance"`
	Timestamp    time.Time     `json:"timestamp"`
}

// Relationship tracks the evolving relationship between companion and user.
type Relationship struct {
	Intimacy          float64          `json:"intimacy"` // 0-10, default 1
	Trust             float64          `json:"trust"`    // 0-10, default 1
	Type              RelationshipType `json:"type"`
	Conflicts         []Conflict       `json:"conflicts"`  // max 20
	Milestones        []Milestone      `json:"milestones"` // max 30, pruned by significance
	Achieved          map[string]bool  `json:"achieved_milestones"`
	DailyInteractions int              `json:"daily_interactions"`
	TotalInteractions int              `json:"total_interactions"`
	LastInteraction   time.Time        `json:"last_interaction,omitempty"`
	FirstMet          time.Time        `json:"first_met"`
}

// DefaultRelationship returns the initial relationship state
// for a first-time interaction.
func DefaultRelationship(now time.Time) Relationship {
	return Relationship{
		Intimacy:   1,
		Trust:      1,
		Type:       RelationshipFriend,
		Conflicts:  []Conflict{},
		Milestones: []Milestone{},
		Achieved:   map[string]bool{},
		FirstMet:   now,
	}
}

// Average is the mean of intimacy and trust.
func (r Relationship) Average() float64 {
	return (r.Intimacy + r.Trust) / 2
}

// CountMilestones counts milestones of type t.
func (r Relationship) CountMilestones(t MilestoneType) int {
	n := 0
	for _, m := range r.Milestones {
		if m.Type == t {
			n++
		}
	}
	return n
}

// MilestoneKey names a one-time milestone condition. Level-up milestones are
// keyed by threshold.
func MilestoneKey(t MilestoneType, threshold float64) string {
	if t == MilestoneLevelUp {
		return fmt.Sprintf("%s@%g", t, threshold)
	}
	return string(t)
}

// HasAchieved reports whether the condition named by key was ever recorded.
// Achieved survives milestone pruning; the list is consulted for documents
// written before it existed.
func (r Relationship) HasAchieved(key string) bool {
	if r.Achieved[key] {
		return true
	}
	for _, m := range r.Milestones {
		if MilestoneKey(m.Type, m.Threshold) == key {
			return true
		}
	}
	return false
}

// MarkAchieved records key as reached.
func (r *Relationship) MarkAchieved(key string) {
	if r.Achieved == nil {
		r.Achieved = map[string]bool{}
	}
	r.Achieved[key] = true
}
