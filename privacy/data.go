package privacy

import (
	"time"

	"github.com/cyberFlowTech/zapry-companion-go/character"
)

// UserData is the compliance export of everything the companion knows
// about its user.
type UserData struct {
	CompanionID    string                    `json:"companion_id"`
	UserID         string                    `json:"user_id,omitempty"`
	UserName       string                    `json:"user_name,omitempty"`
	ExportedAt     time.Time                 `json:"exported_at"`
	Anonymized     bool                      `json:"anonymized"`
	Privacy        character.PrivacySettings `json:"privacy"`
	Memory         character.Memory          `json:"memory"`
	Relationship   character.Relationship    `json:"relationship"`
	EmotionHistory []character.EmotionMemory `json:"emotion_history"`
	Learning       character.Learning        `json:"learning"`
}

// CollectUserData deep-copies the user-facing slices of c.
func CollectUserData(c *character.Companion, now time.Time) (UserData, error) {
	cp, err := c.Clone()
	if err != nil {
		return UserData{}, err
	}
	cp.Normalize()
	return UserData{
		CompanionID:    cp.ID,
		UserID:         cp.UserID,
		UserName:       cp.UserName,
		ExportedAt:     now,
		Privacy:        cp.Privacy,
		Memory:         cp.Memory,
		Relationship:   cp.Relationship,
		EmotionHistory: cp.Emotional.History,
		Learning:       cp.Learning,
	}, nil
}

// CleanupReport summarizes one retention sweep.
type CleanupReport struct {
	Policy    character.RetentionPolicy `json:"policy"`
	Cutoff    time.Time                 `json:"cutoff,omitempty"`
	ShortTerm int                       `json:"short_term_removed"`
	Emotional int                       `json:"emotional_removed"`
	LongTerm  int                       `json:"long_term_removed"`
}

// Removed is the total number of records dropped.
func (r CleanupReport) Removed() int {
	return r.ShortTerm + r.Emotional + r.LongTerm
}

// CleanExpiredData drops memories older than the retention cutoff.
// Short-term turns and emotional memories are always filtered; long-term
// events only under the short-term policy. Permanent retention is a no-op.
func CleanExpiredData(c *character.Companion, now time.Time) CleanupReport {
	rep := CleanupReport{Policy: c.Privacy.Retention}
	window, bounded := RetentionWindow(c.Privacy.Retention)
	if !bounded {
		return rep
	}
	cutoff := now.Add(-window)
	rep.Cutoff = cutoff

	m := &c.Memory
	before := len(m.ShortTerm)
	m.ShortTerm = keepSince(m.ShortTerm, cutoff, func(t character.ConversationTurn) time.Time { return t.Timestamp })
	rep.ShortTerm = before - len(m.ShortTerm)

	before = len(m.Emotional)
	m.Emotional = keepSince(m.Emotional, cutoff, func(e character.EmotionalMemory) time.Time { return e.Timestamp })
	rep.Emotional = before - len(m.Emotional)

	if c.Privacy.Retention == character.RetentionShortTerm {
		before = len(m.LongTerm)
		m.LongTerm = keepSince(m.LongTerm, cutoff, func(e character.SignificantEvent) time.Time { return e.Timestamp })
		rep.LongTerm = before - len(m.LongTerm)
	}
	return rep
}

func keepSince[T any](items []T, cutoff time.Time, at func(T) time.Time) []T {
	out := items[:0]
	for _, it := range items {
		if !at(it).Before(cutoff) {
			out = append(out, it)
		}
	}
	return out
}

// DeleteAllUserData resets memory, relationship, emotion history,
// personality-adaptation history and learned behaviour. Identity, traits,
// privacy settings and evolution are kept.
func DeleteAllUserData(c *character.Companion, now time.Time) {
	c.Memory = character.DefaultMemory()
	c.Relationship = character.DefaultRelationship(now)
	c.Emotional.History = []character.EmotionMemory{}
	for i := range c.Emotional.Triggers {
		c.Emotional.Triggers[i].LastActivated = time.Time{}
	}
	c.Personality.Adaptation.History = []character.PersonalitySnapshot{}
	c.Personality.Adaptation.Interactions = 0
	c.Personality.Adaptation.Stage = character.DevelopmentInitial
	rate := c.Learning.AdaptationRate
	c.Learning = character.DefaultLearning()
	c.Learning.AdaptationRate = rate
	c.UpdatedAt = now
}
