// Package relationship tracks intimacy and trust between the companion and
// its user, records conflicts and milestones and derives the relationship type.
package relationship

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cyberFlowTech/zapry-companion-go/character"
	"github.com/cyberFlowTech/zapry-companion-go/internal/textutil"
)

// Result describes what one Process call changed.
type Result struct {
	Changed       bool                       `json:"changed"`
	IntimacyDelta float64                    `json:"intimacy_delta"`
	TrustDelta    float64                    `json:"trust_delta"`
	OldType       character.RelationshipType `json:"old_type"`
	Type          character.RelationshipType `json:"type"`
	Conflict      *character.Conflict        `json:"conflict,omitempty"`
	Milestone     *character.Milestone       `json:"milestone,omitempty"`
}

// Tracker is the relationship subsystem. It holds no per-companion state.
type Tracker struct {
	log *logrus.Entry
}

// NewTracker creates a tracker. A nil log discards output.
func NewTracker(log *logrus.Entry) *Tracker {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Tracker{log: log.WithField("component", "RelationshipTracker")}
}

// Process applies one message to c's relationship slice.
func (tr *Tracker) Process(c *character.Companion, message string, ctx character.InteractionContext, now time.Time) Result {
	r := &c.Relationship
	text := textutil.Normalize(message)
	res := Result{OldType: r.Type}

	countInteraction(r, now)

	before := r.Intimacy
	r.Intimacy = character.ClampRelationship(r.Intimacy + IntimacyDelta(text, ctx, now))
	res.IntimacyDelta = r.Intimacy - before

	before = r.Trust
	r.Trust = character.ClampRelationship(r.Trust + TrustDelta(text, r.DailyInteractions))
	res.TrustDelta = r.Trust - before

	if cf := detectConflict(text, message, now); cf != nil {
		r.Conflicts = character.KeepLast(append(r.Conflicts, *cf), character.ConflictCap)
		r.Trust = character.ClampRelationship(r.Trust - cf.Severity*conflictTrustCost)
		res.TrustDelta = r.Trust - before
		res.Conflict = cf
		tr.log.WithFields(logrus.Fields{"companion_id": c.ID, "type": cf.Type, "severity": cf.Severity}).Debug("conflict recorded")
	}

	if ms := detectMilestone(r, text, now); ms != nil {
		if ms.Type != character.MilestoneSharedSecret {
			r.MarkAchieved(character.MilestoneKey(ms.Type, ms.Threshold))
		}
		r.Milestones = append(r.Milestones, *ms)
		r.Milestones = character.PruneLowest(r.Milestones, character.MilestoneCap,
			func(m character.Milestone) float64 { return m.Significance })
		res.Milestone = ms
		tr.log.WithFields(logrus.Fields{"companion_id": c.ID, "milestone": ms.Type}).Info("milestone reached")
	}

	r.Type = DeriveType(*r, c.Memory)
	res.Type = r.Type

	res.Changed = res.IntimacyDelta != 0 || res.TrustDelta != 0 || res.Conflict != nil ||
		res.Milestone != nil || res.Type != res.OldType
	return res
}

// countInteraction bumps the counters, resetting the daily count on a new day.
func countInteraction(r *character.Relationship, now time.Time) {
	if r.LastInteraction.IsZero() || !character.SameDay(r.LastInteraction, now) {
		r.DailyInteractions = 0
	}
	r.DailyInteractions++
	r.TotalInteractions++
	r.LastInteraction = now
}

func weightedSum(text string, cats []weightedCategory) float64 {
	sum := 0.0
	for _, cat := range cats {
		sum += float64(textutil.CountKeywords(text, cat.keywords)) * cat.weight
	}
	return sum
}

// IntimacyDelta computes the clamped intimacy change for a normalized message.
func IntimacyDelta(text string, ctx character.InteractionContext, now time.Time) float64 {
	d := weightedSum(text, intimacyCategories)
	d -= float64(textutil.CountKeywords(text, detachmentWords)) * detachmentPenalty
	switch textutil.Normalize(ctx.UserMood) {
	case "sad", "caring":
		d += moodBonus
	}
	switch character.TimeOfDayAt(now) {
	case character.TimeEvening, character.TimeNight:
		d *= eveningMultiplier
	}
	return character.Clamp(d, -maxDelta, maxDelta)
}

// TrustDelta computes the clamped trust change for a normalized message.
// daily is today's interaction count including this one.
func TrustDelta(text string, daily int) float64 {
	d := weightedSum(text, trustCategories)
	d -= float64(textutil.CountKeywords(text, distrustWords)) * distrustPenalty
	if daily > dailyBonusAfter {
		d += dailyTrustBonus
	}
	return character.Clamp(d, -maxDelta, maxDelta)
}

func detectConflict(text, raw string, now time.Time) *character.Conflict {
	for _, rule := range conflictRules {
		if textutil.ContainsAny(text, rule.keywords) {
			return &character.Conflict{
				ID:          uuid.NewString(),
				Type:        rule.typ,
				Description: textutil.Excerpt(raw, 120),
				Severity:    rule.severity,
				Timestamp:   now,
			}
		}
	}
	return nil
}

// detectMilestone evaluates the milestone conditions in order and returns
// the first satisfied one that has not been reached before. Shared secrets
// are keyed by content and checked against the retained list.
func detectMilestone(r *character.Relationship, text string, now time.Time) *character.Milestone {
	avg := r.Average()
	for _, th := range levelThresholds {
		if avg >= th && !r.HasAchieved(character.MilestoneKey(character.MilestoneLevelUp, th)) {
			return newMilestone(character.MilestoneLevelUp, th, "",
				fmt.Sprintf("우리 사이가 한 단계 더 가까워졌어요 (%.1f)", th), th/10, now)
		}
	}
	if r.Trust >= trustBreakthroughAt && !r.HasAchieved(string(character.MilestoneTrustBreakthrough)) {
		return newMilestone(character.MilestoneTrustBreakthrough, 0, "",
			"이제 서로를 깊이 믿게 되었어요", 0.8, now)
	}
	if r.Intimacy >= emotionalConnectionAt && !r.HasAchieved(string(character.MilestoneEmotionalConnection)) {
		return newMilestone(character.MilestoneEmotionalConnection, 0, "",
			"마음이 통하는 사이가 되었어요", 0.8, now)
	}
	if textutil.ContainsAny(text, secretWords) && !hasSecret(r, text) {
		return newMilestone(character.MilestoneSharedSecret, 0, text,
			"소중한 비밀을 나눠줘서 고마워요", 0.7, now)
	}
	if textutil.ContainsAny(text, celebrationWords) && !r.HasAchieved(string(character.MilestoneCelebration)) {
		return newMilestone(character.MilestoneCelebration, 0, "",
			"함께 축하한 특별한 순간", 0.6, now)
	}
	return nil
}

func newMilestone(t character.MilestoneType, threshold float64, key, msg string, significance float64, now time.Time) *character.Milestone {
	return &character.Milestone{
		ID:           uuid.NewString(),
		Type:         t,
		Threshold:    threshold,
		Key:          key,
		Message:      msg,
		Significance: significance,
		Timestamp:    now,
	}
}

func hasSecret(r *character.Relationship, key string) bool {
	for _, m := range r.Milestones {
		if m.Type == character.MilestoneSharedSecret && m.Key == key {
			return true
		}
	}
	return false
}

// DeriveType is the relationship type implied by r and the long-term
// memory it has built up. Confidant and mentor override the average bands.
func DeriveType(r character.Relationship, mem character.Memory) character.RelationshipType {
	if r.Trust >= confidantTrust && r.CountMilestones(character.MilestoneSharedSecret) >= confidantSecrets {
		return character.RelationshipConfidant
	}
	if r.Trust >= mentorTrust && r.Intimacy >= mentorIntimacy &&
		mem.CountEvents(character.EventLearningMoment) >= mentorLearning &&
		r.TotalInteractions >= mentorInteractions {
		return character.RelationshipMentor
	}
	avg := r.Average()
	for _, b := range typeBands {
		if avg >= b.min {
			return b.typ
		}
	}
	return character.RelationshipFriend
}
