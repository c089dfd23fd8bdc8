package relationship

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/cyberFlowTech/zapry-companion-go/character"
	"github.com/cyberFlowTech/zapry-companion-go/internal/textutil"
)

var afternoon = time.Date(2025, 7, 1, 15, 0, 0, 0, time.UTC)

func newCompanion() *character.Companion {
	return character.New(character.Identity{ID: "c1", Name: "Mina"}, afternoon)
}

// ══════════════════════════════════════════════
// Deltas
// ══════════════════════════════════════════════

func TestIntimacyDeltaEveningBoost(t *testing.T) {
	text := textutil.Normalize("솔직히 나 요즘 외로워")
	day := IntimacyDelta(text, character.InteractionContext{}, afternoon)
	evening := IntimacyDelta(text, character.InteractionContext{}, afternoon.Add(5*time.Hour))
	if math.Abs(day-0.055) > 1e-9 {
		t.Fatalf("daytime delta = %v, want 0.055", day)
	}
	if math.Abs(evening-day*eveningMultiplier) > 1e-9 {
		t.Fatalf("evening delta = %v, want %v", evening, day*eveningMultiplier)
	}
	withMood := IntimacyDelta(text, character.InteractionContext{UserMood: "sad"}, afternoon)
	if math.Abs(withMood-day-moodBonus) > 1e-9 {
		t.Fatalf("sad mood bonus not applied: %v", withMood)
	}
}

func TestDeltaClamped(t *testing.T) {
	text := textutil.Normalize("사랑해 사랑해 사랑해 보고 싶어 소중해 고마워 외로워 무서워 솔직히 마음이 인생의 의미")
	if d := IntimacyDelta(text, character.InteractionContext{}, afternoon); d != maxDelta {
		t.Fatalf("intimacy delta = %v, want clamp %v", d, maxDelta)
	}
	bad := textutil.Normalize("거짓말 배신 실망 liar betray")
	if d := TrustDelta(bad, 1); d != -maxDelta {
		t.Fatalf("trust delta = %v, want clamp %v", d, -maxDelta)
	}
}

func TestDailyTrustBonus(t *testing.T) {
	c := newCompanion()
	tr := NewTracker(nil)
	var last Result
	for i := 0; i < 6; i++ {
		last = tr.Process(c, "음", character.InteractionContext{}, afternoon.Add(time.Duration(i)*time.Minute))
	}
	if c.Relationship.DailyInteractions != 6 {
		t.Fatalf("daily = %d", c.Relationship.DailyInteractions)
	}
	if math.Abs(last.TrustDelta-dailyTrustBonus) > 1e-9 {
		t.Fatalf("6th interaction trust delta = %v", last.TrustDelta)
	}

	tr.Process(c, "음", character.InteractionContext{}, afternoon.Add(24*time.Hour))
	if c.Relationship.DailyInteractions != 1 || c.Relationship.TotalInteractions != 7 {
		t.Fatalf("counters after new day: daily=%d total=%d", c.Relationship.DailyInteractions, c.Relationship.TotalInteractions)
	}
}

func TestNeutralMessageIsNoChange(t *testing.T) {
	c := newCompanion()
	res := NewTracker(nil).Process(c, "음", character.InteractionContext{}, afternoon)
	if res.Changed {
		t.Fatalf("neutral message reported change: %+v", res)
	}
}

// ══════════════════════════════════════════════
// Conflicts
// ══════════════════════════════════════════════

func TestConflictReducesTrust(t *testing.T) {
	c := newCompanion()
	res := NewTracker(nil).Process(c, "그게 아니라 오해야", character.InteractionContext{}, afternoon)
	if res.Conflict == nil || res.Conflict.Type != character.ConflictMisunderstanding {
		t.Fatalf("expected misunderstanding, got %+v", res.Conflict)
	}
	if math.Abs(c.Relationship.Trust-(1-0.3*conflictTrustCost)) > 1e-9 {
		t.Fatalf("trust = %v", c.Relationship.Trust)
	}
	if !res.Changed || len(c.Relationship.Conflicts) != 1 {
		t.Fatal("conflict should be recorded as a change")
	}

	c.Relationship.Trust = 0.05
	NewTracker(nil).Process(c, "선 넘지 마", character.InteractionContext{}, afternoon)
	if c.Relationship.Trust != 0 {
		t.Fatalf("trust should floor at 0, got %v", c.Relationship.Trust)
	}
}

// ══════════════════════════════════════════════
// Milestones
// ══════════════════════════════════════════════

func TestCelebrationMilestoneOnce(t *testing.T) {
	c := newCompanion()
	tr := NewTracker(nil)
	res := tr.Process(c, "축하해요! 성공했어요!", character.InteractionContext{}, afternoon)
	if res.Milestone == nil || res.Milestone.Type != character.MilestoneCelebration {
		t.Fatalf("expected celebration milestone, got %+v", res.Milestone)
	}
	res = tr.Process(c, "축하해요! 성공했어요!", character.InteractionContext{}, afternoon.Add(time.Hour))
	if res.Milestone != nil {
		t.Fatalf("celebration repeated: %+v", res.Milestone)
	}
	if n := c.Relationship.CountMilestones(character.MilestoneCelebration); n != 1 {
		t.Fatalf("celebration milestones = %d", n)
	}
}

func TestLevelMilestonesOnePerCall(t *testing.T) {
	c := newCompanion()
	c.Relationship.Intimacy = 4.5
	c.Relationship.Trust = 4.5
	tr := NewTracker(nil)

	var got []float64
	for i := 0; i < 4; i++ {
		if res := tr.Process(c, "음", character.InteractionContext{}, afternoon); res.Milestone != nil {
			got = append(got, res.Milestone.Threshold)
		}
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Fatalf("level milestones = %v, want [2 4]", got)
	}
}

func TestMilestonesStayOnceAfterCap(t *testing.T) {
	c := newCompanion()
	c.Relationship.Intimacy = 3
	c.Relationship.Trust = 3
	tr := NewTracker(nil)
	day := 0
	next := func() time.Time {
		day++
		return afternoon.Add(time.Duration(day) * 24 * time.Hour)
	}

	levelReports := 0
	for i := 0; i < 35; i++ {
		res := tr.Process(c, fmt.Sprintf("비밀인데 %d번째 이야기", i), character.InteractionContext{}, next())
		if res.Milestone != nil && res.Milestone.Type == character.MilestoneLevelUp {
			levelReports++
		}
	}
	r := c.Relationship
	if levelReports != 1 || len(r.Milestones) != character.MilestoneCap {
		t.Fatalf("level reports = %d, milestones = %d", levelReports, len(r.Milestones))
	}
	if r.CountMilestones(character.MilestoneLevelUp) != 0 {
		t.Fatal("level milestone should have been pruned by significance")
	}

	for i := 0; i < 5; i++ {
		if res := tr.Process(c, "음", character.InteractionContext{}, next()); res.Milestone != nil {
			t.Fatalf("turn %d reported %s@%v again", i, res.Milestone.Type, res.Milestone.Threshold)
		}
	}
	res := tr.Process(c, "축하해요! 성공했어요!", character.InteractionContext{}, next())
	if res.Milestone == nil || res.Milestone.Type != character.MilestoneCelebration {
		t.Fatalf("expected celebration, got %+v", res.Milestone)
	}
	if res = tr.Process(c, "축하해요! 성공했어요!", character.InteractionContext{}, next()); res.Milestone != nil {
		t.Fatalf("celebration repeated after pruning: %+v", res.Milestone)
	}
	if !c.Relationship.HasAchieved(string(character.MilestoneCelebration)) {
		t.Fatal("celebration not in achieved set")
	}
}

func TestSharedSecretPerDistinctMessage(t *testing.T) {
	c := newCompanion()
	tr := NewTracker(nil)
	tr.Process(c, "비밀인데 나 고양이 무서워", character.InteractionContext{}, afternoon)
	tr.Process(c, "비밀인데 나 고양이 무서워", character.InteractionContext{}, afternoon)
	tr.Process(c, "비밀인데 나 사실 노래 못해", character.InteractionContext{}, afternoon)
	if n := c.Relationship.CountMilestones(character.MilestoneSharedSecret); n != 2 {
		t.Fatalf("shared secrets = %d, want 2", n)
	}
}

// ══════════════════════════════════════════════
// Type derivation
// ══════════════════════════════════════════════

func TestDeriveType(t *testing.T) {
	secrets := []character.Milestone{
		{Type: character.MilestoneSharedSecret, Key: "a"},
		{Type: character.MilestoneSharedSecret, Key: "b"},
		{Type: character.MilestoneSharedSecret, Key: "c"},
	}
	learning := character.DefaultMemory()
	for i := 0; i < mentorLearning; i++ {
		learning.LongTerm = append(learning.LongTerm, character.SignificantEvent{Type: character.EventLearningMoment})
	}

	tests := []struct {
		name string
		rel  character.Relationship
		mem  character.Memory
		want character.RelationshipType
	}{
		{"default", character.Relationship{Intimacy: 1, Trust: 1}, character.DefaultMemory(), character.RelationshipFriend},
		{"close", character.Relationship{Intimacy: 3, Trust: 3}, character.DefaultMemory(), character.RelationshipCloseFriend},
		{"best", character.Relationship{Intimacy: 6, Trust: 4}, character.DefaultMemory(), character.RelationshipBestFriend},
		{"romantic", character.Relationship{Intimacy: 8, Trust: 6.5}, character.DefaultMemory(), character.RelationshipRomanticInterest},
		{"partner", character.Relationship{Intimacy: 9.5, Trust: 9}, character.DefaultMemory(), character.RelationshipLifePartner},
		{"confidant", character.Relationship{Intimacy: 2, Trust: 9.2, Milestones: secrets}, character.DefaultMemory(), character.RelationshipConfidant},
		{"mentor", character.Relationship{Intimacy: 5, Trust: 7, TotalInteractions: 40}, learning, character.RelationshipMentor},
		{"mentor needs history", character.Relationship{Intimacy: 5, Trust: 7, TotalInteractions: 10}, learning, character.RelationshipBestFriend},
	}
	for _, tt := range tests {
		if got := DeriveType(tt.rel, tt.mem); got != tt.want {
			t.Errorf("%s: DeriveType = %s, want %s", tt.name, got, tt.want)
		}
	}
}

// ══════════════════════════════════════════════
// Property: bounds hold for arbitrary message mixes
// ══════════════════════════════════════════════

func TestBoundsHoldUnderRandomMixes(t *testing.T) {
	var pool []string
	for _, cat := range intimacyCategories {
		pool = append(pool, cat.keywords...)
	}
	for _, cat := range trustCategories {
		pool = append(pool, cat.keywords...)
	}
	pool = append(pool, detachmentWords...)
	pool = append(pool, distrustWords...)
	for _, r := range conflictRules {
		pool = append(pool, r.keywords...)
	}
	pool = append(pool, secretWords...)
	pool = append(pool, celebrationWords...)

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		c := newCompanion()
		c.Relationship.Intimacy = rng.Float64() * 10
		c.Relationship.Trust = rng.Float64() * 10
		tr := NewTracker(nil)
		now := afternoon
		for i := 0; i < 300; i++ {
			msg := ""
			for k := rng.Intn(6); k >= 0; k-- {
				msg += pool[rng.Intn(len(pool))] + " "
			}
			now = now.Add(time.Duration(rng.Intn(180)) * time.Minute)
			tr.Process(c, msg, character.InteractionContext{UserMood: []string{"", "sad", "caring", "happy"}[rng.Intn(4)]}, now)
			r := c.Relationship
			if r.Intimacy < 0 || r.Intimacy > 10 || r.Trust < 0 || r.Trust > 10 {
				t.Fatalf("trial %d step %d: out of range intimacy=%v trust=%v", trial, i, r.Intimacy, r.Trust)
			}
			if len(r.Conflicts) > character.ConflictCap || len(r.Milestones) > character.MilestoneCap {
				t.Fatalf("caps exceeded: conflicts=%d milestones=%d", len(r.Conflicts), len(r.Milestones))
			}
			if r.Type != DeriveType(r, c.Memory) {
				t.Fatalf("stored type %s diverges from derived", r.Type)
			}
		}
	}
}
