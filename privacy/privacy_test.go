package privacy

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cyberFlowTech/zapry-companion-go/character"
)

var testNow = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

func counterTokens() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("anon_%d", n)
	}
}

// ══════════════════════════════════════════════
// Consent
// ══════════════════════════════════════════════

func TestCanStoreData(t *testing.T) {
	tests := []struct {
		consent   character.ConsentLevel
		retention character.RetentionPolicy
		kind      DataKind
		want      bool
	}{
		{character.ConsentMinimal, character.RetentionLongTerm, KindConversation, true},
		{character.ConsentMinimal, character.RetentionLongTerm, KindPreferences, false},
		{character.ConsentStandard, character.RetentionLongTerm, KindEmotional, true},
		{character.ConsentStandard, character.RetentionLongTerm, KindBehavioral, false},
		{character.ConsentEnhanced, character.RetentionLongTerm, KindBehavioral, true},
		{character.ConsentEnhanced, character.RetentionLongTerm, KindAnalytics, false},
		{character.ConsentResearch, character.RetentionLongTerm, KindAnalytics, true},
		{character.ConsentResearch, character.RetentionSessionOnly, KindPersonal, false},
		{character.ConsentResearch, character.RetentionSessionOnly, KindConversation, true},
		{character.ConsentResearch, character.RetentionLongTerm, DataKind("biometric"), false},
	}
	for _, tt := range tests {
		s := character.PrivacySettings{Consent: tt.consent, Retention: tt.retention}
		if got := CanStoreData(s, tt.kind); got != tt.want {
			t.Errorf("CanStoreData(%s/%s, %s) = %v, want %v", tt.consent, tt.retention, tt.kind, got, tt.want)
		}
	}
}

// ══════════════════════════════════════════════
// Anonymization
// ══════════════════════════════════════════════

func TestAnonymizerText(t *testing.T) {
	a := NewAnonymizer(counterTokens())
	in := "연락처는 010-1234-5678 이고 메일은 minsu@example.com 이야. 제 이름은 민수. I live at 42 Baker Street."
	out := a.Text(in)
	if ContainsPersonalData(out) {
		t.Fatalf("phone/email survived: %q", out)
	}
	for _, want := range []string{"[PHONE]", "[EMAIL]", "제 이름은 [NAME]", "[ADDRESS]"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
	if strings.Contains(out, "민수") {
		t.Errorf("name survived: %q", out)
	}

	kr := a.Text("서울시 강남구 테헤란로 123 에 살아")
	if !strings.HasPrefix(kr, "[ADDRESS]") {
		t.Errorf("korean address not replaced: %q", kr)
	}
}

func TestAnonymizerTokensStable(t *testing.T) {
	a := NewAnonymizer(counterTokens())
	if a.Token("u1") != a.Token("u1") {
		t.Fatal("same id should map to same token")
	}
	if a.Token("u1") == a.Token("u2") {
		t.Fatal("different ids should map to different tokens")
	}
	if a.Token("") != "" {
		t.Fatal("empty id should stay empty")
	}
}

func populated() *character.Companion {
	c := character.New(character.Identity{ID: "c1", Name: "Mina", UserID: "user-42", UserName: "민수"}, testNow)
	c.Memory.ShortTerm = append(c.Memory.ShortTerm, character.ConversationTurn{
		ID: "t1", Message: "내 번호는 010-9876-5432, 메일 a.b@test.io", Timestamp: testNow,
	})
	c.Memory.Facts = append(c.Memory.Facts, character.Fact{ID: "f1", Category: "name", Content: "민수", LearnedAt: testNow, Confidence: 0.9})
	c.Memory.LongTerm = append(c.Memory.LongTerm, character.SignificantEvent{
		ID: "e1", Type: character.EventSupportGiven, Description: "call me at +82 10-1111-2222", Timestamp: testNow, Impact: 0.8,
	})
	c.Relationship.Milestones = append(c.Relationship.Milestones, character.Milestone{ID: "m1", Type: character.MilestoneCelebration, Message: "party", Timestamp: testNow})
	c.Emotional.History = append(c.Emotional.History, character.EmotionMemory{Emotion: character.EmotionNeutral, Timestamp: testNow})
	return c
}

func TestExportUserDataAnonymized(t *testing.T) {
	c := populated()
	c.Privacy.Anonymize = true
	var entries []AuditEntry
	m := NewManager(AuditFunc(func(e AuditEntry) { entries = append(entries, e) }), counterTokens(), nil)

	d, err := m.ExportUserData(c, testNow)
	if err != nil {
		t.Fatalf("ExportUserData: %v", err)
	}
	if !d.Anonymized {
		t.Fatal("expected anonymized export")
	}
	if d.UserID == "user-42" || d.UserID == "" {
		t.Errorf("user id not tokenized: %q", d.UserID)
	}
	if d.Memory.Facts[0].Content == "민수" {
		t.Error("name fact not tokenized")
	}
	for _, s := range []string{d.Memory.ShortTerm[0].Message, d.Memory.LongTerm[0].Description} {
		if ContainsPersonalData(s) {
			t.Errorf("personal data survived: %q", s)
		}
	}
	// the live aggregate is untouched
	if c.UserID != "user-42" || !strings.Contains(c.Memory.ShortTerm[0].Message, "010-9876-5432") {
		t.Error("export mutated the companion")
	}
	if len(entries) != 1 || entries[0].Action != AuditExport {
		t.Fatalf("expected one export audit entry, got %+v", entries)
	}
}

func TestExportUserDataPlain(t *testing.T) {
	c := populated()
	d, err := NewManager(nil, nil, nil).ExportUserData(c, testNow)
	if err != nil {
		t.Fatalf("ExportUserData: %v", err)
	}
	if d.Anonymized || d.UserID != "user-42" {
		t.Fatalf("export should be verbatim, got %+v", d)
	}
	if d.Memory.ShortTerm[0].Message != c.Memory.ShortTerm[0].Message {
		t.Errorf("text modified without anonymization: %q", d.Memory.ShortTerm[0].Message)
	}
}

// ══════════════════════════════════════════════
// Retention
// ══════════════════════════════════════════════

func TestCleanExpiredData(t *testing.T) {
	old := testNow.Add(-10 * 24 * time.Hour)
	build := func(p character.RetentionPolicy) *character.Companion {
		c := character.New(character.Identity{ID: "c"}, testNow)
		c.Privacy.Retention = p
		c.Memory.ShortTerm = []character.ConversationTurn{{ID: "old", Timestamp: old}, {ID: "new", Timestamp: testNow}}
		c.Memory.Emotional = []character.EmotionalMemory{{ID: "old", Timestamp: old}}
		c.Memory.LongTerm = []character.SignificantEvent{{ID: "old", Timestamp: old}}
		return c
	}

	c := build(character.RetentionShortTerm)
	rep := CleanExpiredData(c, testNow)
	if rep.ShortTerm != 1 || rep.Emotional != 1 || rep.LongTerm != 1 {
		t.Fatalf("short_term report = %+v", rep)
	}
	if len(c.Memory.ShortTerm) != 1 || c.Memory.ShortTerm[0].ID != "new" {
		t.Fatalf("wrong survivors: %+v", c.Memory.ShortTerm)
	}

	c = build(character.RetentionMediumTerm)
	rep = CleanExpiredData(c, testNow)
	if rep.Removed() != 0 {
		t.Fatalf("medium_term should keep 10-day-old data, got %+v", rep)
	}

	c = build(character.RetentionSessionOnly)
	rep = CleanExpiredData(c, testNow)
	if rep.ShortTerm != 1 || rep.LongTerm != 0 {
		t.Fatalf("session_only report = %+v", rep)
	}

	c = build(character.RetentionPermanent)
	if rep := CleanExpiredData(c, testNow); rep.Removed() != 0 || !rep.Cutoff.IsZero() {
		t.Fatalf("permanent should be a no-op, got %+v", rep)
	}
}

func TestUpdateSettingsNarrowingSweeps(t *testing.T) {
	c := character.New(character.Identity{ID: "c"}, testNow)
	c.Memory.ShortTerm = []character.ConversationTurn{{ID: "old", Timestamp: testNow.Add(-30 * 24 * time.Hour)}}
	var actions []AuditAction
	m := NewManager(AuditFunc(func(e AuditEntry) { actions = append(actions, e.Action) }), nil, nil)

	err := m.UpdateSettings(c, character.PrivacySettings{Retention: character.RetentionShortTerm, Consent: character.ConsentMinimal}, testNow)
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if len(c.Memory.ShortTerm) != 0 {
		t.Fatal("narrowing retention should sweep old turns")
	}
	if len(actions) != 2 || actions[0] != AuditConsentChange || actions[1] != AuditCleanup {
		t.Fatalf("audit actions = %v", actions)
	}

	err = m.UpdateSettings(c, character.PrivacySettings{Retention: "forever", Consent: character.ConsentMinimal}, testNow)
	if !errors.Is(err, character.ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}
	if c.Privacy.Retention != character.RetentionShortTerm {
		t.Fatal("invalid settings must not be applied")
	}
}

// ══════════════════════════════════════════════
// Erasure
// ══════════════════════════════════════════════

func TestDeleteAllUserData(t *testing.T) {
	c := populated()
	c.Relationship.Intimacy = 6.5
	c.Relationship.Trust = 7.2
	c.Relationship.TotalInteractions = 40
	c.Relationship.Conflicts = append(c.Relationship.Conflicts, character.Conflict{ID: "x"})
	c.Relationship.MarkAchieved(string(character.MilestoneCelebration))
	c.Personality.Adaptation.History = append(c.Personality.Adaptation.History, character.PersonalitySnapshot{})
	c.Learning.Behavior.TopicWeights["music"] = 0.4
	c.Evolution.Level = 3

	NewManager(nil, nil, nil).DeleteAllUserData(c, testNow)

	if c.ID != "c1" || c.UserID != "user-42" || c.Name != "Mina" {
		t.Fatalf("identity changed: %+v", c.Identity)
	}
	m := c.Memory
	if len(m.ShortTerm)+len(m.LongTerm)+len(m.Emotional)+len(m.Preferences)+len(m.Facts) != 0 {
		t.Fatalf("memory not empty: %+v", m)
	}
	r := c.Relationship
	if r.Intimacy != 1 || r.Trust != 1 || len(r.Conflicts) != 0 || len(r.Milestones) != 0 || len(r.Achieved) != 0 || r.TotalInteractions != 0 {
		t.Fatalf("relationship not reset: %+v", r)
	}
	if len(c.Emotional.History) != 0 || len(c.Personality.Adaptation.History) != 0 {
		t.Fatal("histories not cleared")
	}
	if len(c.Learning.Behavior.TopicWeights) != 0 {
		t.Fatal("learning not reset")
	}
	if c.Evolution.Level != 3 {
		t.Fatal("evolution should survive erasure")
	}
}

// ══════════════════════════════════════════════
// Parental controls
// ══════════════════════════════════════════════

func TestCanInteract(t *testing.T) {
	s := character.DefaultPrivacy()
	rel := character.DefaultRelationship(testNow)
	if ok, _ := CanInteract(s, rel, "hi", "", testNow); !ok {
		t.Fatal("no parental policy should allow")
	}

	s.Parental = &character.ParentalControls{
		Enabled:              true,
		AllowedStartHour:     9,
		AllowedEndHour:       21,
		MaxDailyInteractions: 3,
		RestrictedTopics:     []string{"gambling", "도박"},
	}
	if ok, reason := CanInteract(s, rel, "hi", "", testNow); !ok {
		t.Fatalf("15:00 should be allowed, got %q", reason)
	}
	late := time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC)
	if ok, _ := CanInteract(s, rel, "hi", "", late); ok {
		t.Fatal("23:00 should be blocked")
	}
	if ok, _ := CanInteract(s, rel, "도박 얘기 해줘", "", testNow); ok {
		t.Fatal("restricted topic in message should be blocked")
	}
	if ok, _ := CanInteract(s, rel, "hi", "Gambling", testNow); ok {
		t.Fatal("restricted topic should be blocked")
	}

	rel.DailyInteractions = 3
	rel.LastInteraction = testNow.Add(-time.Hour)
	if ok, _ := CanInteract(s, rel, "hi", "", testNow); ok {
		t.Fatal("daily limit should block")
	}
	rel.LastInteraction = testNow.Add(-24 * time.Hour)
	if ok, _ := CanInteract(s, rel, "hi", "", testNow); !ok {
		t.Fatal("yesterday's count should not block today")
	}
}

func TestHourAllowedWraps(t *testing.T) {
	if !hourAllowed(22, 6, 23) || !hourAllowed(22, 6, 2) || hourAllowed(22, 6, 12) {
		t.Fatal("wrapping window evaluated wrong")
	}
	if !hourAllowed(0, 0, 13) {
		t.Fatal("equal bounds allow all hours")
	}
}
