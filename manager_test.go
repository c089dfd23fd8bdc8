package companion

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cyberFlowTech/zapry-companion-go/character"
	"github.com/cyberFlowTech/zapry-companion-go/events"
	"github.com/cyberFlowTech/zapry-companion-go/evolution"
)

var t0 = time.Date(2025, 9, 1, 15, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

type recorder struct {
	mu    sync.Mutex
	names []events.Name
}

func (r *recorder) handle(e events.Event) {
	r.mu.Lock()
	r.names = append(r.names, e.Name)
	r.mu.Unlock()
}

func (r *recorder) count(n events.Name) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := 0
	for _, x := range r.names {
		if x == n {
			k++
		}
	}
	return k
}

func newTestManager(t *testing.T) (*Manager, *fakeClock, *recorder) {
	t.Helper()
	clk := &fakeClock{now: t0}
	m := New(character.Identity{ID: "mina", Name: "Mina", UserID: "u1"}, Options{
		Clock: clk.Now,
		Rand:  fixedRand(0.99),
	})
	rec := &recorder{}
	m.Bus().SubscribeAll(rec.handle)
	return m, clk, rec
}

func process(t *testing.T, m *Manager, msg string) InteractionResult {
	t.Helper()
	res, err := m.ProcessInteraction(msg, character.InteractionContext{})
	if err != nil {
		t.Fatalf("ProcessInteraction(%q): %v", msg, err)
	}
	return res
}

// ══════════════════════════════════════════════
// Interaction fan-out
// ══════════════════════════════════════════════

func TestProcessInteractionFansOut(t *testing.T) {
	m, clk, rec := newTestManager(t)

	res := process(t, m, "축하해요! 성공했어요!")
	if res.Blocked || !res.Memory.Changed {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Relationship.Milestone == nil || res.Relationship.Milestone.Type != character.MilestoneCelebration {
		t.Fatalf("expected celebration milestone, got %+v", res.Relationship.Milestone)
	}
	if rec.count(events.MemoryUpdated) != 1 || rec.count(events.RelationshipChanged) != 1 {
		t.Fatalf("events = %v", rec.names)
	}

	clk.Advance(time.Minute)
	res = process(t, m, "축하해요! 성공했어요!")
	if res.Relationship.Milestone != nil {
		t.Fatal("celebration milestone repeated")
	}

	snap, err := m.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Relationship.CountMilestones(character.MilestoneCelebration) != 1 {
		t.Fatal("expected exactly one celebration milestone")
	}
	if !snap.UpdatedAt.Equal(t0.Add(time.Minute)) {
		t.Fatalf("updated_at = %v", snap.UpdatedAt)
	}
}

func TestEmptyMessageRejected(t *testing.T) {
	m, _, rec := newTestManager(t)
	if _, err := m.ProcessInteraction("   ", character.InteractionContext{}); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err = %v", err)
	}
	if len(rec.names) != 0 {
		t.Fatal("rejected message published events")
	}
}

func TestParentalLimitBlocks(t *testing.T) {
	m, clk, rec := newTestManager(t)
	err := m.UpdatePrivacy(character.PrivacySettings{
		Retention: character.RetentionLongTerm,
		Consent:   character.ConsentStandard,
		Parental:  &character.ParentalControls{Enabled: true, MaxDailyInteractions: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	process(t, m, "안녕")
	before := len(rec.names)

	clk.Advance(time.Minute)
	res := process(t, m, "또 안녕")
	if !res.Blocked || res.Reason != "daily interaction limit reached" {
		t.Fatalf("expected block, got %+v", res)
	}
	if len(rec.names) != before {
		t.Fatal("blocked interaction published events")
	}
	snap, _ := m.Snapshot()
	if len(snap.Memory.ShortTerm) != 1 || snap.Relationship.TotalInteractions != 1 {
		t.Fatal("blocked interaction mutated state")
	}

	clk.Advance(24 * time.Hour)
	if res := process(t, m, "다음 날"); res.Blocked {
		t.Fatal("limit should reset on a new day")
	}
}

func TestListenerPanicKeepsState(t *testing.T) {
	m, _, _ := newTestManager(t)
	m.Bus().Subscribe(events.MemoryUpdated, func(events.Event) { panic("boom") })
	process(t, m, "안녕")
	snap, _ := m.Snapshot()
	if len(snap.Memory.ShortTerm) != 1 {
		t.Fatal("state lost after listener panic")
	}
}

// ══════════════════════════════════════════════
// Personality adaptation / learning
// ══════════════════════════════════════════════

func TestGrowthGate(t *testing.T) {
	m, _, _ := newTestManager(t)
	a := character.Adaptation{GrowthRate: 0.3, Interactions: 10}
	if !m.shouldGrow(a) {
		t.Fatal("early interactions always grow")
	}
	a.Interactions = 11
	if m.shouldGrow(a) {
		t.Fatal("roll 0.99 should not pass growth rate 0.3")
	}
	m.rng = fixedRand(0.1)
	if !m.shouldGrow(a) {
		t.Fatal("roll 0.1 should pass growth rate 0.3")
	}
}

func TestPersonalitySnapshotsAndStage(t *testing.T) {
	m, clk, rec := newTestManager(t)
	for i := 0; i < 20; i++ {
		process(t, m, "안녕")
		clk.Advance(time.Minute)
	}
	snap, _ := m.Snapshot()
	a := snap.Personality.Adaptation
	if a.Interactions != 20 || len(a.History) != 2 {
		t.Fatalf("interactions=%d history=%d", a.Interactions, len(a.History))
	}
	if a.Stage != character.DevelopmentDeveloping {
		t.Fatalf("stage = %s", a.Stage)
	}
	if rec.count(events.PersonalityShifted) == 0 {
		t.Fatal("stage change should publish personalityShifted")
	}
}

func TestLearningNeedsEnhancedConsent(t *testing.T) {
	m, _, _ := newTestManager(t)
	process(t, m, "회사 일이 너무 많아")
	snap, _ := m.Snapshot()
	if snap.Learning.Behavior.PreferredHours[15] != 0 {
		t.Fatal("behavioural data stored under standard consent")
	}

	if err := m.UpdatePrivacy(character.PrivacySettings{Retention: character.RetentionLongTerm, Consent: character.ConsentEnhanced}); err != nil {
		t.Fatal(err)
	}
	process(t, m, "회사 일이 너무 많아")
	snap, _ = m.Snapshot()
	b := snap.Learning.Behavior
	if b.PreferredHours[15] != 1 || b.TopicWeights["work"] <= 0 {
		t.Fatalf("behaviour not learned: %+v", b)
	}
	if PreferredHour(snap.Learning) != 15 {
		t.Fatalf("preferred hour = %d", PreferredHour(snap.Learning))
	}
}

func TestUpdateLearningDecaysTopics(t *testing.T) {
	l := character.DefaultLearning()
	l.Behavior.TopicWeights["food"] = 0.0101
	updateLearning(&l, 3, []string{"work"}, t0)
	if _, ok := l.Behavior.TopicWeights["food"]; ok {
		t.Fatal("weight below floor should be dropped")
	}
	if w := l.Behavior.TopicWeights["work"]; w < 0.099 || w > 0.101 {
		t.Fatalf("work weight = %v", w)
	}
	if f := l.Behavior.InteractionFrequency; f < 0.299 || f > 0.301 {
		t.Fatalf("frequency = %v", f)
	}
}

// ══════════════════════════════════════════════
// Evolution passthrough
// ══════════════════════════════════════════════

func TestFirstLevelScenario(t *testing.T) {
	m, _, rec := newTestManager(t)
	if err := m.AddExperience(character.ExperienceConversation, 100); err != nil {
		t.Fatal(err)
	}
	p := m.Progress()
	if p.Level != 2 || p.Stage != character.StageDeveloping || p.SkillPoints != 1 {
		t.Fatalf("progress = %+v", p)
	}
	if rec.count(events.LevelUp) != 1 || rec.count(events.StageEvolution) != 1 {
		t.Fatalf("events = %v", rec.names)
	}
	if err := m.AddExperience(character.ExperienceConversation, -1); !errors.Is(err, evolution.ErrNegativeAmount) {
		t.Fatalf("err = %v", err)
	}
	if m.UnlockSkill(character.SkillWittyBanter) {
		t.Fatal("unmet prerequisite unlocked")
	}
	if m.Progress().SkillPoints != 1 {
		t.Fatal("failed unlock spent a point")
	}
}

// ══════════════════════════════════════════════
// Export / import / persistence
// ══════════════════════════════════════════════

func TestExportImportRoundTrip(t *testing.T) {
	m, clk, _ := newTestManager(t)
	for _, msg := range []string{"제 이름은 민수야", "나는 커피를 좋아해", "비밀인데 나 사실 외로워"} {
		process(t, m, msg)
		clk.Advance(time.Minute)
	}
	_ = m.AddExperience(character.ExperienceEmotional, 250)

	doc, err := m.ExportCharacter()
	if err != nil {
		t.Fatal(err)
	}
	other := New(character.Identity{ID: "other"}, Options{Clock: clk.Now})
	if err := other.ImportCharacter(doc); err != nil {
		t.Fatal(err)
	}
	again, _ := other.ExportCharacter()
	if string(again) != string(doc) {
		t.Fatal("round trip changed the document")
	}
	if other.ID() != "mina" {
		t.Fatalf("id = %s", other.ID())
	}
}

func TestImportRejectsMalformed(t *testing.T) {
	m, _, _ := newTestManager(t)
	process(t, m, "안녕")
	doc, _ := m.ExportCharacter()

	var raw map[string]any
	if err := json.Unmarshal(doc, &raw); err != nil {
		t.Fatal(err)
	}
	raw["relationship"].(map[string]any)["intimacy"] = 11.0
	outOfRange, _ := json.Marshal(raw)

	raw["relationship"].(map[string]any)["intimacy"] = 1.0
	raw["unexpected"] = true
	unknownField, _ := json.Marshal(raw)

	delete(raw, "unexpected")
	raw["evolution"].(map[string]any)["total_experience"] = 1e300
	hugeExperience, _ := json.Marshal(raw)

	target := New(character.Identity{ID: "target"}, Options{})
	before, _ := target.ExportCharacter()

	for name, bad := range map[string][]byte{
		"garbage":       []byte("{not json"),
		"out of range":  outOfRange,
		"unknown field": unknownField,
		"huge total":    hugeExperience,
		"trailing data": append(append([]byte{}, doc...), []byte(" {}")...),
	} {
		err := target.ImportCharacter(bad)
		if !errors.Is(err, ErrMalformedImport) {
			t.Errorf("%s: err = %v", name, err)
		}
	}
	after, _ := target.ExportCharacter()
	if string(before) != string(after) {
		t.Fatal("rejected import changed state")
	}
}

type mapStore struct{ docs map[string][]byte }

func (s *mapStore) Save(_ context.Context, id string, doc []byte) error {
	s.docs[id] = append([]byte{}, doc...)
	return nil
}

func (s *mapStore) Load(_ context.Context, id string) ([]byte, error) {
	doc, ok := s.docs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return doc, nil
}

func TestSaveAndLoad(t *testing.T) {
	m, _, _ := newTestManager(t)
	process(t, m, "나는 커피를 좋아해")
	st := &mapStore{docs: map[string][]byte{}}
	if err := m.SaveTo(context.Background(), st); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadFrom(context.Background(), st, "mina", Options{})
	if err != nil {
		t.Fatal(err)
	}
	snap, _ := loaded.Snapshot()
	if len(snap.Memory.Preferences) != 1 {
		t.Fatalf("preferences = %+v", snap.Memory.Preferences)
	}
	if _, err := LoadFrom(context.Background(), st, "missing", Options{}); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}

// ══════════════════════════════════════════════
// Privacy
// ══════════════════════════════════════════════

func TestDeleteAllUserDataScenario(t *testing.T) {
	m, clk, rec := newTestManager(t)
	for _, msg := range []string{"제 이름은 민수야", "비밀인데 나 사실 외로워", "그게 아니라 오해야"} {
		process(t, m, msg)
		clk.Advance(time.Minute)
	}
	m.DeleteAllUserData()

	snap, _ := m.Snapshot()
	mem := snap.Memory
	if len(mem.ShortTerm)+len(mem.LongTerm)+len(mem.Emotional)+len(mem.Preferences)+len(mem.Facts) != 0 {
		t.Fatalf("memory not cleared: %+v", mem)
	}
	r := snap.Relationship
	if len(r.Conflicts) != 0 || len(r.Milestones) != 0 || r.Intimacy != 1 || r.Trust != 1 {
		t.Fatalf("relationship not reset: %+v", r)
	}
	if snap.ID != "mina" || snap.Name != "Mina" {
		t.Fatal("identity must survive erase")
	}
	if rec.count(events.DataErased) != 1 {
		t.Fatal("data-erased not published")
	}
}

// ══════════════════════════════════════════════
// Metrics
// ══════════════════════════════════════════════

func TestMetricsFollowEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg, "test")
	clk := &fakeClock{now: t0}
	m := New(character.Identity{ID: "mina"}, Options{Clock: clk.Now, Rand: fixedRand(0.99), Metrics: metrics})
	metrics.Attach(m.Bus())

	process(t, m, "안녕")
	if got := testutil.ToFloat64(metrics.Interactions.WithLabelValues("processed")); got != 1 {
		t.Fatalf("processed = %v", got)
	}
	_ = m.AddExperience(character.ExperienceConversation, 100)
	if got := testutil.ToFloat64(metrics.Level.WithLabelValues("mina")); got != 2 {
		t.Fatalf("level gauge = %v", got)
	}
	if got := testutil.ToFloat64(metrics.Events.WithLabelValues(string(events.LevelUp))); got != 1 {
		t.Fatalf("level-up events = %v (attach should be idempotent)", got)
	}
}
