// Package memory turns conversation turns into short-term, long-term,
// preference and fact memories on the companion aggregate.
package memory

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cyberFlowTech/zapry-companion-go/character"
	"github.com/cyberFlowTech/zapry-companion-go/internal/textutil"
	"github.com/cyberFlowTech/zapry-companion-go/privacy"
)

const (
	significanceBase      = 0.3
	longTermThreshold     = 0.7
	consolidateThreshold  = 0.6
	newPreferenceConf     = 0.6
	newPreferenceImp      = 0.5
	newFactConf           = 0.7
	newFactImp            = 0.7
	nameFactConf          = 0.9
	confirmationIncrement = 0.1
	maxRelationshipChange = 0.1
)

// Result describes what one Process call stored.
type Result struct {
	Changed     bool                         `json:"changed"`
	Turn        *character.ConversationTurn  `json:"turn,omitempty"`
	Events      []character.SignificantEvent `json:"events,omitempty"`
	Preferences int                          `json:"preferences"`
	Facts       int                          `json:"facts"`
}

// Manager is the memory subsystem. It holds no per-companion state.
type Manager struct {
	log *logrus.Entry
}

// NewManager creates a memory manager. A nil log discards output.
func NewManager(log *logrus.Entry) *Manager {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Manager{log: log.WithField("component", "MemoryManager")}
}

// Significance scores how memorable a message is, in [0,1].
func Significance(raw string) float64 {
	text := textutil.Normalize(raw)
	v := significanceBase
	switch n := textutil.RuneLen(raw); {
	case n > 100:
		v += 0.2
	case n > 50:
		v += 0.1
	}
	v += math.Min(float64(textutil.CountKeywords(text, emotionalWords))*0.1, 0.2)
	v += math.Min(float64(textutil.CountKeywords(text, personalWords))*0.15, 0.3)
	v += math.Min(float64(textutil.CountRunes(raw, '?', '？'))*0.05, 0.1)
	return character.Clamp01(v)
}

// Topics returns the topics a normalized message touches, "general" if none.
// A non-empty context topic is always included first.
func Topics(text, contextTopic string) []string {
	var out []string
	seen := map[string]bool{}
	if t := textutil.Normalize(contextTopic); t != "" {
		out = append(out, t)
		seen[t] = true
	}
	for _, topic := range topicOrder {
		if !seen[topic] && textutil.ContainsAny(text, topicKeywords[topic]) {
			out = append(out, topic)
			seen[topic] = true
		}
	}
	if len(out) == 0 {
		out = []string{"general"}
	}
	return out
}

// Process records message as a conversation turn and derives every other
// memory kind from it. Kinds the privacy policy forbids are skipped.
func (m *Manager) Process(c *character.Companion, message string, ctx character.InteractionContext, now time.Time) Result {
	var res Result
	if !privacy.CanStoreData(c.Privacy, privacy.KindConversation) {
		return res
	}
	mem := &c.Memory
	text := textutil.Normalize(message)

	turn := character.ConversationTurn{
		ID:           uuid.NewString(),
		Message:      message,
		Timestamp:    now,
		Significance: Significance(message),
		Topics:       Topics(text, ctx.Topic),
		Sentiment:    textutil.Sentiment(text),
	}
	mem.ShortTerm = character.KeepLast(append(mem.ShortTerm, turn), character.ShortTermCap)
	mem.TurnCount++
	res.Turn = &turn
	res.Changed = true

	if privacy.CanStoreData(c.Privacy, privacy.KindPreferences) {
		res.Preferences = m.learnPreferences(mem, text, now)
	}
	if privacy.CanStoreData(c.Privacy, privacy.KindPersonal) {
		res.Facts = m.learnFacts(mem, text, now)
	}

	if turn.Significance >= longTermThreshold {
		ev := character.SignificantEvent{
			ID:                 uuid.NewString(),
			Type:               classifyEvent(text),
			Description:        textutil.Excerpt(message, 120),
			Timestamp:          now,
			Impact:             turn.Significance,
			RelationshipChange: character.Clamp(turn.Sentiment*0.05+turn.Significance*0.05, -maxRelationshipChange, maxRelationshipChange),
			Topics:             turn.Topics,
			SourceTurnID:       turn.ID,
		}
		mem.AddLongTerm(ev)
		res.Events = append(res.Events, ev)
	}

	if mem.TurnCount%character.ConsolidateInterval == 0 {
		res.Events = append(res.Events, m.consolidate(mem, now)...)
	}

	m.log.WithFields(logrus.Fields{
		"companion_id": c.ID,
		"significance": turn.Significance,
		"topics":       strings.Join(turn.Topics, ","),
		"events":       len(res.Events),
	}).Debug("turn remembered")
	return res
}

func classifyEvent(text string) character.EventType {
	for _, step := range eventCascade {
		if textutil.ContainsAny(text, step.keywords) {
			return step.typ
		}
	}
	return character.EventLearningMoment
}

// consolidate promotes significant short-term turns into shared-experience
// events. Turns already promoted are skipped; short-term is not touched.
func (m *Manager) consolidate(mem *character.Memory, now time.Time) []character.SignificantEvent {
	promoted := map[string]bool{}
	for _, e := range mem.LongTerm {
		if e.Type == character.EventSharedExperience {
			promoted[e.SourceTurnID] = true
		}
	}
	var out []character.SignificantEvent
	for _, t := range mem.ShortTerm {
		if t.Significance < consolidateThreshold || promoted[t.ID] {
			continue
		}
		ev := character.SignificantEvent{
			ID:                 uuid.NewString(),
			Type:               character.EventSharedExperience,
			Description:        textutil.Excerpt(t.Message, 120),
			Timestamp:          now,
			Impact:             character.Clamp01(t.Significance * 0.8),
			RelationshipChange: character.Clamp(t.Sentiment*0.03, -maxRelationshipChange, maxRelationshipChange),
			Topics:             t.Topics,
			SourceTurnID:       t.ID,
		}
		mem.AddLongTerm(ev)
		out = append(out, ev)
	}
	if len(out) > 0 {
		m.log.WithField("promoted", len(out)).Debug("short-term consolidated")
	}
	return out
}

// learnPreferences returns how many preferences were created or confirmed.
func (m *Manager) learnPreferences(mem *character.Memory, text string, now time.Time) int {
	n := 0
	for _, ex := range preferencePatterns {
		for _, match := range ex.re.FindAllStringSubmatch(text, -1) {
			value := strings.TrimSpace(match[ex.value])
			if value == "" || ignoredValues[value] {
				continue
			}
			category := ex.category
			if ex.suffix > 0 {
				category += "_" + strings.TrimSpace(match[ex.suffix])
			}
			mem.Preferences = upsertPreference(mem.Preferences, category, value, now)
			n++
		}
	}
	mem.Preferences = character.PruneLowest(mem.Preferences, character.PreferenceCap,
		func(p character.Preference) float64 { return p.Importance * p.Confidence })
	return n
}

func upsertPreference(prefs []character.Preference, category, value string, now time.Time) []character.Preference {
	for i := range prefs {
		if prefs[i].Category == category && prefs[i].Value == value {
			prefs[i].Confidence = math.Min(prefs[i].Confidence+confirmationIncrement, 1)
			prefs[i].LastConfirmed = now
			return prefs
		}
	}
	return append(prefs, character.Preference{
		ID:            uuid.NewString(),
		Category:      category,
		Value:         value,
		Confidence:    newPreferenceConf,
		Importance:    newPreferenceImp,
		LearnedAt:     now,
		LastConfirmed: now,
	})
}

// learnFacts returns how many facts were created or confirmed.
func (m *Manager) learnFacts(mem *character.Memory, text string, now time.Time) int {
	n := 0
	for _, ex := range factPatterns {
		match := ex.re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		value := strings.TrimSpace(match[ex.value])
		if value == "" || ignoredValues[value] {
			continue
		}
		mem.Facts = upsertFact(mem.Facts, ex.category, value, now)
		n++
	}
	mem.Facts = character.PruneLowest(mem.Facts, character.FactCap,
		func(f character.Fact) float64 { return f.Importance * f.Confidence })
	return n
}

func upsertFact(facts []character.Fact, category, content string, now time.Time) []character.Fact {
	for i := range facts {
		if facts[i].Category == category && facts[i].Content == content {
			facts[i].Confidence = math.Min(facts[i].Confidence+confirmationIncrement, 1)
			facts[i].LastReferenced = now
			return facts
		}
	}
	conf := newFactConf
	if category == "name" {
		conf = nameFactConf
	}
	return append(facts, character.Fact{
		ID:             uuid.NewString(),
		Category:       category,
		Content:        content,
		Confidence:     conf,
		Importance:     newFactImp,
		LearnedAt:      now,
		LastReferenced: now,
	})
}
