// Package emotion infers the companion's emotional response to a message,
// evaluates emotional triggers and maintains emotional history and stability.
package emotion

import (
	"io"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cyberFlowTech/zapry-companion-go/character"
	"github.com/cyberFlowTech/zapry-companion-go/internal/textutil"
	"github.com/cyberFlowTech/zapry-companion-go/privacy"
)

// Rand is the random source used for trigger activation rolls.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

const (
	intensityBase       = 0.5
	intensityMin        = 0.1
	triggerIntensity    = 0.8
	moodThreshold       = 0.6
	memoryThreshold     = 0.6
	significantImpact   = 0.4
	stabilityWindow     = 10
	stabilitySmoothing  = 0.8
	commitThresholdBase = 0.1
	commitStabilityGain = 0.2
)

// Result describes what one Process call did.
type Result struct {
	Changed    bool              `json:"changed"`
	Previous   character.Emotion `json:"previous"`
	Emotion    character.Emotion `json:"emotion"`
	Intensity  float64           `json:"intensity"`
	Trigger    string            `json:"trigger,omitempty"`
	Remembered bool              `json:"remembered"`
}

// Engine is the emotion subsystem. It holds no per-companion state.
type Engine struct {
	rng Rand
	log *logrus.Entry
}

// NewEngine creates an engine. A nil rng uses a time-seeded source, a nil
// log discards output.
func NewEngine(rng Rand, log *logrus.Entry) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Engine{rng: rng, log: log.WithField("component", "EmotionEngine")}
}

// Infer picks the emotion a message expresses. Keyword scores decide; ties
// keep current. With no keyword hit the perceived user mood is mapped
// through the complementary table, otherwise current is kept.
func Infer(text string, ctx character.InteractionContext, current character.Emotion) character.Emotion {
	scores := make(map[character.Emotion]int, len(patterns))
	best := 0
	for _, e := range character.Emotions {
		n := textutil.CountKeywords(text, patterns[e])
		scores[e] = n
		if n > best {
			best = n
		}
	}
	if best == 0 {
		if e, ok := ComplementaryEmotion(textutil.Normalize(ctx.UserMood)); ok {
			return e
		}
		return current
	}
	if scores[current] == best {
		return current
	}
	for _, e := range character.Emotions {
		if scores[e] == best {
			return e
		}
	}
	return current
}

// Intensity scores how strongly raw expresses e for a companion with traits t.
func Intensity(raw string, e character.Emotion, t character.CoreTraits) float64 {
	v := intensityBase

	switch n := textutil.RuneLen(raw); {
	case n > 100:
		v += 0.2
	case n > 50:
		v += 0.1
	case n > 20:
		v += 0.05
	}
	v += math.Min(float64(textutil.CountRunes(raw, '!', '！'))*0.05, 0.2)
	v += math.Min(textutil.EmphasisRatio(raw)*0.3, 0.15)
	v += math.Min(float64(textutil.CountEmoji(raw))*0.05, 0.15)

	v *= personalityModifier(e, t)
	return character.Clamp(v, intensityMin, 1)
}

// Process runs one message through the engine and mutates c in place.
func (en *Engine) Process(c *character.Companion, message string, ctx character.InteractionContext, now time.Time) Result {
	st := &c.Emotional
	text := textutil.Normalize(message)
	res := Result{Previous: st.Current}

	emo := Infer(text, ctx, st.Current)
	intensity := Intensity(message, emo, c.Personality.Core)

	if t := en.evaluateTriggers(st, text, ctx, now); t != nil {
		emo = t.Response
		intensity = triggerIntensity
		res.Trigger = t.ID
	}
	res.Emotion = emo
	res.Intensity = intensity

	threshold := commitThresholdBase + st.Stability*commitStabilityGain
	if emo != st.Current || math.Abs(intensity-st.Intensity) > threshold {
		en.commit(c, emo, intensity, res.Trigger, message, now)
		res.Changed = true
	}

	if intensity >= memoryThreshold && privacy.CanStoreData(c.Privacy, privacy.KindEmotional) {
		c.Memory.AddEmotionalMemory(character.EmotionalMemory{
			ID:        uuid.NewString(),
			Emotion:   emo,
			Intensity: intensity,
			Trigger:   triggerLabel(res.Trigger, message),
			Context:   ctx.Topic,
			Timestamp: now,
			Impact:    character.Clamp01(intensity * (0.5 + math.Abs(Valence(emo))*0.5)),
		})
		res.Remembered = true
	}

	st.Stability = nextStability(st.Stability, st.History)

	en.log.WithFields(logrus.Fields{
		"companion_id": c.ID,
		"emotion":      emo,
		"intensity":    intensity,
		"changed":      res.Changed,
		"trigger":      res.Trigger,
	}).Debug("emotion processed")
	return res
}

// evaluateTriggers rolls every eligible trigger. Each activation stamps
// LastActivated; the last one activated wins.
func (en *Engine) evaluateTriggers(st *character.EmotionalState, text string, ctx character.InteractionContext, now time.Time) *character.EmotionalTrigger {
	var fired *character.EmotionalTrigger
	setting := ctx.Setting
	if setting == "" {
		setting = string(character.TimeOfDayAt(now))
	}
	sentiment := textutil.Sentiment(text)

	for i := range st.Triggers {
		t := &st.Triggers[i]
		if !t.LastActivated.IsZero() && now.Sub(t.LastActivated) < t.Cooldown {
			continue
		}
		if !matches(t, text, ctx.Topic, setting, sentiment) {
			continue
		}
		if en.rng.Float64() >= t.Probability {
			continue
		}
		t.LastActivated = now
		fired = t
	}
	return fired
}

func matches(t *character.EmotionalTrigger, text, topic, setting string, sentiment float64) bool {
	switch t.Kind {
	case character.TriggerKeyword:
		return textutil.ContainsAny(text, t.Keywords)
	case character.TriggerContext:
		if t.Topic == "" && t.Setting == "" {
			return false
		}
		if t.Topic != "" && !strings.EqualFold(t.Topic, topic) {
			return false
		}
		if t.Setting != "" && !strings.EqualFold(t.Setting, setting) {
			return false
		}
		return true
	case character.TriggerSentiment:
		switch {
		case t.Threshold < 0:
			return sentiment <= t.Threshold
		case t.Threshold > 0:
			return sentiment >= t.Threshold
		}
	}
	return false
}

func (en *Engine) commit(c *character.Companion, emo character.Emotion, intensity float64, trigger, message string, now time.Time) {
	st := &c.Emotional
	st.History = append(st.History, character.EmotionMemory{
		Emotion:   st.Current,
		Intensity: st.Intensity,
		Timestamp: now,
		Trigger:   triggerLabel(trigger, message),
		Impact:    math.Abs(Valence(st.Current) - Valence(emo)),
	})
	st.History = character.KeepLast(st.History, character.EmotionHistoryCap)
	st.Current = emo
	st.Intensity = intensity

	if intensity > moodThreshold {
		c.Personality.Current = character.CurrentMood{
			Dominant:    emo,
			Intensity:   intensity,
			Duration:    moodDuration(emo, st.Stability),
			Trigger:     triggerLabel(trigger, message),
			TimeContext: character.TimeOfDayAt(now),
			Since:       now,
		}
	}
}

// moodDuration scales the emotion's base duration inversely with stability:
// volatile characters hold a mood longer, stable ones settle sooner.
func moodDuration(e character.Emotion, stability float64) time.Duration {
	base, ok := baseDuration[e]
	if !ok {
		base = 30 * time.Minute
	}
	return time.Duration(float64(base) * (1.5 - stability))
}

// nextStability smooths the share of calm transitions among the most
// recent history entries into the previous stability.
func nextStability(prev float64, history []character.EmotionMemory) float64 {
	recent := history
	if len(recent) > stabilityWindow {
		recent = recent[len(recent)-stabilityWindow:]
	}
	significant := 0
	for _, h := range recent {
		if h.Impact > significantImpact {
			significant++
		}
	}
	target := 1.0
	if len(recent) > 0 {
		target = 1 - float64(significant)/float64(len(recent))
	}
	return character.Clamp01(stabilitySmoothing*prev + (1-stabilitySmoothing)*target)
}

func triggerLabel(trigger, message string) string {
	if trigger != "" {
		return trigger
	}
	return textutil.Excerpt(message, 80)
}
