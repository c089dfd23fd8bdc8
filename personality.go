package companion

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cyberFlowTech/zapry-companion-go/character"
)

// ──────────────────────────────────────────────
// Personality adaptation
// ──────────────────────────────────────────────

const (
	earlyGrowthInteractions = 10
	snapshotEvery           = 10
	// traitStep is scaled by the learning adaptation rate; the default rate
	// of 0.5 moves a trait by 0.01 per nudge.
	traitStep = 0.02
)

// emotionNudges maps the committed emotion to the traits it reinforces.
var emotionNudges = map[character.Emotion]map[character.Trait]float64{
	character.EmotionHappy:     {character.TraitCheerfulness: 1},
	character.EmotionExcited:   {character.TraitCheerfulness: 0.5, character.TraitPlayfulness: 0.5},
	character.EmotionCalm:      {character.TraitPatience: 0.5},
	character.EmotionCurious:   {character.TraitCuriosity: 1},
	character.EmotionCaring:    {character.TraitEmpathy: 1},
	character.EmotionLoving:    {character.TraitEmpathy: 0.5, character.TraitSensitivity: 0.5},
	character.EmotionSurprised: {character.TraitCuriosity: 0.5},
	character.EmotionAnxious:   {character.TraitSensitivity: 0.5},
	character.EmotionSad:       {character.TraitEmpathy: 0.5, character.TraitSensitivity: 0.5},
	character.EmotionAngry:     {character.TraitPatience: 1},
}

// topicNudges maps conversation topics to the traits they exercise.
var topicNudges = map[string]map[character.Trait]float64{
	"hobby":        {character.TraitPlayfulness: 0.5, character.TraitCreativity: 0.5},
	"study":        {character.TraitCuriosity: 0.5},
	"travel":       {character.TraitCuriosity: 0.5},
	"family":       {character.TraitEmpathy: 0.5},
	"relationship": {character.TraitEmpathy: 0.5},
	"work":         {character.TraitPatience: 0.5},
	"health":       {character.TraitSensitivity: 0.5},
	"food":         {character.TraitCheerfulness: 0.5},
}

// PersonalityResult reports the outcome of the adaptation step.
type PersonalityResult struct {
	Shifted bool                        `json:"shifted"`
	Grew    bool                        `json:"grew"`
	Deltas  map[character.Trait]float64 `json:"deltas,omitempty"`
	Stage   character.DevelopmentStage  `json:"stage"`
}

// shouldGrow always lets the first interactions through, then rolls against
// the growth rate.
func (m *Manager) shouldGrow(a character.Adaptation) bool {
	if a.Interactions <= earlyGrowthInteractions {
		return true
	}
	return m.rng.Float64() < a.GrowthRate
}

// adaptPersonality counts the interaction, nudges traits when the growth
// gate opens, snapshots periodically and re-derives the development stage.
func (m *Manager) adaptPersonality(c *character.Companion, emo character.Emotion, topics []string, now time.Time) PersonalityResult {
	a := &c.Personality.Adaptation
	a.Interactions++
	oldStage := a.Stage
	res := PersonalityResult{}

	if m.shouldGrow(*a) {
		res.Grew = true
		scale := traitStep * c.Learning.AdaptationRate
		deltas := map[character.Trait]float64{}
		nudge := func(weights map[character.Trait]float64) {
			for t, w := range weights {
				if d := c.Personality.Core.Add(t, w*scale); d != 0 {
					deltas[t] += d
				}
			}
		}
		nudge(emotionNudges[emo])
		for _, topic := range topics {
			nudge(topicNudges[topic])
		}
		if len(deltas) > 0 {
			res.Deltas = deltas
		}
	}

	if a.Interactions%snapshotEvery == 0 {
		a.History = character.KeepLast(append(a.History, character.PersonalitySnapshot{
			Traits:    c.Personality.Core,
			Stage:     a.Stage,
			Timestamp: now,
		}), character.PersonalityHistCap)
	}

	a.Stage = character.DevelopmentStageFor(a.Interactions)
	res.Stage = a.Stage
	res.Shifted = len(res.Deltas) > 0 || a.Stage != oldStage
	if res.Shifted {
		m.log.WithFields(logrus.Fields{
			"companion_id": c.ID,
			"stage":        a.Stage,
			"deltas":       len(res.Deltas),
		}).Debug("personality shifted")
	}
	return res
}
