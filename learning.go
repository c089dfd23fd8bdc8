package companion

import (
	"time"

	"github.com/cyberFlowTech/zapry-companion-go/character"
)

const (
	frequencySmoothing = 0.9
	topicReinforce     = 0.1
	topicDecay         = 0.98
	topicFloor         = 0.01
)

// updateLearning folds one interaction into the behaviour model: a smoothed
// interactions-per-day figure, the hour histogram and decaying topic weights.
func updateLearning(l *character.Learning, daily int, topics []string, now time.Time) {
	b := &l.Behavior
	b.InteractionFrequency = frequencySmoothing*b.InteractionFrequency + (1-frequencySmoothing)*float64(daily)
	b.PreferredHours[now.Hour()]++

	if b.TopicWeights == nil {
		b.TopicWeights = map[string]float64{}
	}
	hit := make(map[string]bool, len(topics))
	for _, t := range topics {
		hit[t] = true
	}
	for t, w := range b.TopicWeights {
		if hit[t] {
			continue
		}
		if w *= topicDecay; w < topicFloor {
			delete(b.TopicWeights, t)
			continue
		}
		b.TopicWeights[t] = w
	}
	for t := range hit {
		w := b.TopicWeights[t]
		b.TopicWeights[t] = w + (1-w)*topicReinforce
	}
}

// PreferredHour returns the hour of day the user talks most, or -1 when
// nothing has been learned yet.
func PreferredHour(l character.Learning) int {
	best, n := -1, 0
	for h, c := range l.Behavior.PreferredHours {
		if c > n {
			best, n = h, c
		}
	}
	return best
}
