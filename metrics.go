package companion

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cyberFlowTech/zapry-companion-go/events"
)

// Metrics holds the Prometheus collectors for companion activity.
type Metrics struct {
	// Events counts every published event by name.
	Events *prometheus.CounterVec
	// Interactions counts ProcessInteraction calls by outcome
	// ("processed" or "blocked").
	Interactions *prometheus.CounterVec
	// Level is the current evolution level per companion.
	Level *prometheus.GaugeVec

	mu       sync.Mutex
	attached map[*events.Bus]events.Token
}

// NewMetrics registers the collectors with reg. A nil reg uses the default
// registerer.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Total number of companion events by name",
		}, []string{"event"}),
		Interactions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interactions_total",
			Help:      "Total number of processed interactions by outcome",
		}, []string{"outcome"}),
		Level: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "level",
			Help:      "Current evolution level by companion",
		}, []string{"companion_id"}),
		attached: make(map[*events.Bus]events.Token),
	}
}

// Attach subscribes the collectors to bus. Attaching the same bus twice is
// a no-op.
func (m *Metrics) Attach(bus *events.Bus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attached[bus]; ok {
		return
	}
	m.attached[bus] = bus.SubscribeAll(func(e events.Event) {
		m.Events.WithLabelValues(string(e.Name)).Inc()
		if p, ok := e.Payload.(events.LevelUpPayload); ok {
			m.ObserveLevel(e.CompanionID, p.NewLevel)
		}
	})
}

// Detach removes the subscription made by Attach.
func (m *Metrics) Detach(bus *events.Bus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tok, ok := m.attached[bus]; ok {
		bus.Unsubscribe(tok)
		delete(m.attached, bus)
	}
}

// ObserveLevel records a companion's level.
func (m *Metrics) ObserveLevel(companionID string, level int) {
	m.Level.WithLabelValues(companionID).Set(float64(level))
}
