package observability

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"defind/core/events"
	"defind/core/types"
)

type eventMetrics struct {
	emitted *prometheus.CounterVec
}

var (
	eventMetricsOnce sync.Once
	eventRegistry    *eventMetrics
)

// Events returns the metrics registry tracking structured service events.
func Events() *eventMetrics {
	eventMetricsOnce.Do(func() {
		eventRegistry = &eventMetrics{
			emitted: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "defind",
				Subsystem: "events",
				Name:      "emitted_total",
				Help:      "Count of emitted service events segmented by type.",
			}, []string{"type"}),
		}
		prometheus.MustRegister(eventRegistry.emitted)
	})
	return eventRegistry
}

// Record increments the event counter for the supplied event type.
func (m *eventMetrics) Record(eventType string) {
	if m == nil {
		return
	}
	normalized := strings.TrimSpace(eventType)
	if normalized == "" {
		normalized = "unknown"
	}
	m.emitted.WithLabelValues(normalized).Inc()
}

// EventEmitter logs every emitted event and feeds the event metrics, so
// deposits, withdrawals, stake changes and registry updates all leave an
// operational trace.
type EventEmitter struct {
	logger  *slog.Logger
	metrics *eventMetrics
}

// NewEventEmitter builds an emitter over the given logger. Metrics are only
// registered when enabled.
func NewEventEmitter(logger *slog.Logger, metricsEnabled bool) *EventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	emitter := &EventEmitter{logger: logger}
	if metricsEnabled {
		emitter.metrics = Events()
	}
	return emitter
}

// Emit implements events.Emitter.
func (e *EventEmitter) Emit(evt events.Event) {
	if e == nil || evt == nil {
		return
	}
	eventType := evt.EventType()
	e.metrics.Record(eventType)

	attrs := []any{slog.String("type", eventType)}
	if payload, ok := evt.(interface{ Event() *types.Event }); ok {
		if event := payload.Event(); event != nil {
			keys := make([]string, 0, len(event.Attributes))
			for key := range event.Attributes {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				attrs = append(attrs, slog.String(key, event.Attributes[key]))
			}
		}
	}
	e.logger.Info("Event emitted", attrs...)
}
