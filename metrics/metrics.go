package metrics

import "github.com/prometheus/client_golang/prometheus"

type Observer interface {
	Observe(val float64, labels ...string)

	// for now we will tightly couple to the prometheus collector type
	prometheus.Collector
}

type Metrics struct {
	MessagesCount Observer
	CommandCount  Observer
	DeletedCount  Observer
	ReplyFailures Observer
	FetchLatency  Observer
}

func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.MessagesCount,
		m.CommandCount,
		m.DeletedCount,
		m.ReplyFailures,
		m.FetchLatency,
	}
}

// New creates the bot's metrics. They are not registered anywhere.
func New() *Metrics {
	return &Metrics{
		MessagesCount: NewPromCounter(
			prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: "selfbot",
					Subsystem: "dispatch",
					Name:      "messages",
					Help:      "Number of messages received from the gateway.",
				},
			),
		),
		CommandCount: NewPromCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "selfbot",
					Subsystem: "commands",
					Name:      "invocations",
					Help:      "Number of custom command invocations by kind.",
				},
				[]string{"kind"},
			),
		),
		DeletedCount: NewPromCounter(
			prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: "selfbot",
					Subsystem: "moderation",
					Name:      "deleted",
					Help:      "Number of messages for which deletion was requested.",
				},
			),
		),
		ReplyFailures: NewPromCounter(
			prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: "selfbot",
					Subsystem: "dispatch",
					Name:      "reply_failures",
					Help:      "Number of replies which failed to send.",
				},
			),
		),
		FetchLatency: NewPromObserverVec(
			prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 30},
					Namespace: "selfbot",
					Subsystem: "api",
					Name:      "fetch_latency",
					Help:      "How long external data fetches take in seconds",
				},
				[]string{"ok"},
			),
		),
	}
}
