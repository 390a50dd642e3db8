package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rickgao/auction-watch/internal/api"
	"github.com/rickgao/auction-watch/internal/model"
)

const namespace = "auction_watch"

// Metrics holds the service collectors. It satisfies the poller and event
// bus observer interfaces and can subscribe to the bus itself.
type Metrics struct {
	cycles        *prometheus.CounterVec
	cycleDuration *prometheus.HistogramVec
	items         *prometheus.GaugeVec
	lastSuccess   *prometheus.GaugeVec
	events        *prometheus.CounterVec
	deliveries    *prometheus.CounterVec
	apiCalls      *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "poll_cycles_total",
				Help:      "Number of poll cycles by outcome",
			},
			[]string{"account", "poller", "result"},
		),
		cycleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "poll_cycle_duration_seconds",
				Help:      "Duration of poll cycles",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"account", "poller"},
		),
		items: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "poll_items",
				Help:      "Items returned by the last successful cycle",
			},
			[]string{"account", "poller"},
		),
		lastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "poll_last_success_timestamp_seconds",
				Help:      "Unix time of the last successful cycle",
			},
			[]string{"account", "poller"},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_total",
				Help:      "Domain events emitted",
			},
			[]string{"account", "kind"},
		),
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "event_deliveries_total",
				Help:      "Event deliveries per subscriber by outcome",
			},
			[]string{"subscriber", "result"},
		),
		apiCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_calls_total",
				Help:      "Marketplace API calls by surface and outcome",
			},
			[]string{"account", "surface", "result"},
		),
	}

	reg.MustRegister(
		m.cycles,
		m.cycleDuration,
		m.items,
		m.lastSuccess,
		m.events,
		m.deliveries,
		m.apiCalls,
	)
	return m
}

// NewRegistry returns a registry with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the gathered metrics.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveCycle records one poll cycle.
func (m *Metrics) ObserveCycle(account, kind string, d time.Duration, items, _ int, err error) {
	m.cycles.WithLabelValues(account, kind, result(err)).Inc()
	m.cycleDuration.WithLabelValues(account, kind).Observe(d.Seconds())
	if err != nil {
		return
	}
	m.items.WithLabelValues(account, kind).Set(float64(items))
	m.lastSuccess.WithLabelValues(account, kind).SetToCurrentTime()
}

// ObserveDelivery records one event delivery to a bus subscriber.
func (m *Metrics) ObserveDelivery(subscriber string, _ model.EventKind, err error) {
	m.deliveries.WithLabelValues(subscriber, result(err)).Inc()
}

// Handle counts an emitted event.
func (m *Metrics) Handle(_ context.Context, e model.Event) error {
	m.events.WithLabelValues(e.Account, string(e.Kind)).Inc()
	return nil
}

// APICallObserver returns a client hook that counts calls for account.
func (m *Metrics) APICallObserver(account string) api.CallObserver {
	return func(surface api.Surface, err error) {
		m.apiCalls.WithLabelValues(account, string(surface), result(err)).Inc()
	}
}

// Forget drops the per-poller series, e.g. after a search is deleted.
func (m *Metrics) Forget(account, kind string) {
	m.items.DeleteLabelValues(account, kind)
	m.lastSuccess.DeleteLabelValues(account, kind)
	m.cycleDuration.DeleteLabelValues(account, kind)
	for _, r := range []string{"ok", "error"} {
		m.cycles.DeleteLabelValues(account, kind, r)
	}
}
