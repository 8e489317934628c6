package metrics

import (
	"time"

	"vpn-subpage/internal/stories/subs"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "subpage"

// Metrics are the service's prometheus collectors.
type Metrics struct {
	pageRenders     *prometheus.CounterVec
	fetchFailures   prometheus.Counter
	importRedirects *prometheus.CounterVec
	fetchDuration   prometheus.Histogram
	subscriptions   *prometheus.GaugeVec
	activeUsers     prometheus.Gauge
	upstreamUp      *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		pageRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_renders_total",
			Help:      "Subscription pages rendered, by selected platform.",
		}, []string{"platform"}),
		fetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_fetch_failures_total",
			Help:      "Failed subscription API requests.",
		}),
		importRedirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_redirects_total",
			Help:      "Deep link import redirects, by provider.",
		}, []string{"provider"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_fetch_seconds",
			Help:      "Subscription API request latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		subscriptions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscriptions",
			Help:      "Stored subscriptions, by status.",
		}, []string{"status"}),
		activeUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_users",
			Help:      "Users with at least one active subscription.",
		}),
		upstreamUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "upstream_up",
			Help:      "Result of the last upstream health probe, 1 when healthy.",
		}, []string{"target"}),
	}

	for _, c := range []prometheus.Collector{m.pageRenders, m.fetchFailures, m.importRedirects, m.fetchDuration, m.subscriptions, m.activeUsers, m.upstreamUp} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) PageRendered(platform string) {
	m.pageRenders.WithLabelValues(platform).Inc()
}

// FetchObserved records one subscription API request.
func (m *Metrics) FetchObserved(d time.Duration, failed bool) {
	m.fetchDuration.Observe(d.Seconds())
	if failed {
		m.fetchFailures.Inc()
	}
}

func (m *Metrics) ImportRedirected(provider string) {
	m.importRedirects.WithLabelValues(provider).Inc()
}

// SubscriptionsCounted publishes a storage snapshot. Statuses missing from the
// snapshot are reported as zero.
func (m *Metrics) SubscriptionsCounted(stats subs.Statistics) {
	for _, status := range []subs.Status{subs.StatusPending, subs.StatusActive, subs.StatusExpired} {
		m.subscriptions.WithLabelValues(string(status)).Set(float64(stats.ByStatus[status]))
	}
	m.activeUsers.Set(float64(stats.ActiveUsers))
}

func (m *Metrics) UpstreamHealth(target string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.upstreamUp.WithLabelValues(target).Set(v)
}
