package metrics

import "github.com/prometheus/client_golang/prometheus"

// Domain Prometheus metrics.
var (
	ExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hitreport",
			Name:      "exports_total",
			Help:      "Total number of FASTA and alignment exports",
		},
		[]string{"format", "status"},
	)

	RenderMemoTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hitreport",
			Name:      "render_memo_total",
			Help:      "Hit view memo hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SequenceCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hitreport",
			Name:      "sequence_cache_total",
			Help:      "Sequence cache hits and misses",
		},
		[]string{"result"},
	)

	BlastdbcmdRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hitreport",
			Name:      "blastdbcmd_requests_total",
			Help:      "Total number of blastdbcmd invocations",
		},
		[]string{"status"},
	)

	BlastdbcmdDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "hitreport",
			Name:      "blastdbcmd_duration_seconds",
			Help:      "blastdbcmd invocation duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	DispatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hitreport",
			Name:      "dispatches_total",
			Help:      "Hit actions dispatched to the background",
		},
		[]string{"action", "status"},
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers the domain metrics. Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(ExportsTotal)
	prometheus.MustRegister(RenderMemoTotal)
	prometheus.MustRegister(SequenceCacheTotal)
	prometheus.MustRegister(BlastdbcmdRequestsTotal)
	prometheus.MustRegister(BlastdbcmdDuration)
	prometheus.MustRegister(DispatchesTotal)
	domainMetricsRegistered = true
}
