package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// RecommendationRequestsTotal counts recommendation requests by outcome
	// (ok, cached, rate_limited, invalid, error).
	RecommendationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)
	// RecommendationDuration observes end-to-end recommendation latency.
	RecommendationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Recommendation request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
	)
	// MatchScoreHistogram tracks the distribution of total match scores.
	// Scores are an unclamped ranking key; the embedding bonus can push the
	// total slightly above 1.0.
	MatchScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_score",
			Help:    "Distribution of total match scores",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0, 1.15},
		},
	)
	// PostingsFilteredTotal counts postings dropped by each hard-filter rule.
	PostingsFilteredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postings_filtered_total",
			Help: "Total number of postings dropped per filter rule",
		},
		[]string{"rule"},
	)
	// PostingsSkippedTotal counts malformed postings skipped during scoring.
	PostingsSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "postings_skipped_total",
			Help: "Total number of malformed postings skipped during scoring",
		},
	)
	// ResultCacheTotal counts result cache lookups by outcome (hit, miss,
	// error).
	ResultCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "result_cache_total",
			Help: "Total number of result cache lookups by outcome",
		},
		[]string{"outcome"},
	)
	// GapReportsTotal counts skill-gap reports by outcome (ok,
	// insufficient_data, invalid, error).
	GapReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gap_reports_total",
			Help: "Total number of skill-gap reports by outcome",
		},
		[]string{"outcome"},
	)
)

// Register registers all engine collectors on the given registerer.
// Callers own the registry; the engine never touches the global one.
func Register(r prometheus.Registerer) {
	r.MustRegister(
		RecommendationRequestsTotal,
		RecommendationDuration,
		MatchScoreHistogram,
		PostingsFilteredTotal,
		PostingsSkippedTotal,
		ResultCacheTotal,
		GapReportsTotal,
	)
}
