package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldops_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fieldops_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ReviewDecisions counts review outcomes by request kind and decision.
	ReviewDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldops_review_decisions_total",
		Help: "Total review decisions by request kind and outcome",
	}, []string{"kind", "decision"})

	// StateConflicts counts rejected actions on already-reviewed requests.
	StateConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldops_state_conflicts_total",
		Help: "Total actions refused because the target request was already terminal",
	}, []string{"kind"})

	// CacheHits counts cache-aside hits by cache key prefix.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldops_cache_hits_total",
		Help: "Total cache hits by key prefix",
	}, []string{"prefix"})

	// CacheMisses counts cache-aside misses by cache key prefix.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldops_cache_misses_total",
		Help: "Total cache misses by key prefix",
	}, []string{"prefix"})

	// EventsPublished counts workflow events published to Redis pub/sub.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldops_events_published_total",
		Help: "Total workflow events published by event type",
	}, []string{"event_type"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}

// RecordReviewDecision increments the review decision counter.
func RecordReviewDecision(kind, decision string) {
	ReviewDecisions.WithLabelValues(kind, decision).Inc()
}

// RecordStateConflict increments the terminal-state conflict counter.
func RecordStateConflict(kind string) {
	StateConflicts.WithLabelValues(kind).Inc()
}
