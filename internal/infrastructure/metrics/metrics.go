package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Settlement metrics
	SettlementsCommitted prometheus.Counter
	SettlementsRejected  prometheus.Counter
	SettlementDuration   prometheus.Histogram
	SettlementPot        prometheus.Histogram
	EntriesEdited        prometheus.Counter
	EntriesDeleted       prometheus.Counter

	// Room metrics
	RoomsCreated      prometheus.Counter
	RoomsDeleted      prometheus.Counter
	ParticipantsAdded prometheus.Counter

	// Series metrics
	SeriesCacheHits   prometheus.Counter
	SeriesCacheMisses prometheus.Counter

	// Database metrics
	DBConnections prometheus.Gauge

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Friend metrics
	FriendRequestsSent     prometheus.Counter
	FriendRequestsAccepted prometheus.Counter
	FriendRequestsRejected prometheus.Counter

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Settlement metrics
		SettlementsCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dpa_settlements_committed_total",
			Help: "Total number of settlement batches committed",
		}),
		SettlementsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dpa_settlements_rejected_total",
			Help: "Total number of settlement batches rejected as unbalanced",
		}),
		SettlementDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dpa_settlement_duration_seconds",
			Help:    "Duration of settlement commits",
			Buckets: prometheus.DefBuckets,
		}),
		SettlementPot: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dpa_settlement_pot",
			Help:    "Total buy-in amount per committed settlement",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000},
		}),
		EntriesEdited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dpa_entries_edited_total",
			Help: "Total number of ledger entries edited",
		}),
		EntriesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dpa_entries_deleted_total",
			Help: "Total number of ledger entries deleted",
		}),

		// Room metrics
		RoomsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dpa_rooms_created_total",
			Help: "Total number of rooms created",
		}),
		RoomsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dpa_rooms_deleted_total",
			Help: "Total number of rooms deleted",
		}),
		ParticipantsAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dpa_participants_added_total",
			Help: "Total number of participants added to rooms",
		}),

		// Series metrics
		SeriesCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dpa_series_cache_hits_total",
			Help: "Chart series served from cache",
		}),
		SeriesCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dpa_series_cache_misses_total",
			Help: "Chart series rebuilt from storage",
		}),

		// Database metrics
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "dpa_db_connections",
			Help: "Current number of database connections",
		}),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dpa_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dpa_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Friend metrics
		FriendRequestsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dpa_friend_requests_sent_total",
			Help: "Total friend requests sent",
		}),
		FriendRequestsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dpa_friend_requests_accepted_total",
			Help: "Total friend requests accepted",
		}),
		FriendRequestsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dpa_friend_requests_rejected_total",
			Help: "Total friend requests rejected",
		}),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dpa_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}
