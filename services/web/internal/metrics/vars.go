package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptosearch_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "status"})

	HTTPLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cryptosearch_http_request_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	CatalogErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptosearch_catalog_errors_total",
		Help: "Catalog or detail provider failures, served as empty results",
	}, []string{"operation"})

	SnapshotSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cryptosearch_snapshot_coins",
		Help:    "Number of coins in the snapshot handed to the search engine",
		Buckets: []float64{0, 10, 50, 100, 250, 500, 1000, 5000},
	})

	FavoritesCorrupted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cryptosearch_favorites_corrupted_total",
		Help: "Stored favorites that failed to decode and were reset to empty",
	})

	FavoritesToggles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptosearch_favorites_toggles_total",
		Help: "Favorite toggles by outcome",
	}, []string{"result"})

	LeaderboardRefreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptosearch_leaderboard_refreshes_total",
		Help: "Scheduled global leaderboard refreshes by outcome",
	}, []string{"result"})

	LeaderboardUpdated = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cryptosearch_leaderboard_updated_timestamp_seconds",
		Help: "Unix time of the last successful leaderboard refresh",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequests,
		HTTPLatency,
		CatalogErrors,
		SnapshotSize,
		FavoritesCorrupted,
		FavoritesToggles,
		LeaderboardRefreshes,
		LeaderboardUpdated,
	)
}
