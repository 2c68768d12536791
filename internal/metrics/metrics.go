// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mood_recommendations_total",
			Help: "Recommendation responses by mood and selection type",
		},
		[]string{"mood", "selection"},
	)

	RankingFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mood_ranking_fallbacks_total",
			Help: "Rankings that degraded to random selection",
		},
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mood_recommend_duration_seconds",
			Help:    "Time spent producing a recommendation",
			Buckets: prometheus.DefBuckets,
		},
	)

	CatalogCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mood_catalog_cache_total",
			Help: "Catalog snapshot cache lookups by result",
		},
		[]string{"result"}, // hit, miss, error
	)

	SkippedSongs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mood_catalog_skipped_songs_total",
			Help: "Songs excluded from ranking because a feature was not numeric",
		},
	)

	SessionResets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mood_session_resets_total",
			Help: "Session history reset requests by result",
		},
		[]string{"result"}, // reset, not_found
	)
)
