package quakes

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quakeboard",
			Name:      "feed_fetches_total",
			Help:      "Feed fetches by outcome (ok, transport, status, parse).",
		},
		[]string{"outcome"},
	)

	feedFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "quakeboard",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Wall time of feed fetches.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	feedStaleDiscardsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "quakeboard",
			Name:      "feed_stale_responses_total",
			Help:      "Fetch results dropped because a newer refresh was issued.",
		},
	)

	feedFeatures = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "quakeboard",
			Name:      "feed_features",
			Help:      "Number of features in the last loaded collection.",
		},
	)

	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "quakeboard",
			Name:      "dashboard_sessions_active",
			Help:      "Dashboard sessions currently held in memory.",
		},
	)
)
