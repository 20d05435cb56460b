package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claim_predictions_total",
			Help: "Total number of predictions served, by outcome",
		},
		[]string{"outcome"},
	)

	PredictionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claim_prediction_errors_total",
			Help: "Total number of failed prediction attempts, by reason",
		},
		[]string{"reason"},
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "claim_prediction_duration_seconds",
			Help:    "Duration of align-and-classify calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
	)

	PredictionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "claim_prediction_cache_hits_total",
			Help: "Total number of predictions answered from the result cache",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests, by route and status",
		},
		[]string{"method", "route", "status"},
	)
)
