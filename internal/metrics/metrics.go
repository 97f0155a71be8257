// Package metrics holds the Prometheus collectors shared by the HTTP layer and
// the services. Collectors register on the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dogclock"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Pet metrics
var (
	PetsAdoptedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pets",
			Name:      "adopted_total",
			Help:      "Total number of pets created",
		},
	)

	PetsDiedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pets",
			Name:      "died_total",
			Help:      "Total number of pets marked dead",
		},
	)
)

// Pomodoro metrics
var (
	SessionsStartedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pomodoro",
			Name:      "sessions_started_total",
			Help:      "Total number of pomodoro sessions started",
		},
		[]string{"task_tag"},
	)

	SessionsFinalizedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pomodoro",
			Name:      "sessions_finalized_total",
			Help:      "Total number of finalize calls by signal source and outcome",
		},
		[]string{"source", "completed"},
	)

	RewardPoints = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pomodoro",
			Name:      "reward_points",
			Help:      "Reward points computed per finalize call",
			Buckets:   []float64{0, 10, 20, 30, 50, 60, 90, 120},
		},
	)
)

// Shop metrics
var (
	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shop",
			Name:      "purchases_total",
			Help:      "Total number of purchased items by item type",
		},
		[]string{"type"},
	)

	BalanceChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shop",
			Name:      "balance_changes_total",
			Help:      "Total number of balance changes by direction",
		},
		[]string{"direction"},
	)
)
