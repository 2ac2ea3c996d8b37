package MultiRouteOptimizer

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	optimizeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_optimize_requests_total",
			Help: "Total number of route optimizations by outcome",
		},
		[]string{"outcome"}, // ok, validation_error, routing_error, solver_error, solver_timeout
	)

	optimizeStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "route_optimize_stage_duration_seconds",
			Help:    "Duration of each blocking optimization stage in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"}, // distance_matrix, solver
	)

	optimizeWaypoints = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "route_optimize_waypoints",
			Help:    "Number of waypoints per accepted optimization request",
			Buckets: prometheus.LinearBuckets(MinWaypoints, 1, MaxWaypoints-MinWaypoints+1),
		},
	)
)

func observeStage(stage string, start time.Time) {
	optimizeStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, new(*ValidationError)):
		return "validation_error"
	case errors.As(err, new(*RoutingServiceError)):
		return "routing_error"
	case errors.As(err, new(*TimeoutError)):
		return "solver_timeout"
	default:
		return "solver_error"
	}
}
