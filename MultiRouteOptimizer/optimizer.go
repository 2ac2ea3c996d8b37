package MultiRouteOptimizer

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"Loopless/DistanceMatrix"
	"Loopless/Solver"
)

// Notifier is told about solver failures so operators can see the captured stderr.
// Implementations must not block the request.
type Notifier interface {
	SolverFailed(ctx context.Context, err error, stderr string)
}

// Optimizer runs the pipeline: validate, fetch the distance matrix, solve, assemble.
// It holds no per-request state and is safe for concurrent use.
type Optimizer struct {
	validator *Validator
	distances DistanceMatrix.Provider
	solver    Solver.Solver
	notifier  Notifier
}

// NewOptimizer wires the pipeline. notifier may be nil.
func NewOptimizer(distances DistanceMatrix.Provider, solver Solver.Solver, notifier Notifier) (*Optimizer, error) {
	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	return &Optimizer{
		validator: validator,
		distances: distances,
		solver:    solver,
		notifier:  notifier,
	}, nil
}

// Optimize runs every stage in order and stops at the first failure. The returned error
// is one of *ValidationError, *RoutingServiceError, *SolverExecutionError or *TimeoutError.
func (o *Optimizer) Optimize(ctx context.Context, req OptimizeRequest) (route OptimizedRoute, err error) {
	defer func() {
		optimizeRequestsTotal.WithLabelValues(outcomeOf(err)).Inc()
	}()

	waypoints, err := o.validator.Validate(req)
	if err != nil {
		return OptimizedRoute{}, err
	}
	optimizeWaypoints.Observe(float64(len(waypoints)))

	coords := make([]DistanceMatrix.Coordinate, len(waypoints))
	for i, waypoint := range waypoints {
		coords[i] = waypoint.Coordinate()
	}

	start := time.Now()
	matrix, err := o.distances.GetDistanceMatrix(ctx, coords)
	observeStage("distance_matrix", start)
	if err != nil {
		return OptimizedRoute{}, &RoutingServiceError{Err: err}
	}

	start = time.Now()
	tour, err := o.solver.Solve(ctx, matrix)
	observeStage("solver", start)
	if err != nil {
		return OptimizedRoute{}, o.solverFailed(ctx, err)
	}

	route, err = AssembleRoute(waypoints, matrix, tour)
	if err != nil {
		return OptimizedRoute{}, o.solverFailed(ctx, err)
	}

	log.Info().
		Int("waypoints", len(waypoints)).
		Str("distance_km", route.Distance).
		Msg("route optimized")
	return route, nil
}

func (o *Optimizer) solverFailed(ctx context.Context, err error) error {
	var stderr string
	var procErr *Solver.ProcessError
	if errors.As(err, &procErr) {
		stderr = procErr.Stderr
	}

	var classified error
	if errors.Is(err, Solver.ErrSolverTimeout) {
		classified = &TimeoutError{Err: err, Stderr: stderr}
	} else {
		classified = &SolverExecutionError{Err: err, Stderr: stderr}
	}

	log.Error().Err(err).Str("stderr", stderr).Msg("route optimization aborted by solver")
	if o.notifier != nil {
		o.notifier.SolverFailed(ctx, classified, stderr)
	}
	return classified
}
