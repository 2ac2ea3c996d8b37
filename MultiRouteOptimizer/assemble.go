package MultiRouteOptimizer

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/katalvlaran/lvlath/tsp"

	"Loopless/DistanceMatrix"
	"Loopless/Solver"
)

var ErrInvalidTour = errors.New("solver returned an invalid tour")

// AssembleRoute maps the solver's order back onto the waypoints by position.
func AssembleRoute(waypoints []Waypoint, matrix DistanceMatrix.Matrix, tour Solver.Tour) (OptimizedRoute, error) {
	n := len(waypoints)
	if err := tsp.ValidatePermutation(tour.Order, n); err != nil {
		return OptimizedRoute{}, fmt.Errorf("%w: order %v is not a permutation of 0..%d", ErrInvalidTour, tour.Order, n-1)
	}
	if tour.Order[0] != 0 {
		return OptimizedRoute{}, fmt.Errorf("%w: order starts at %d, want 0", ErrInvalidTour, tour.Order[0])
	}
	if math.IsNaN(tour.TotalMeters) || math.IsInf(tour.TotalMeters, 0) || tour.TotalMeters < 0 {
		return OptimizedRoute{}, fmt.Errorf("%w: total %v", ErrInvalidTour, tour.TotalMeters)
	}

	path := make([]Waypoint, n)
	for i, idx := range tour.Order {
		path[i] = waypoints[idx]
	}

	return OptimizedRoute{
		Path:        path,
		Distance:    formatKilometers(tour.TotalMeters),
		TotalMeters: tour.TotalMeters,
		Matrix:      matrix,
	}, nil
}

func formatKilometers(meters float64) string {
	return strconv.FormatFloat(meters/1000, 'f', 2, 64)
}
