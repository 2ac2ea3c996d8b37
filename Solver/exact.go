package Solver

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lvlath/tsp"

	"Loopless/DistanceMatrix"
)

// ExactSolver solves in-process with Held–Karp. It sees the same clamped integer
// distances a process solver would receive, so both report identical totals.
type ExactSolver struct {
	MaxDistance int64
}

func (s ExactSolver) Solve(ctx context.Context, matrix DistanceMatrix.Matrix) (Tour, error) {
	if err := ctx.Err(); err != nil {
		return Tour{}, fmt.Errorf("%w: %w", ErrSolverFailed, err)
	}

	n := matrix.Size()
	if n < 1 || n > MaxWaypoints {
		return Tour{}, fmt.Errorf("%w: waypoint count %d out of range 1..%d", ErrSolverFailed, n, MaxWaypoints)
	}
	if n == 1 {
		return Tour{TotalMeters: 0, Order: []int{0}}, nil
	}

	maxDistance := s.MaxDistance
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}

	dist := make([][]float64, n)
	for i, row := range matrix {
		if len(row) != n {
			return Tour{}, fmt.Errorf("%w: matrix row %d has %d cells, want %d", ErrSolverFailed, i, len(row), n)
		}
		dist[i] = make([]float64, n)
		for j, meters := range row {
			if i != j {
				dist[i][j] = float64(ClampDistance(meters, maxDistance))
			}
		}
	}

	result, err := tsp.TSPExact(dist)
	if err != nil {
		return Tour{}, fmt.Errorf("%w: %w", ErrSolverFailed, err)
	}

	// Tour is closed (returns to 0); the protocol only carries the open order.
	return Tour{TotalMeters: result.Cost, Order: result.Tour[:n]}, nil
}

var _ Solver = ExactSolver{}
