package Solver

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"

	"Loopless/DistanceMatrix"
)

type limited struct {
	solver Solver
	slots  *semaphore.Weighted
}

// Limit allows at most n concurrent Solve calls on s; further callers queue until a slot
// frees up or their context ends. n <= 0 returns s unchanged.
func Limit(s Solver, n int64) Solver {
	if n <= 0 {
		return s
	}
	return &limited{solver: s, slots: semaphore.NewWeighted(n)}
}

func (l *limited) Solve(ctx context.Context, matrix DistanceMatrix.Matrix) (Tour, error) {
	if err := l.slots.Acquire(ctx, 1); err != nil {
		return Tour{}, fmt.Errorf("%w: waiting for a solver slot: %w", ErrSolverFailed, err)
	}
	defer l.slots.Release(1)

	return l.solver.Solve(ctx, matrix)
}
