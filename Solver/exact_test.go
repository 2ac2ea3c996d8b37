package Solver

import (
	"context"
	"testing"

	"github.com/katalvlaran/lvlath/tsp"
	"github.com/stretchr/testify/require"

	"Loopless/DistanceMatrix"
)

func TestExactSolverSolve(t *testing.T) {
	matrix := DistanceMatrix.Matrix{
		{0, 10, 15, 20},
		{10, 0, 35, 25},
		{15, 35, 0, 30},
		{20, 25, 30, 0},
	}

	tour, err := ExactSolver{}.Solve(context.Background(), matrix)
	require.NoError(t, err)
	require.Equal(t, 80.0, tour.TotalMeters)
	require.Len(t, tour.Order, 4)
	require.Equal(t, 0, tour.Order[0])
	require.NoError(t, tsp.ValidatePermutation(tour.Order, 4))
}

func TestExactSolverDirectional(t *testing.T) {
	// going around 0->1->2->0 is cheap, the reverse direction is not
	matrix := DistanceMatrix.Matrix{
		{0, 1, 100},
		{100, 0, 1},
		{1, 100, 0},
	}

	tour, err := ExactSolver{}.Solve(context.Background(), matrix)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, tour.Order)
	require.Equal(t, 3.0, tour.TotalMeters)
}

func TestExactSolverClampsLikeProtocol(t *testing.T) {
	matrix := DistanceMatrix.Matrix{
		{0, 1e15},
		{4000.4, 0},
	}

	tour, err := ExactSolver{MaxDistance: 5000}.Solve(context.Background(), matrix)
	require.NoError(t, err)
	require.Equal(t, 9000.0, tour.TotalMeters)
}

func TestExactSolverEdgeCases(t *testing.T) {
	tour, err := ExactSolver{}.Solve(context.Background(), DistanceMatrix.Matrix{{0}})
	require.NoError(t, err)
	require.Equal(t, []int{0}, tour.Order)

	_, err = ExactSolver{}.Solve(context.Background(), squareMatrix(MaxWaypoints+1))
	require.ErrorIs(t, err, ErrSolverFailed)

	_, err = ExactSolver{}.Solve(context.Background(), DistanceMatrix.Matrix{{0, 1}, {1}})
	require.ErrorIs(t, err, ErrSolverFailed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ExactSolver{}.Solve(ctx, twoStops)
	require.ErrorIs(t, err, context.Canceled)
}
