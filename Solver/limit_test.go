package Solver

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"Loopless/DistanceMatrix"
)

func TestLimitBoundsConcurrency(t *testing.T) {
	var inFlight, peak int64
	slow := Func(func(ctx context.Context, matrix DistanceMatrix.Matrix) (Tour, error) {
		current := atomic.AddInt64(&inFlight, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if current <= old || atomic.CompareAndSwapInt64(&peak, old, current) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return Tour{Order: []int{0, 1}}, nil
	})

	solver := Limit(slow, 2)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := solver.Solve(context.Background(), twoStops)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
	require.GreaterOrEqual(t, atomic.LoadInt64(&peak), int64(1))
}

func TestLimitQueuedCallerGivesUp(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	blocking := Func(func(ctx context.Context, matrix DistanceMatrix.Matrix) (Tour, error) {
		close(started)
		<-release
		return Tour{Order: []int{0, 1}}, nil
	})

	solver := Limit(blocking, 1)

	done := make(chan error, 1)
	go func() {
		_, err := solver.Solve(context.Background(), twoStops)
		done <- err
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := solver.Solve(ctx, twoStops)
	require.ErrorIs(t, err, ErrSolverFailed)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)
}

func TestLimitDisabled(t *testing.T) {
	exact := ExactSolver{}
	require.Equal(t, Solver(exact), Limit(exact, 0))
}
