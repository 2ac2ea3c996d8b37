// Package Solver runs the combinatorial tour solver behind a small capability interface.
//
// The production variant is an external process spoken to over a two-line text protocol
// (see protocol.go). An in-process exact solver implements the same interface, and Limit
// bounds how many solves may run at once.
package Solver

import (
	"context"
	"errors"
	"fmt"

	"Loopless/DistanceMatrix"
)

var (
	ErrSolverFailed  = errors.New("solver failed")
	ErrSolverTimeout = errors.New("solver timed out")
)

// Solver computes a closed tour over every index of a distance matrix, starting at index 0.
type Solver interface {
	Solve(ctx context.Context, matrix DistanceMatrix.Matrix) (Tour, error)
}

// Func adapts a plain function to the Solver interface.
type Func func(ctx context.Context, matrix DistanceMatrix.Matrix) (Tour, error)

func (f Func) Solve(ctx context.Context, matrix DistanceMatrix.Matrix) (Tour, error) {
	return f(ctx, matrix)
}

// ProcessError describes a failed solver run. Stderr is kept for operators and must not
// be shown to API callers.
type ProcessError struct {
	ExitCode int // -1 when the process did not run to a normal exit
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("solver exited with code %d: %v", e.ExitCode, e.Err)
	}
	return fmt.Sprintf("solver: %v", e.Err)
}

func (e *ProcessError) Unwrap() []error {
	if errors.Is(e.Err, ErrSolverTimeout) {
		return []error{e.Err}
	}
	return []error{ErrSolverFailed, e.Err}
}
