package Solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"

	"Loopless/DistanceMatrix"
)

// how long Wait keeps draining pipes after the process has been killed
const waitDelay = 2 * time.Second

// ProcessSolver spawns one solver process per Solve call.
type ProcessSolver struct {
	Path        string
	Args        []string
	MaxDistance int64
	// Timeout bounds a single run; zero waits for the process to exit on its own.
	Timeout time.Duration
}

func NewProcessSolver(path string, maxDistance int64, timeout time.Duration) *ProcessSolver {
	return &ProcessSolver{
		Path:        path,
		MaxDistance: maxDistance,
		Timeout:     timeout,
	}
}

// Solve writes the whole request to the solver's stdin, closes it, and only then waits
// for the process to exit and parses what it printed.
func (s *ProcessSolver) Solve(ctx context.Context, matrix DistanceMatrix.Matrix) (Tour, error) {
	var request bytes.Buffer
	if err := EncodeRequest(&request, matrix, s.MaxDistance); err != nil {
		return Tour{}, &ProcessError{ExitCode: -1, Err: fmt.Errorf("encode request: %w", err)}
	}

	runCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, s.Path, s.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return Tour{}, s.fail(&ProcessError{ExitCode: -1, Err: fmt.Errorf("stdin pipe: %w", err)})
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Tour{}, s.fail(&ProcessError{ExitCode: -1, Err: fmt.Errorf("start: %w", err)})
	}

	_, writeErr := stdin.Write(request.Bytes())
	closeErr := stdin.Close()
	// Wait reaps the process and drains stdout/stderr even when the write failed.
	waitErr := cmd.Wait()

	if runCtx.Err() != nil && ctx.Err() == nil {
		return Tour{}, s.fail(&ProcessError{
			ExitCode: -1,
			Stderr:   stderr.String(),
			Err:      fmt.Errorf("%w after %s", ErrSolverTimeout, s.Timeout),
		})
	}
	if err := ctx.Err(); err != nil {
		return Tour{}, s.fail(&ProcessError{ExitCode: -1, Stderr: stderr.String(), Err: err})
	}

	if waitErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return Tour{}, s.fail(&ProcessError{ExitCode: exitCode, Stderr: stderr.String(), Err: waitErr})
	}
	if writeErr != nil {
		return Tour{}, s.fail(&ProcessError{ExitCode: 0, Stderr: stderr.String(), Err: fmt.Errorf("write request: %w", writeErr)})
	}
	if closeErr != nil {
		return Tour{}, s.fail(&ProcessError{ExitCode: 0, Stderr: stderr.String(), Err: fmt.Errorf("close stdin: %w", closeErr)})
	}

	tour, err := ParseResponse(stdout.Bytes())
	if err != nil {
		return Tour{}, s.fail(&ProcessError{ExitCode: 0, Stderr: stderr.String(), Err: err})
	}

	log.Debug().
		Str("solver", s.Path).
		Int("waypoints", matrix.Size()).
		Float64("total_meters", tour.TotalMeters).
		Dur("latency", time.Since(start)).
		Msg("solver finished")
	return tour, nil
}

func (s *ProcessSolver) fail(err *ProcessError) *ProcessError {
	log.Error().
		Err(err.Err).
		Str("solver", s.Path).
		Int("exit_code", err.ExitCode).
		Str("stderr", err.Stderr).
		Msg("solver process failed")
	return err
}

var _ Solver = (*ProcessSolver)(nil)
