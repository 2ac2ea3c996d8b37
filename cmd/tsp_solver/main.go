// Command tsp_solver is the reference solver binary. It reads one distance matrix from
// stdin and prints the shortest closed tour from stop 0 to stdout:
//
//	<total meters>
//	<space-separated visiting order>
//
// Any failure is reported on stderr with a non-zero exit code.
package main

import (
	"bufio"
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"Loopless/Solver"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	matrix, err := Solver.DecodeRequest(os.Stdin)
	if err != nil {
		logger.Error().Err(err).Msg("cannot read distance matrix")
		os.Exit(2)
	}

	tour, err := Solver.ExactSolver{}.Solve(context.Background(), matrix)
	if err != nil {
		logger.Error().Err(err).Int("waypoints", matrix.Size()).Msg("cannot solve")
		os.Exit(1)
	}

	out := bufio.NewWriter(os.Stdout)
	if err := Solver.EncodeResponse(out, tour); err != nil {
		logger.Error().Err(err).Msg("cannot write tour")
		os.Exit(1)
	}
	if err := out.Flush(); err != nil {
		logger.Error().Err(err).Msg("cannot write tour")
		os.Exit(1)
	}
}
