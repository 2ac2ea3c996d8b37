package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"Loopless/Config"
	"Loopless/DistanceMatrix"
	"Loopless/FiberConfig"
	"Loopless/MultiRouteOptimizer"
	"Loopless/Slack"
	"Loopless/Solver"
)

var interruptSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
	syscall.SIGINT,
}

func main() {
	config, err := Config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logFile := setupLogging(config)
	if logFile != nil {
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), interruptSignals...)
	defer stop()

	optimizer, err := newOptimizer(config)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot build optimizer")
	}

	if err := FiberConfig.FiberConfig(ctx, config, optimizer); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func newOptimizer(config Config.Config) (*MultiRouteOptimizer.Optimizer, error) {
	distances := DistanceMatrix.NewOSRMClient(config.OSRMBaseURL, config.OSRMProfile, config.OSRMTimeout)

	var solver Solver.Solver
	switch config.SolverMode {
	case Config.SolverModeInProcess:
		solver = Solver.ExactSolver{MaxDistance: config.SolverMaxDistance}
	default:
		if _, err := os.Stat(config.SolverPath); err != nil {
			// not fatal: the binary may be deployed after startup
			log.Warn().Err(err).Str("solver", config.SolverPath).Msg("solver binary not found")
		}
		solver = Solver.NewProcessSolver(config.SolverPath, config.SolverMaxDistance, config.SolverTimeout)
	}
	solver = Solver.Limit(solver, config.MaxConcurrentSolvers)

	var notifier MultiRouteOptimizer.Notifier
	if alerter := Slack.NewAlerter(config.SlackWebhookURL, config.Environment); alerter != nil {
		notifier = alerter
	}

	log.Info().
		Str("osrm", config.OSRMBaseURL).
		Str("solver_mode", config.SolverMode).
		Dur("solver_timeout", config.SolverTimeout).
		Int64("max_concurrent_solvers", config.MaxConcurrentSolvers).
		Bool("slack_alerts", notifier != nil).
		Msg("optimizer configured")

	return MultiRouteOptimizer.NewOptimizer(distances, solver, notifier)
}

// setupLogging writes to the console in development, and JSON to stdout plus the log file otherwise.
func setupLogging(config Config.Config) *os.File {
	if config.IsDevelopment() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return nil
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if config.LogFile == "" {
		return nil
	}
	// Create logs directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(config.LogFile), 0755); err != nil {
		log.Error().Err(err).Msg("cannot create logs directory")
		return nil
	}

	logFile, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Error().Err(err).Str("file", config.LogFile).Msg("cannot open log file")
		return nil
	}

	log.Logger = zerolog.New(io.MultiWriter(os.Stdout, logFile)).With().Timestamp().Logger()
	return logFile
}
