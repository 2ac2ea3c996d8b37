package Config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SolverModeProcess   = "process"
	SolverModeInProcess = "inprocess"
)

// Config stores all configuration of the application.
// It is built once at startup and passed by value; nothing mutates it afterwards.
type Config struct {
	Environment       string   `mapstructure:"ENVIRONMENT"`
	HTTPServerAddress string   `mapstructure:"HTTP_SERVER_ADDRESS"`
	AllowedOrigins    []string `mapstructure:"ALLOWED_ORIGINS"`

	// OSRM table service
	OSRMBaseURL string        `mapstructure:"OSRM_BASE_URL"`
	OSRMProfile string        `mapstructure:"OSRM_PROFILE"`
	OSRMTimeout time.Duration `mapstructure:"OSRM_TIMEOUT"`

	// Solver process
	SolverMode           string        `mapstructure:"SOLVER_MODE"`
	SolverPath           string        `mapstructure:"SOLVER_PATH"`
	SolverTimeout        time.Duration `mapstructure:"SOLVER_TIMEOUT"` // 0 waits for the solver to exit on its own
	MaxConcurrentSolvers int64         `mapstructure:"MAX_CONCURRENT_SOLVERS"`
	SolverMaxDistance    int64         `mapstructure:"SOLVER_MAX_DISTANCE"`

	SlackWebhookURL string `mapstructure:"SLACK_WEBHOOK_URL"`
	LogFile         string `mapstructure:"LOG_FILE"`
}

var defaults = map[string]interface{}{
	"ENVIRONMENT":         "development",
	"HTTP_SERVER_ADDRESS": ":5000",
	"ALLOWED_ORIGINS": []string{
		"http://localhost:5173",
		"http://localhost:3000",
		"https://loopless.netlify.app",
	},
	"OSRM_BASE_URL":          "http://router.project-osrm.org",
	"OSRM_PROFILE":           "driving",
	"OSRM_TIMEOUT":           8 * time.Second,
	"SOLVER_MODE":            SolverModeProcess,
	"SOLVER_PATH":            "./solver/tsp_solver",
	"SOLVER_TIMEOUT":         time.Duration(0),
	"MAX_CONCURRENT_SOLVERS": 0,
	"SOLVER_MAX_DISTANCE":    100_000_000,
	"SLACK_WEBHOOK_URL":      "",
	"LOG_FILE":               "logs/application.log",
}

// LoadConfig reads an optional .env file from path, then overlays environment variables.
func LoadConfig(path string) (Config, error) {
	var config Config

	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unmarshal config: %w", err)
	}

	config.OSRMBaseURL = strings.TrimRight(strings.TrimSpace(config.OSRMBaseURL), "/")
	config.SolverMode = strings.ToLower(strings.TrimSpace(config.SolverMode))

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func (c Config) Validate() error {
	switch {
	case c.OSRMBaseURL == "":
		return errors.New("OSRM_BASE_URL is not configured")
	case c.OSRMProfile == "":
		return errors.New("OSRM_PROFILE is not configured")
	case c.OSRMTimeout <= 0:
		return fmt.Errorf("OSRM_TIMEOUT must be positive, got %s", c.OSRMTimeout)
	case c.SolverTimeout < 0:
		return fmt.Errorf("SOLVER_TIMEOUT must not be negative, got %s", c.SolverTimeout)
	case c.SolverMaxDistance <= 0:
		return fmt.Errorf("SOLVER_MAX_DISTANCE must be positive, got %d", c.SolverMaxDistance)
	}

	switch c.SolverMode {
	case SolverModeProcess:
		if c.SolverPath == "" {
			return errors.New("SOLVER_PATH is required when SOLVER_MODE=process")
		}
	case SolverModeInProcess:
	default:
		return fmt.Errorf("unknown SOLVER_MODE %q", c.SolverMode)
	}
	return nil
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}
