package Config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, ":5000", config.HTTPServerAddress)
	require.Equal(t, "http://router.project-osrm.org", config.OSRMBaseURL)
	require.Equal(t, "driving", config.OSRMProfile)
	require.Equal(t, 8*time.Second, config.OSRMTimeout)
	require.Equal(t, SolverModeProcess, config.SolverMode)
	require.Zero(t, config.SolverTimeout)
	require.Zero(t, config.MaxConcurrentSolvers)
	require.EqualValues(t, 100_000_000, config.SolverMaxDistance)
	require.Contains(t, config.AllowedOrigins, "https://loopless.netlify.app")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("OSRM_BASE_URL", "http://osrm.internal:5000/")
	t.Setenv("OSRM_TIMEOUT", "3s")
	t.Setenv("SOLVER_MODE", "InProcess")
	t.Setenv("SOLVER_TIMEOUT", "30s")
	t.Setenv("MAX_CONCURRENT_SOLVERS", "4")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	config, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "http://osrm.internal:5000", config.OSRMBaseURL)
	require.Equal(t, 3*time.Second, config.OSRMTimeout)
	require.Equal(t, SolverModeInProcess, config.SolverMode)
	require.Equal(t, 30*time.Second, config.SolverTimeout)
	require.EqualValues(t, 4, config.MaxConcurrentSolvers)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, config.AllowedOrigins)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("OSRM_PROFILE=foot\n"), 0o600)
	require.NoError(t, err)
	t.Cleanup(func() { os.Unsetenv("OSRM_PROFILE") })

	config, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, "foot", config.OSRMProfile)
}

func TestValidate(t *testing.T) {
	config, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	bad := config
	bad.SolverMode = "quantum"
	require.Error(t, bad.Validate())

	bad = config
	bad.OSRMTimeout = 0
	require.Error(t, bad.Validate())

	bad = config
	bad.SolverPath = ""
	require.Error(t, bad.Validate())

	bad.SolverMode = SolverModeInProcess
	require.NoError(t, bad.Validate())
}
