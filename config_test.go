package batrun

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zaptest"

	"batrun/executor"
	"batrun/flags"
)

// parseConfig runs the flag set through a real cli.App so env handling and
// defaults behave as in production.
func parseConfig(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	var cfg *Config
	var cfgErr error
	app := &cli.App{
		Flags: flags.Flags,
		Action: func(ctx *cli.Context) error {
			cfg, cfgErr = NewConfig(ctx, zaptest.NewLogger(t).Sugar())
			return nil
		},
	}
	if err := app.Run(append([]string{"batrun"}, args...)); err != nil {
		return nil, err
	}
	return cfg, cfgErr
}

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(t, "--suite-dir", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.OutDir)
	assert.Equal(t, executor.StrategyRoundRobin, cfg.Strategy)
	assert.Empty(t, cfg.Targets)
	assert.False(t, cfg.DryRun)
	assert.False(t, cfg.MatrixSummary)
	assert.False(t, cfg.MetricsEnabled)
}

func TestNewConfigAllFlags(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	cfg, err := parseConfig(t,
		"--suite-dir", dirA,
		"--suite-dir", dirB,
		"--out-dir", "results",
		"--target", "alpha",
		"--target", "beta",
		"--exec-strategy", "sequential",
		"--dry-run",
		"--matrix-summary",
		"--progress",
		"--metrics-enabled",
	)
	require.NoError(t, err)

	assert.Equal(t, []string{dirA, dirB}, cfg.SuiteDirs)
	assert.Equal(t, "results", cfg.OutDir)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Targets)
	assert.Equal(t, executor.StrategySequential, cfg.Strategy)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.MatrixSummary)
	assert.True(t, cfg.Progress)
	assert.True(t, cfg.MetricsEnabled)
}

func TestNewConfigResolvesAbsoluteSuiteDirs(t *testing.T) {
	cfg, err := parseConfig(t, "--suite-dir", ".")
	require.NoError(t, err)
	require.Len(t, cfg.SuiteDirs, 1)
	assert.True(t, filepath.IsAbs(cfg.SuiteDirs[0]))
}

func TestNewConfigMissingSuiteDir(t *testing.T) {
	_, err := parseConfig(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suite-dir")
}
