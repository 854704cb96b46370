package batrun

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"batrun/executor"
	"batrun/flags"
)

// Config holds the application configuration
type Config struct {
	SuiteDirs      []string              // Suite directories, each containing a suite.yaml
	OutDir         string                // Directory under which per-run output directories are created
	Targets        []string              // Targets from the CLI, overriding the suite config when set
	Strategy       executor.StrategyName // How per-target traversals are interleaved
	DryRun         bool                  // Traverse without invoking the test driver
	ListTests      bool                  // List discovered test cases and exit
	ListTargets    bool                  // List configured targets and exit
	MatrixSummary  bool                  // Render the summary as a case-by-target matrix
	Progress       bool                  // Show a progress bar while the suite runs
	MetricsEnabled bool                  // Serve Prometheus metrics and health checks while running
	Log            *zap.SugaredLogger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log *zap.SugaredLogger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	suiteDirs := ctx.StringSlice(flags.SuiteDir.Name)
	if len(suiteDirs) == 0 {
		return nil, errors.New("at least one suite directory is required")
	}
	absSuiteDirs := make([]string, 0, len(suiteDirs))
	for _, dir := range suiteDirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for suite directory %q: %w", dir, err)
		}
		absSuiteDirs = append(absSuiteDirs, abs)
	}

	strategy := executor.StrategyName(ctx.String(flags.ExecStrategy.Name))
	if _, err := executor.ForName(strategy); err != nil {
		return nil, err
	}

	return &Config{
		SuiteDirs:      absSuiteDirs,
		OutDir:         ctx.String(flags.OutDir.Name),
		Targets:        ctx.StringSlice(flags.Target.Name),
		Strategy:       strategy,
		DryRun:         ctx.Bool(flags.DryRun.Name),
		ListTests:      ctx.Bool(flags.ListTests.Name),
		ListTargets:    ctx.Bool(flags.ListTargets.Name),
		MatrixSummary:  ctx.Bool(flags.MatrixSummary.Name),
		Progress:       ctx.Bool(flags.Progress.Name),
		MetricsEnabled: ctx.Bool(flags.MetricsEnabled.Name),
		Log:            log,
	}, nil
}
