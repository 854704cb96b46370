package flags

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"batrun/executor"
)

const EnvVarPrefix = "BATRUN"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + strings.ReplaceAll(strings.ToUpper(name), "-", "_")}
}

var (
	SuiteDir = &cli.StringSliceFlag{
		Name:     "suite-dir",
		Required: true,
		EnvVars:  prefixEnvVars("suite-dir"),
		Usage:    "Path to a test suite directory containing a suite.yaml (repeatable)",
	}
	OutDir = &cli.StringFlag{
		Name:    "out-dir",
		Value:   "out",
		EnvVars: prefixEnvVars("out-dir"),
		Usage:   "Directory under which per-run output directories are created",
	}
	Target = &cli.StringSliceFlag{
		Name:    "target",
		EnvVars: prefixEnvVars("target"),
		Usage:   "Target to run the suite against (repeatable, overrides suite.yaml targets)",
	}
	ExecStrategy = &cli.StringFlag{
		Name:    "exec-strategy",
		Value:   string(executor.StrategyRoundRobin),
		EnvVars: prefixEnvVars("exec-strategy"),
		Usage: fmt.Sprintf("Execution strategy across targets (%s)",
			strings.Join(executor.StrategyNames(), ", ")),
		Action: func(_ *cli.Context, v string) error {
			if _, err := executor.ForName(executor.StrategyName(v)); err != nil {
				return err
			}
			return nil
		},
	}
	DryRun = &cli.BoolFlag{
		Name:    "dry-run",
		Value:   false,
		EnvVars: prefixEnvVars("dry-run"),
		Usage:   "Traverse the suite without invoking the test driver",
	}
	ListTests = &cli.BoolFlag{
		Name:    "list-tests",
		Value:   false,
		EnvVars: prefixEnvVars("list-tests"),
		Usage:   "List discovered test cases and exit",
	}
	ListTargets = &cli.BoolFlag{
		Name:    "list-targets",
		Value:   false,
		EnvVars: prefixEnvVars("list-targets"),
		Usage:   "List configured targets and exit",
	}
	MatrixSummary = &cli.BoolFlag{
		Name:    "matrix-summary",
		Value:   false,
		EnvVars: prefixEnvVars("matrix-summary"),
		Usage:   "Render the end-of-run summary as a case-by-target matrix",
	}
	Progress = &cli.BoolFlag{
		Name:    "progress",
		Value:   false,
		EnvVars: prefixEnvVars("progress"),
		Usage:   "Show a progress bar while the suite runs",
	}
	Debug = &cli.BoolFlag{
		Name:    "debug",
		Value:   false,
		EnvVars: prefixEnvVars("debug"),
		Usage:   "Enable debug logging",
	}
	MetricsEnabled = &cli.BoolFlag{
		Name:    "metrics-enabled",
		Value:   false,
		EnvVars: prefixEnvVars("metrics-enabled"),
		Usage:   "Serve Prometheus metrics and health checks while running",
	}
)

var requiredFlags = []cli.Flag{
	SuiteDir,
}

var optionalFlags = []cli.Flag{
	OutDir,
	Target,
	ExecStrategy,
	DryRun,
	ListTests,
	ListTargets,
	MatrixSummary,
	Progress,
	Debug,
	MetricsEnabled,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
