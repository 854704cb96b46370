// Package batrun wires suite discovery, per-target execution and reporting
// into the test orchestrator the CLI drives.
package batrun

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"batrun/driver"
	"batrun/executor"
	"batrun/metrics"
	"batrun/reporter"
	"batrun/suite"
)

// Runner orchestrates the configured suites, each across its targets:
// discovery through the suite's driver, one execution context per target,
// and a final summary per suite.
type Runner struct {
	config  *Config
	version string

	drivers   *driver.Registry
	suites    *suite.Registry
	suiteDirs []string // load order, healthy suites only
	loadErr   error    // last suite load failure, surfaced after the run
}

// New discovers every configured suite and prepares a runner. Each suite
// loads independently: a broken suite is reported and kept out of the run
// without preventing the other suites from loading. Construction fails only
// when no suite loaded at all.
func New(config *Config, version string) (*Runner, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debugw("creating runner",
		"suiteDirs", config.SuiteDirs,
		"outDir", config.OutDir,
		"strategy", config.Strategy,
		"dryRun", config.DryRun)

	r := &Runner{
		config:  config,
		version: version,
		drivers: driver.NewRegistry(),
		suites:  suite.NewRegistry(),
	}

	for _, suiteDir := range config.SuiteDirs {
		if err := r.loadSuite(suiteDir); err != nil {
			config.Log.Errorw("failed to load test suite", "suiteDir", suiteDir, "err", err)
			metrics.RecordErrorDetails("suite_load", err)
			r.loadErr = err
			continue
		}
		r.suiteDirs = append(r.suiteDirs, suiteDir)
	}
	if len(r.suiteDirs) == 0 {
		return nil, NewRuntimeError(fmt.Errorf("no test suite could be loaded: %w", r.loadErr))
	}
	return r, nil
}

func (r *Runner) loadSuite(suiteDir string) error {
	cfg, err := suite.LoadConfig(suiteDir)
	if err != nil {
		return err
	}
	drv, err := r.drivers.Get(cfg.Driver)
	if err != nil {
		return err
	}
	s, err := drv.Discover(suiteDir, &cfg)
	if err != nil {
		return fmt.Errorf("discovering suite %q: %w", suiteDir, err)
	}

	r.suites.Insert(suiteDir, s)

	r.config.Log.Infow("discovered suite",
		"name", cfg.Name,
		"driver", drv.Name(),
		"files", len(s.Files()),
		"cases", countCases(s))
	return nil
}

// Suites returns the loaded suites in configuration order.
func (r *Runner) Suites() []*suite.Suite {
	suites := make([]*suite.Suite, 0, len(r.suiteDirs))
	for _, dir := range r.suiteDirs {
		s, _ := r.suites.Get(dir)
		suites = append(suites, s)
	}
	return suites
}

// targetsFor resolves the targets for one suite: the CLI override when
// present, the suite config otherwise. A run needs at least one target.
func (r *Runner) targetsFor(s *suite.Suite) ([]string, error) {
	targets := r.config.Targets
	if len(targets) == 0 {
		targets = s.Config().Targets
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets for suite %q; set targets in %s or pass --target",
			s.Path(), suite.ConfigFilename)
	}
	seen := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		if _, ok := seen[target]; ok {
			return nil, fmt.Errorf("duplicate target %q", target)
		}
		seen[target] = struct{}{}
	}
	return targets, nil
}

// ListTests prints the test cases of every loaded suite.
func (r *Runner) ListTests(rep reporter.Reporter) {
	for _, s := range r.Suites() {
		rep.TestList(s)
	}
}

// ListTargets prints the resolved targets of every loaded suite.
func (r *Runner) ListTargets(rep reporter.Reporter) error {
	for _, s := range r.Suites() {
		targets, err := r.targetsFor(s)
		if err != nil {
			return NewRuntimeError(err)
		}
		resolved := *s.Config()
		resolved.Targets = targets
		rep.TargetList(suite.New(s.Path(), resolved, s.Files(), *s.Fixture()))
	}
	return nil
}

// Run executes every loaded suite once across its targets. It returns a
// TestFailureError when any case failed, a RuntimeError when a run could
// not proceed (including when a configured suite failed to load), and nil
// on a clean run. A suite's test failures never stop the remaining suites.
func (r *Runner) Run(ctx context.Context) error {
	console := reporter.NewConsole(r.config.MatrixSummary)
	started := time.Now()

	var failed int
	for _, suiteDir := range r.suiteDirs {
		if err := r.runSuite(ctx, suiteDir, console); err != nil {
			if !IsTestFailureError(err) {
				return err
			}
			failed++
		}
	}

	console.TotalTime(time.Since(started))

	if r.loadErr != nil {
		return NewRuntimeError(fmt.Errorf("some test suites failed to load: %w", r.loadErr))
	}
	if failed > 0 {
		return NewTestFailureError(fmt.Sprintf("%d of %d suites failed", failed, len(r.suiteDirs)))
	}
	return nil
}

// runSuite executes one suite across its targets and reports its summary.
func (r *Runner) runSuite(ctx context.Context, suiteDir string, console reporter.Reporter) error {
	s, err := r.suites.Get(suiteDir)
	if err != nil {
		return NewRuntimeError(err)
	}
	drv, err := r.drivers.Get(s.Config().Driver)
	if err != nil {
		return NewRuntimeError(err)
	}

	targets, err := r.targetsFor(s)
	if err != nil {
		return NewRuntimeError(err)
	}

	runID := uuid.New().String()
	outRoot := filepath.Join(r.config.OutDir, "testrun-"+runID)
	if err := os.MkdirAll(outRoot, 0o755); err != nil {
		return NewRuntimeError(fmt.Errorf("creating run directory %q: %w", outRoot, err))
	}

	sink := reporter.NewFileSink(outRoot)
	rep := reporter.Multi{console, sink}
	var progress *reporter.Progress
	if r.config.Progress {
		progress = reporter.NewProgress(countCases(s) * len(targets))
		rep = append(rep, progress)
	}

	r.config.Log.Infow("starting run",
		"suite", s.Config().Name,
		"runID", runID,
		"outRoot", outRoot,
		"targets", targets,
		"strategy", r.config.Strategy)

	contexts := make([]*executor.Context, 0, len(targets))
	for _, target := range targets {
		ec := executor.NewContext(s, target, executor.ContextConfig{
			Reporter: rep,
			DryRun:   r.config.DryRun,
		})
		if err := ec.Prepare(outRoot); err != nil {
			return NewRuntimeError(err)
		}
		contexts = append(contexts, ec)
	}

	strategy, err := executor.ForName(r.config.Strategy)
	if err != nil {
		return NewRuntimeError(err)
	}

	suiteStarted := time.Now()
	if err := strategy.Execute(ctx, drv, s, contexts); err != nil {
		// Strategies only surface context cancellation; case failures are
		// recorded per context and settled below.
		if ctx.Err() != nil {
			return NewRuntimeError(err)
		}
	}
	elapsed := time.Since(suiteStarted)

	summaries := make([]reporter.TargetSummary, 0, len(contexts))
	var total executor.Statistics
	for _, ec := range contexts {
		stats := ec.Statistics()
		total.Passed += stats.Passed
		total.Failed += stats.Failed
		total.RunnerFailed += stats.RunnerFailed
		total.Skipped += stats.Skipped

		summary := ec.Summary()
		summaries = append(summaries, summary)
		for _, status := range summary.Cases {
			metrics.RecordCaseResult(s.Config().Name, runID, summary.Target, status)
		}
	}

	if progress != nil {
		progress.TotalTime(elapsed)
	}
	rep.SuiteSummary(s, summaries)
	sink.TotalTime(elapsed)

	result := "pass"
	if !total.Clean() {
		result = "fail"
	}
	metrics.RecordRun(s.Config().Name, runID, result, countCases(s)*len(targets), elapsed)

	r.config.Log.Infow("run finished",
		"suite", s.Config().Name,
		"runID", runID,
		"result", result,
		"stats", total.String(),
		"elapsed", elapsed)

	if !total.Clean() {
		return NewTestFailureError(fmt.Sprintf("suite %q: %s", s.Config().Name, total.String()))
	}
	return nil
}

func countCases(s *suite.Suite) int {
	var n int
	suite.VisitAllCases(s, func(*suite.TestCase, suite.ShouldSkip) { n++ })
	return n
}
