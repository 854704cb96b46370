// Package executor owns per-target execution bookkeeping and the strategies
// that drive one traversal per target to completion.
package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"batrun/driver"
	"batrun/reporter"
	"batrun/suite"
)

// Interval tracks one case's execution time. Running opens it; any terminal
// status closes it.
type Interval struct {
	start time.Time
	end   time.Time
}

func (i *Interval) begin() { i.start = time.Now(); i.end = time.Time{} }
func (i *Interval) close() { i.end = time.Now() }

// Elapsed returns the closed interval's duration, or zero while open.
func (i *Interval) Elapsed() time.Duration {
	if i.start.IsZero() || i.end.IsZero() {
		return 0
	}
	return i.end.Sub(i.start)
}

// CaseExecution is the mutable per-case record: outcome, timing, the case's
// output directory, and the failure detail when there is one.
type CaseExecution struct {
	Status     suite.CaseStatus
	SkipReason suite.ShouldSkip // set when Status is skip
	Interval   Interval
	OutDir     string
	Err        error // driver error for runner failures
}

// setStatus transitions the record, opening the interval on running and
// closing it on any terminal status. Resetting a record to not-run is a
// programming error, not a recoverable failure.
func (ce *CaseExecution) setStatus(status suite.CaseStatus) {
	switch status {
	case suite.CaseStatusNotRun:
		panic("executor: test case status cannot be reset to not-run")
	case suite.CaseStatusRunning:
		ce.Status = status
		ce.Interval.begin()
	default:
		ce.Status = status
		ce.Interval.close()
	}
}

// SuiteStatus is the context's overall execution state.
type SuiteStatus string

const (
	SuiteStatusNotRun   SuiteStatus = "not-run"
	SuiteStatusRunning  SuiteStatus = "running"
	SuiteStatusFinished SuiteStatus = "finished"
	// SuiteStatusAborted is reserved for fatal abort handling by callers;
	// the engine itself never sets it.
	SuiteStatusAborted SuiteStatus = "aborted"
)

// Context is the per (suite, target) execution record. It knows how to run
// a single case through a driver and record the outcome, but never decides
// traversal order; that is the visitor's job. A context is mutated only by
// the strategy driving it.
type Context struct {
	suite    *suite.Suite
	target   string
	status   SuiteStatus
	cases    map[suite.TestCase]*CaseExecution
	reporter reporter.Reporter
	dryRun   bool
}

// ContextConfig carries the knobs shared by every context of a run.
type ContextConfig struct {
	Reporter reporter.Reporter
	DryRun   bool
}

// NewContext builds the context for one target, with one not-run record per
// case discoverable in the suite.
func NewContext(s *suite.Suite, target string, cfg ContextConfig) *Context {
	rep := cfg.Reporter
	if rep == nil {
		rep = reporter.Noop{}
	}
	c := &Context{
		suite:    s,
		target:   target,
		status:   SuiteStatusNotRun,
		cases:    make(map[suite.TestCase]*CaseExecution),
		reporter: rep,
		dryRun:   cfg.DryRun,
	}
	suite.VisitAllCases(s, func(tc *suite.TestCase, _ suite.ShouldSkip) {
		c.cases[*tc] = &CaseExecution{Status: suite.CaseStatusNotRun}
	})
	return c
}

func (c *Context) Suite() *suite.Suite { return c.suite }
func (c *Context) Target() string      { return c.target }
func (c *Context) Status() SuiteStatus { return c.status }

// Case returns the record for tc, or nil for a case unknown to the suite.
func (c *Context) Case(tc suite.TestCase) *CaseExecution { return c.cases[tc] }

// Prepare creates each case's output directory under outRoot, laid out as
// {outRoot}/{target}/{relative file path}/.
func (c *Context) Prepare(outRoot string) error {
	for tc, exec := range c.cases {
		dir := CaseOutDir(outRoot, c.target, tc.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %q: %w", dir, err)
		}
		exec.OutDir = dir
	}
	return nil
}

// CaseOutDir computes the output directory for one case's logs.
func CaseOutDir(outRoot, target, relFilePath string) string {
	return filepath.Join(outRoot, target, relFilePath)
}

// Run executes one test case, or records it as skipped when the traversal
// advises so, and reports the outcome. The returned error is non-nil iff the
// case failed or the driver invocation itself errored; the visitor uses it
// on setup steps to raise skip flags and strategies may use it to observe
// progress, but no default strategy short-circuits on it.
func (c *Context) Run(ctx context.Context, drv driver.TestDriver, tc *suite.TestCase, shouldSkip suite.ShouldSkip) error {
	c.status = SuiteStatusRunning

	exec, ok := c.cases[*tc]
	if !ok {
		// Every case was registered at construction; an unknown case can
		// only come from a foreign suite.
		panic(fmt.Sprintf("executor: unknown test case %s", tc.ID()))
	}

	exec.setStatus(suite.CaseStatusRunning)
	c.reporter.CaseStarted(tc, c.target)

	switch {
	case shouldSkip.Skip():
		exec.SkipReason = shouldSkip
		exec.setStatus(suite.CaseStatusSkip)
	case c.dryRun:
		exec.setStatus(suite.CaseStatusDryRun)
	default:
		res, err := drv.Run(ctx, c.suite.Path(), c.suite.Config(), c.target, tc, exec.OutDir)
		if err != nil {
			exec.Err = err
			exec.setStatus(suite.CaseStatusError)
		} else {
			if res.Status == suite.CaseStatusSkip {
				exec.SkipReason = suite.ShouldSkip{
					Reason:  suite.SkipReasonCaseSpecific,
					Message: res.SkipMessage,
				}
			}
			exec.setStatus(res.Status)
		}
	}

	c.reporter.CaseResult(tc, c.target, exec.Status, exec.Interval.Elapsed())

	switch exec.Status {
	case suite.CaseStatusFail:
		return fmt.Errorf("test case %s failed", tc.ID())
	case suite.CaseStatusError:
		return fmt.Errorf("test case %s: runner failure: %w", tc.ID(), exec.Err)
	default:
		return nil
	}
}

// Summary flattens the context into the reporter-facing view.
func (c *Context) Summary() reporter.TargetSummary {
	stats := c.Statistics()
	summary := reporter.TargetSummary{
		Target:       c.target,
		Status:       string(c.status),
		Passed:       stats.Passed,
		Failed:       stats.Failed,
		RunnerFailed: stats.RunnerFailed,
		Skipped:      stats.Skipped,
		Cases:        make(map[suite.TestCase]suite.CaseStatus, len(c.cases)),
	}
	for tc, exec := range c.cases {
		summary.Cases[tc] = exec.Status
	}
	return summary
}

// finish marks the context complete. Statistics stay live either way.
func (c *Context) finish() {
	c.status = SuiteStatusFinished
}

// Statistics recomputes the derived counts from the current records. Safe to
// call at any time, including mid-run.
func (c *Context) Statistics() Statistics {
	var stats Statistics
	for _, exec := range c.cases {
		switch exec.Status {
		case suite.CaseStatusPass:
			stats.Passed++
		case suite.CaseStatusFail:
			stats.Failed++
		case suite.CaseStatusError:
			stats.RunnerFailed++
		case suite.CaseStatusSkip, suite.CaseStatusDryRun:
			stats.Skipped++
		}
	}
	return stats
}

// Statistics are the derived counts over one context's outcomes. They are
// never stored; recompute on demand.
type Statistics struct {
	Passed       int
	Failed       int
	RunnerFailed int
	Skipped      int
}

// Clean reports whether nothing failed, including driver invocations.
func (s Statistics) Clean() bool {
	return s.Failed == 0 && s.RunnerFailed == 0
}

func (s Statistics) String() string {
	return fmt.Sprintf("%d passed, %d failed, %d runner failed, %d skipped",
		s.Passed, s.Failed, s.RunnerFailed, s.Skipped)
}
