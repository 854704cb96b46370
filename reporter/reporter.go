// Package reporter defines the presentation contract the engine notifies
// during execution, plus the stock console, matrix and progress
// implementations. Reporters are injected, never owned by the engine.
package reporter

import (
	"time"

	"batrun/suite"
)

// TargetSummary is one execution context's results, flattened for
// presentation so reporters stay decoupled from the executor's bookkeeping.
type TargetSummary struct {
	Target       string
	Status       string
	Passed       int
	Failed       int
	RunnerFailed int
	Skipped      int
	// Cases maps every case to its final status.
	Cases map[suite.TestCase]suite.CaseStatus
}

// Reporter receives engine notifications. Implementations are side-effecting
// and return nothing; the engine calls CaseStarted before attempting a case
// and CaseResult exactly once after the outcome is final, including when the
// case is skipped.
type Reporter interface {
	Info(message string)
	Warning(message string)
	Error(message string)

	TargetList(s *suite.Suite)
	TestList(s *suite.Suite)
	CaseStarted(tc *suite.TestCase, target string)
	CaseResult(tc *suite.TestCase, target string, status suite.CaseStatus, elapsed time.Duration)
	SuiteSummary(s *suite.Suite, summaries []TargetSummary)
	TotalTime(elapsed time.Duration)
}

// Noop discards every notification. Handy default and test double.
type Noop struct{}

func (Noop) Info(string)                                                          {}
func (Noop) Warning(string)                                                       {}
func (Noop) Error(string)                                                         {}
func (Noop) TargetList(*suite.Suite)                                              {}
func (Noop) TestList(*suite.Suite)                                                {}
func (Noop) CaseStarted(*suite.TestCase, string)                                  {}
func (Noop) CaseResult(*suite.TestCase, string, suite.CaseStatus, time.Duration)  {}
func (Noop) SuiteSummary(*suite.Suite, []TargetSummary)                           {}
func (Noop) TotalTime(time.Duration)                                              {}

// Multi fans every notification out to each reporter in order.
type Multi []Reporter

func (m Multi) Info(message string) {
	for _, r := range m {
		r.Info(message)
	}
}

func (m Multi) Warning(message string) {
	for _, r := range m {
		r.Warning(message)
	}
}

func (m Multi) Error(message string) {
	for _, r := range m {
		r.Error(message)
	}
}

func (m Multi) TargetList(s *suite.Suite) {
	for _, r := range m {
		r.TargetList(s)
	}
}

func (m Multi) TestList(s *suite.Suite) {
	for _, r := range m {
		r.TestList(s)
	}
}

func (m Multi) CaseStarted(tc *suite.TestCase, target string) {
	for _, r := range m {
		r.CaseStarted(tc, target)
	}
}

func (m Multi) CaseResult(tc *suite.TestCase, target string, status suite.CaseStatus, elapsed time.Duration) {
	for _, r := range m {
		r.CaseResult(tc, target, status, elapsed)
	}
}

func (m Multi) SuiteSummary(s *suite.Suite, summaries []TargetSummary) {
	for _, r := range m {
		r.SuiteSummary(s, summaries)
	}
}

func (m Multi) TotalTime(elapsed time.Duration) {
	for _, r := range m {
		r.TotalTime(elapsed)
	}
}
