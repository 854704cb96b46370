package suite

import "fmt"

// SkipReason explains why a case should be treated as skipped. Values are
// ranked: when more than one reason applies to a case, the higher-ranked one
// wins and is the one reported.
type SkipReason int

const (
	SkipReasonNone SkipReason = iota
	SkipReasonCaseSpecific    // driver-supplied, carries a message
	SkipReasonFileSetupError  // this file's setup case failed
	SkipReasonSuiteSetupError // the suite's setup case failed
)

func (r SkipReason) String() string {
	switch r {
	case SkipReasonNone:
		return "none"
	case SkipReasonCaseSpecific:
		return "test-case-specific"
	case SkipReasonFileSetupError:
		return "test-case-setup-error"
	case SkipReasonSuiteSetupError:
		return "test-suite-setup-error"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// ShouldSkip is the visitor's advice for one yielded case: either "no" (zero
// value) or "yes" with a ranked reason. The advice is advisory, not coercive;
// the execution context decides whether to actually invoke the driver.
type ShouldSkip struct {
	Reason  SkipReason
	Message string // set only for SkipReasonCaseSpecific
}

// Skip reports whether the case should be treated as skipped.
func (s ShouldSkip) Skip() bool { return s.Reason != SkipReasonNone }

// SkipWith returns a ShouldSkip carrying the given reason.
func SkipWith(reason SkipReason) ShouldSkip { return ShouldSkip{Reason: reason} }

// raise escalates the advice to the given reason, keeping the higher-ranked
// one when a reason is already set.
func (s *ShouldSkip) raise(reason SkipReason) {
	if reason > s.Reason {
		s.Reason = reason
		s.Message = ""
	}
}

// CaseStatus is the per-case execution outcome.
type CaseStatus string

const (
	CaseStatusNotRun  CaseStatus = "not-run"
	CaseStatusRunning CaseStatus = "running"
	CaseStatusPass    CaseStatus = "pass"
	CaseStatusFail    CaseStatus = "fail"
	// CaseStatusError means the driver invocation itself errored (spawn or
	// I/O failure), as opposed to the case running and reporting failure.
	CaseStatusError  CaseStatus = "error"
	CaseStatusSkip   CaseStatus = "skip"
	CaseStatusDryRun CaseStatus = "dry-run"
)

// Terminal reports whether the status closes the case's duration interval.
func (s CaseStatus) Terminal() bool {
	switch s {
	case CaseStatusNotRun, CaseStatusRunning:
		return false
	default:
		return true
	}
}
