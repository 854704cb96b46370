package suite

// visitState is the visitor's position in the suite walk:
//
//	SuiteSetup → FileSetup → TestCase* → FileTeardown ─┬→ FileSetup (next file)
//	                                                   └→ SuiteTeardown → Done
//
// Aborted is a terminal state reserved for fatal abort handling; the engine
// itself never enters it.
type visitState int

const (
	stateSuiteSetup visitState = iota
	stateFileSetup
	stateTestCase
	stateFileTeardown
	stateSuiteTeardown
	stateDone
	stateAborted
)

// VisitFunc receives one test case together with the skip advice in effect
// for it. A non-nil error reports that the case failed; the visitor uses it
// on setup steps to raise the corresponding skip flag and ignores it
// everywhere else.
type VisitFunc func(tc *TestCase, skip ShouldSkip) error

// Visitor walks a suite one test case per step, in canonical order, keeping
// the skip state as two-level sticky flags: a suite-scoped flag raised by a
// suite setup failure (never cleared for the rest of the traversal) and a
// file-scoped flag raised by a file setup failure (cleared at the next
// file's setup step). The single-step contract is what lets the execution
// strategies interleave several targets' traversals without threads.
type Visitor struct {
	suite      *Suite
	state      visitState
	fileIdx    int
	caseIdx    int
	shouldSkip ShouldSkip
}

// NewVisitor returns a visitor positioned before the suite setup step.
func NewVisitor(s *Suite) *Visitor {
	return &Visitor{suite: s, state: stateSuiteSetup}
}

// VisitNext advances the traversal by exactly one step, invoking f for the
// step's test case if the step has one. It returns done=true once the
// traversal is complete; from then on every call is a no-op reporting
// completion. The error is f's error for the step, passed through unchanged.
func (v *Visitor) VisitNext(f VisitFunc) (done bool, err error) {
	switch v.state {
	case stateSuiteSetup:
		err = v.visitSuiteSetup(f)
	case stateFileSetup:
		err = v.visitFileSetup(f)
	case stateTestCase:
		err = v.visitTestCase(f)
	case stateFileTeardown:
		err = v.visitFileTeardown(f)
	case stateSuiteTeardown:
		err = v.visitSuiteTeardown(f)
	default:
		// Done and Aborted are termination points.
		return true, nil
	}
	return false, err
}

// VisitAll drives the traversal to completion.
func (v *Visitor) VisitAll(f VisitFunc) {
	for {
		if done, _ := v.VisitNext(f); done {
			return
		}
	}
}

// VisitAllCases runs a full traversal of its own, invoking f for every case
// in canonical order. Used for listings and for pre-run bookkeeping.
func VisitAllCases(s *Suite, f func(tc *TestCase, skip ShouldSkip)) {
	NewVisitor(s).VisitAll(func(tc *TestCase, skip ShouldSkip) error {
		f(tc, skip)
		return nil
	})
}

func (v *Visitor) visitSuiteSetup(f VisitFunc) error {
	var err error
	if tc := v.suite.fixture.Setup; tc != nil {
		if err = f(tc, v.shouldSkip); err != nil {
			v.shouldSkip.raise(SkipReasonSuiteSetupError)
		}
	}
	v.fileIdx = 0
	v.state = stateFileSetup
	return err
}

func (v *Visitor) visitFileSetup(f VisitFunc) error {
	// Clear the file-scoped flag left over from the previous file. The
	// suite-scoped flag outranks it and is never cleared here.
	if v.shouldSkip.Reason == SkipReasonFileSetupError {
		v.shouldSkip = ShouldSkip{}
	}
	var err error
	if v.fileIdx < len(v.suite.files) {
		file := &v.suite.files[v.fileIdx]
		v.caseIdx = 0
		if tc := file.Setup; tc != nil {
			if err = f(tc, v.shouldSkip); err != nil {
				v.shouldSkip.raise(SkipReasonFileSetupError)
			}
		}
	}
	v.state = stateTestCase
	return err
}

func (v *Visitor) visitTestCase(f VisitFunc) error {
	if v.fileIdx < len(v.suite.files) {
		file := &v.suite.files[v.fileIdx]
		if v.caseIdx < len(file.Cases) {
			tc := &file.Cases[v.caseIdx]
			v.caseIdx++
			// Test case failures never raise a flag; only setup failures do.
			return f(tc, v.shouldSkip)
		}
	}
	v.state = stateFileTeardown
	return nil
}

func (v *Visitor) visitFileTeardown(f VisitFunc) error {
	var err error
	if v.fileIdx < len(v.suite.files) {
		file := &v.suite.files[v.fileIdx]
		if tc := file.Teardown; tc != nil {
			err = f(tc, v.shouldSkip)
		}
		v.fileIdx++
		v.state = stateFileSetup
	} else {
		v.state = stateSuiteTeardown
	}
	return err
}

func (v *Visitor) visitSuiteTeardown(f VisitFunc) error {
	var err error
	if tc := v.suite.fixture.Teardown; tc != nil {
		err = f(tc, v.shouldSkip)
	}
	v.state = stateDone
	return err
}
