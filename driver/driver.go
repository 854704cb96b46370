// Package driver defines the test driver contract consumed by the execution
// engine and the registry of available drivers. A driver knows how to
// discover the test cases in a suite directory and how to run one case; the
// engine treats both as opaque, potentially slow operations.
package driver

import (
	"context"
	"fmt"

	"batrun/suite"
)

// RunResult is what a driver reports for a case it managed to execute.
// A driver invocation that could not execute the case at all returns an
// error instead (a "runner failure", distinct from the case failing).
type RunResult struct {
	Status suite.CaseStatus
	// SkipMessage carries the driver-supplied reason when Status is skip.
	SkipMessage string
	// Output is optional driver-specific output, already persisted by the
	// driver to the case's output directory.
	Output string
}

// TestDriver discovers and runs test cases.
type TestDriver interface {
	// Name is the identifier suites select the driver by.
	Name() string

	// DefaultFilePatterns are the globs used when the suite config does not
	// set test-file-patterns.
	DefaultFilePatterns() []string

	// Discover walks the suite directory and returns the suite model with
	// files sorted by path and, within a file, setup first, then test cases
	// in a stable order, then teardown. Duplicate case names within one
	// scope are an error.
	Discover(suiteDir string, cfg *suite.Config) (*suite.Suite, error)

	// Run executes one test case for the given target, writing its logs
	// under outDir. The returned error signals a runner failure.
	Run(ctx context.Context, suiteDir string, cfg *suite.Config, target string, tc *suite.TestCase, outDir string) (RunResult, error)
}

// Registry maps driver names to implementations. The stock registry carries
// the bash driver; hosts may add their own.
type Registry struct {
	drivers map[string]TestDriver
}

// NewRegistry returns a registry with the built-in drivers registered.
func NewRegistry() *Registry {
	r := &Registry{drivers: make(map[string]TestDriver)}
	r.Register(NewBashDriver())
	return r
}

// Register adds a driver, replacing any driver with the same name.
func (r *Registry) Register(d TestDriver) {
	r.drivers[d.Name()] = d
}

// Get returns the driver registered under name.
func (r *Registry) Get(name string) (TestDriver, error) {
	d, ok := r.drivers[name]
	if !ok {
		return nil, &UnknownDriverError{Name: name}
	}
	return d, nil
}

// UnknownDriverError reports a suite config naming a driver that is not
// registered.
type UnknownDriverError struct {
	Name string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown test driver %q", e.Name)
}

// DuplicateCaseError reports two cases with the same name in one scope,
// detected at discovery time.
type DuplicateCaseError struct {
	Path string
	Name string
}

func (e *DuplicateCaseError) Error() string {
	return fmt.Sprintf("multiple test functions named %q in %q", e.Name, e.Path)
}

// IOError reports that the driver's own command could not be executed.
type IOError struct {
	Filename string
	Err      error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("cannot execute test driver command %q: %v", e.Filename, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ExecError reports that a test file could not be loaded by the driver.
type ExecError struct {
	Filename string
	Details  string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("cannot execute test file %q: %s", e.Filename, e.Details)
}
