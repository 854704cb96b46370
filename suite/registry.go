package suite

import "fmt"

// Registry holds the suites loaded for one run, keyed by suite directory.
type Registry struct {
	suites map[string]*Suite
}

func NewRegistry() *Registry {
	return &Registry{suites: make(map[string]*Suite)}
}

// Get returns the suite loaded from suiteDir.
func (r *Registry) Get(suiteDir string) (*Suite, error) {
	s, ok := r.suites[suiteDir]
	if !ok {
		return nil, &UnknownSuiteError{SuiteDir: suiteDir}
	}
	return s, nil
}

func (r *Registry) Insert(suiteDir string, s *Suite) {
	r.suites[suiteDir] = s
}

// UnknownSuiteError reports a lookup for a suite directory that was never
// loaded (or whose load failed).
type UnknownSuiteError struct {
	SuiteDir string
}

func (e *UnknownSuiteError) Error() string {
	return fmt.Sprintf("unknown test suite at %q", e.SuiteDir)
}
