// Package suite holds the immutable model of a discovered test suite and the
// visitor that walks it in canonical execution order.
package suite

import "fmt"

// Suite is the full hierarchical test definition for one suite directory.
// It is built once by a test driver's discovery step and read-only afterwards;
// execution bookkeeping lives in the executor package.
type Suite struct {
	path    string // absolute path of the suite directory
	config  Config
	fixture Fixture
	files   []File
}

// New assembles a suite from discovery output. Files must already be sorted
// by path and test cases ordered by the driver's convention.
func New(path string, config Config, files []File, fixture Fixture) *Suite {
	return &Suite{
		path:    path,
		config:  config,
		fixture: fixture,
		files:   files,
	}
}

func (s *Suite) Path() string    { return s.path }
func (s *Suite) Config() *Config { return &s.config }
func (s *Suite) Fixture() *Fixture { return &s.fixture }
func (s *Suite) Files() []File   { return s.files }

// Fixture is a setup/teardown pair scoped to the whole suite or to one file.
// Either case may be absent; absence is simply not visited.
type Fixture struct {
	Setup    *TestCase
	Teardown *TestCase
}

// File is one discovered test file: an optional local fixture plus its test
// cases in declaration order.
type File struct {
	Setup    *TestCase
	Teardown *TestCase
	Cases    []TestCase
}

// TestCase identifies one runnable unit by (relative file path, name).
// It is an immutable value and usable as a map key.
type TestCase struct {
	Path string // file path relative to the suite directory
	Name string
}

// ID returns the canonical "path::name" identity string.
func (tc TestCase) ID() string {
	return fmt.Sprintf("%s::%s", tc.Path, tc.Name)
}
