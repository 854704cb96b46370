package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/acarl005/stripansi"

	"batrun/suite"
)

const (
	bashSetupFn      = "setup"
	bashTeardownFn   = "teardown"
	bashTestFnPrefix = "test_"

	// A test function exiting with this code reports itself as skipped
	// (the automake convention).
	bashSkipExitCode = 77
)

// BashDriver discovers and runs test cases written as bash functions:
// `setup`, `teardown` and `test_*` functions defined in the suite's script
// files. One case is run by sourcing the global fixture file (if any) and
// the case's file, then invoking the function with the target name and the
// case's output directory as arguments.
type BashDriver struct {
	// Shell is the bash binary to invoke, "bash" by default.
	Shell string
}

func NewBashDriver() *BashDriver {
	return &BashDriver{Shell: "bash"}
}

func (d *BashDriver) Name() string { return "bash" }

func (d *BashDriver) DefaultFilePatterns() []string {
	return []string{"*.sh", "*.bash"}
}

// listFunctions sources the file in a bash subshell and returns the declared
// function names matching fnRegex, in compgen's sorted order.
func (d *BashDriver) listFunctions(filePath, fnRegex string) ([]string, error) {
	script := fmt.Sprintf("source '%s'; compgen -A function | grep '%s'", filePath, fnRegex)
	cmd := exec.Command(d.Shell, "-c", script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, &IOError{Filename: d.Shell, Err: err}
		}
		// grep exits non-zero on no match; an otherwise silent failure just
		// means the file declares no matching functions.
		if stdout.Len() == 0 && stderr.Len() == 0 {
			return nil, nil
		}
		return nil, &ExecError{Filename: filePath, Details: strings.TrimSpace(stderr.String())}
	}

	var fns []string
	for _, line := range strings.Split(strings.TrimSpace(stdout.String()), "\n") {
		if line != "" {
			fns = append(fns, line)
		}
	}
	return fns, nil
}

// namedFunction returns the function called fnName in the file, or "" when
// the file does not declare it.
func (d *BashDriver) namedFunction(filePath, fnName string) (string, error) {
	fns, err := d.listFunctions(filePath, fmt.Sprintf("^%s$", fnName))
	if err != nil {
		return "", err
	}
	switch len(fns) {
	case 0:
		return "", nil
	case 1:
		return fns[0], nil
	default:
		// Bash silently overrides duplicate definitions, but compgen output
		// is not guaranteed unique, so keep the check.
		return "", &DuplicateCaseError{Path: filePath, Name: fnName}
	}
}

func (d *BashDriver) suiteFixture(suiteDir string, cfg *suite.Config) (suite.Fixture, error) {
	if cfg.GlobalFixture == "" {
		return suite.Fixture{}, nil
	}
	fixturePath := filepath.Join(suiteDir, cfg.GlobalFixture)
	setup, err := d.namedFunction(fixturePath, bashSetupFn)
	if err != nil {
		return suite.Fixture{}, err
	}
	teardown, err := d.namedFunction(fixturePath, bashTeardownFn)
	if err != nil {
		return suite.Fixture{}, err
	}
	var fixture suite.Fixture
	if setup != "" {
		fixture.Setup = &suite.TestCase{Path: cfg.GlobalFixture, Name: setup}
	}
	if teardown != "" {
		fixture.Teardown = &suite.TestCase{Path: cfg.GlobalFixture, Name: teardown}
	}
	return fixture, nil
}

// Discover implements TestDriver.
func (d *BashDriver) Discover(suiteDir string, cfg *suite.Config) (*suite.Suite, error) {
	fixture, err := d.suiteFixture(suiteDir, cfg)
	if err != nil {
		return nil, err
	}

	relPaths, err := discoverTestFiles(d, suiteDir, cfg)
	if err != nil {
		return nil, err
	}

	var files []suite.File
	for _, relPath := range relPaths {
		filePath := filepath.Join(suiteDir, relPath)

		var file suite.File
		setup, err := d.namedFunction(filePath, bashSetupFn)
		if err != nil {
			return nil, err
		}
		if setup != "" {
			file.Setup = &suite.TestCase{Path: relPath, Name: setup}
		}
		teardown, err := d.namedFunction(filePath, bashTeardownFn)
		if err != nil {
			return nil, err
		}
		if teardown != "" {
			file.Teardown = &suite.TestCase{Path: relPath, Name: teardown}
		}

		testFns, err := d.listFunctions(filePath, "^"+bashTestFnPrefix)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool, len(testFns))
		for _, fn := range testFns {
			if seen[fn] {
				return nil, &DuplicateCaseError{Path: relPath, Name: fn}
			}
			seen[fn] = true
			file.Cases = append(file.Cases, suite.TestCase{Path: relPath, Name: fn})
		}
		files = append(files, file)
	}

	return suite.New(suiteDir, *cfg, files, fixture), nil
}

// Run implements TestDriver. The case's combined output is written raw to
// `{name}.debug.log` and, with xtrace noise and ANSI escapes removed, to
// `{name}.log` in outDir.
func (d *BashDriver) Run(ctx context.Context, suiteDir string, cfg *suite.Config, target string, tc *suite.TestCase, outDir string) (RunResult, error) {
	var script strings.Builder
	if cfg.GlobalFixture != "" {
		fmt.Fprintf(&script, "source '%s'; ", filepath.Join(suiteDir, cfg.GlobalFixture))
	}
	fmt.Fprintf(&script, "source '%s'; ", filepath.Join(suiteDir, tc.Path))
	fmt.Fprintf(&script, "\"%s\" \"%s\" \"%s\"", tc.Name, target, outDir)

	cmd := exec.CommandContext(ctx, d.Shell, "-x", "-c", script.String())
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	runErr := cmd.Run()
	if logErr := d.writeLogs(outDir, tc.Name, output.Bytes()); logErr != nil {
		return RunResult{}, logErr
	}

	if runErr == nil {
		return RunResult{Status: suite.CaseStatusPass}, nil
	}
	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		// The case never ran: a runner failure, not a test failure.
		return RunResult{}, &IOError{Filename: d.Shell, Err: runErr}
	}
	if exitErr.ExitCode() == bashSkipExitCode {
		return RunResult{
			Status:      suite.CaseStatusSkip,
			SkipMessage: lastOutputLine(output.String()),
		}, nil
	}
	return RunResult{Status: suite.CaseStatusFail, Output: output.String()}, nil
}

// writeLogs persists the raw combined output and a cleaned-up copy.
func (d *BashDriver) writeLogs(outDir, caseName string, raw []byte) error {
	debugPath := filepath.Join(outDir, caseName+".debug.log")
	if err := os.WriteFile(debugPath, raw, 0o644); err != nil {
		return &IOError{Filename: debugPath, Err: err}
	}

	var clean strings.Builder
	for _, line := range strings.Split(string(raw), "\n") {
		if isXtraceLine(line) {
			continue
		}
		clean.WriteString(stripansi.Strip(line))
		clean.WriteByte('\n')
	}
	logPath := filepath.Join(outDir, caseName+".log")
	if err := os.WriteFile(logPath, []byte(clean.String()), 0o644); err != nil {
		return &IOError{Filename: logPath, Err: err}
	}
	return nil
}

// isXtraceLine reports whether the line is bash xtrace output: one or more
// leading '+' characters followed by the trace marker.
func isXtraceLine(line string) bool {
	if !strings.HasPrefix(line, "+") {
		return false
	}
	rest := strings.TrimLeft(line, "+")
	return strings.HasPrefix(rest, " ") || strings.HasPrefix(rest, "[TRACE]")
}

// lastOutputLine returns the last non-empty line of the case's output,
// used as the driver-supplied skip message.
func lastOutputLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(stripansi.Strip(lines[i])); line != "" && !isXtraceLine(line) {
			return line
		}
	}
	return ""
}
