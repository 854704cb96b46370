package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batrun/suite"
)

func writeScript(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
}

func sampleSuiteDir(t *testing.T) (string, *suite.Config) {
	t.Helper()
	dir := t.TempDir()

	writeScript(t, dir, "fixture.sh", `
setup() { echo "global setup for $1"; }
teardown() { echo "global teardown"; }
`)
	writeScript(t, dir, "alpha_test.sh", `
setup() { echo "alpha setup"; }
teardown() { echo "alpha teardown"; }
test_echo() { echo "hello from $1"; }
test_fail() { echo "about to fail"; return 1; }
test_skip() { echo "not supported on $1"; exit 77; }
`)
	writeScript(t, dir, "beta_test.sh", `
test_beta_only() { :; }
`)
	writeScript(t, dir, "helper.bash", `
helper_fn() { :; }
`)

	cfg := &suite.Config{
		Name:          "sample",
		Driver:        "bash",
		GlobalFixture: "fixture.sh",
		TestFilePatterns: []string{
			"*_test.sh",
		},
	}
	return dir, cfg
}

func TestBashDiscover(t *testing.T) {
	dir, cfg := sampleSuiteDir(t)

	s, err := NewBashDriver().Discover(dir, cfg)
	require.NoError(t, err)

	require.NotNil(t, s.Fixture().Setup)
	assert.Equal(t, "fixture.sh::setup", s.Fixture().Setup.ID())
	require.NotNil(t, s.Fixture().Teardown)
	assert.Equal(t, "fixture.sh::teardown", s.Fixture().Teardown.ID())

	files := s.Files()
	require.Len(t, files, 2, "helper.bash does not match the configured patterns")

	alpha := files[0]
	require.NotNil(t, alpha.Setup)
	assert.Equal(t, "alpha_test.sh::setup", alpha.Setup.ID())
	require.NotNil(t, alpha.Teardown)
	assert.Equal(t, "alpha_test.sh::teardown", alpha.Teardown.ID())
	var names []string
	for _, c := range alpha.Cases {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"test_echo", "test_fail", "test_skip"}, names)

	beta := files[1]
	assert.Nil(t, beta.Setup)
	assert.Nil(t, beta.Teardown)
	require.Len(t, beta.Cases, 1)
	assert.Equal(t, "beta_test.sh::test_beta_only", beta.Cases[0].ID())
}

func TestBashDiscoverWithoutFixture(t *testing.T) {
	dir, cfg := sampleSuiteDir(t)
	cfg.GlobalFixture = ""

	s, err := NewBashDriver().Discover(dir, cfg)
	require.NoError(t, err)
	assert.Nil(t, s.Fixture().Setup)
	assert.Nil(t, s.Fixture().Teardown)
	// Without the fixture exclusion, fixture.sh still fails the patterns.
	assert.Len(t, s.Files(), 2)
}

func TestBashRunPass(t *testing.T) {
	dir, cfg := sampleSuiteDir(t)
	outDir := t.TempDir()

	tc := &suite.TestCase{Path: "alpha_test.sh", Name: "test_echo"}
	res, err := NewBashDriver().Run(context.Background(), dir, cfg, "devnet", tc, outDir)
	require.NoError(t, err)
	assert.Equal(t, suite.CaseStatusPass, res.Status)

	clean, err := os.ReadFile(filepath.Join(outDir, "test_echo.log"))
	require.NoError(t, err)
	assert.Contains(t, string(clean), "hello from devnet")
	assert.NotContains(t, string(clean), "\n+ ", "xtrace lines must be filtered from the clean log")

	debug, err := os.ReadFile(filepath.Join(outDir, "test_echo.debug.log"))
	require.NoError(t, err)
	assert.Contains(t, string(debug), "+ echo", "raw log keeps the xtrace output")
}

func TestBashRunFail(t *testing.T) {
	dir, cfg := sampleSuiteDir(t)
	outDir := t.TempDir()

	tc := &suite.TestCase{Path: "alpha_test.sh", Name: "test_fail"}
	res, err := NewBashDriver().Run(context.Background(), dir, cfg, "devnet", tc, outDir)
	require.NoError(t, err, "a failing case is a result, not a runner failure")
	assert.Equal(t, suite.CaseStatusFail, res.Status)
	assert.Contains(t, res.Output, "about to fail")
}

func TestBashRunSkip(t *testing.T) {
	dir, cfg := sampleSuiteDir(t)
	outDir := t.TempDir()

	tc := &suite.TestCase{Path: "alpha_test.sh", Name: "test_skip"}
	res, err := NewBashDriver().Run(context.Background(), dir, cfg, "devnet", tc, outDir)
	require.NoError(t, err)
	assert.Equal(t, suite.CaseStatusSkip, res.Status)
	assert.Equal(t, "not supported on devnet", res.SkipMessage)
}

func TestBashRunnerFailure(t *testing.T) {
	dir, cfg := sampleSuiteDir(t)
	outDir := t.TempDir()

	d := &BashDriver{Shell: filepath.Join(dir, "no-such-shell")}
	tc := &suite.TestCase{Path: "alpha_test.sh", Name: "test_echo"}
	_, err := d.Run(context.Background(), dir, cfg, "devnet", tc, outDir)
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
}

func TestBashRunSourcesGlobalFixture(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "fixture.sh", `
shared_value() { echo "from-fixture"; }
`)
	writeScript(t, dir, "uses_fixture_test.sh", `
test_uses_fixture() { [ "$(shared_value)" = "from-fixture" ]; }
`)
	cfg := &suite.Config{Driver: "bash", GlobalFixture: "fixture.sh"}

	tc := &suite.TestCase{Path: "uses_fixture_test.sh", Name: "test_uses_fixture"}
	res, err := NewBashDriver().Run(context.Background(), dir, cfg, "devnet", tc, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, suite.CaseStatusPass, res.Status)
}

func TestIsXtraceLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"+ echo hello", true},
		{"++ nested command", true},
		{"+[TRACE] marker", true},
		{"+no space", false},
		{"plain output", false},
		{"", false},
		{" + indented plus", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isXtraceLine(tt.line), "line %q", tt.line)
	}
}

func TestLastOutputLine(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"single line", "skipped: no gpu\n", "skipped: no gpu"},
		{"trailing xtrace ignored", "real reason\n+ exit 77\n", "real reason"},
		{"ansi stripped", "\x1b[31mcolored reason\x1b[0m\n", "colored reason"},
		{"empty", "\n\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lastOutputLine(tt.output))
		})
	}
}

func TestRegistryDrivers(t *testing.T) {
	r := NewRegistry()

	d, err := r.Get("bash")
	require.NoError(t, err)
	assert.Equal(t, "bash", d.Name())

	_, err = r.Get("python")
	var unknownErr *UnknownDriverError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "python", unknownErr.Name)
}
