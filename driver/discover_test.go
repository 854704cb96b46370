package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batrun/suite"
)

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		relPath  string
		patterns []string
		want     bool
	}{
		{"smoke_test.sh", []string{"*_test.sh"}, true},
		{"smoke.sh", []string{"*_test.sh"}, false},
		{"nested/smoke_test.sh", []string{"*_test.sh"}, true},
		{"nested/deep/case.bash", []string{"*.sh", "*.bash"}, true},
		{"README.md", []string{"*.sh", "*.bash"}, false},
		{"smoke_test.sh", nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchesPattern(tt.relPath, tt.patterns),
			"path %q patterns %v", tt.relPath, tt.patterns)
	}
}

func TestFilePatternsDefaulting(t *testing.T) {
	d := NewBashDriver()

	cfg := &suite.Config{}
	assert.Equal(t, d.DefaultFilePatterns(), filePatterns(d, cfg))

	cfg.TestFilePatterns = []string{"suite_*.sh"}
	assert.Equal(t, []string{"suite_*.sh"}, filePatterns(d, cfg))
}

func TestDiscoverTestFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"b_test.sh",
		"a_test.sh",
		"nested/c_test.sh",
		"fixture.sh",
		"notes.md",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("# stub\n"), 0o644))
	}

	cfg := &suite.Config{
		GlobalFixture:    "fixture.sh",
		TestFilePatterns: []string{"*_test.sh", "*.sh"},
	}
	files, err := discoverTestFiles(NewBashDriver(), dir, cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"a_test.sh",
		"b_test.sh",
		filepath.Join("nested", "c_test.sh"),
	}, files, "sorted, fixture excluded, non-matching files ignored")
}

func TestDiscoverTestFilesMissingDir(t *testing.T) {
	cfg := &suite.Config{}
	_, err := discoverTestFiles(NewBashDriver(), filepath.Join(t.TempDir(), "gone"), cfg)
	require.Error(t, err)
}
