package driver

import (
	"io/fs"
	"path/filepath"
	"sort"

	"batrun/suite"
)

// filePatterns returns the suite's configured patterns, or the driver's
// defaults when the config leaves them empty.
func filePatterns(d TestDriver, cfg *suite.Config) []string {
	if len(cfg.TestFilePatterns) > 0 {
		return cfg.TestFilePatterns
	}
	return d.DefaultFilePatterns()
}

// matchesPattern reports whether relPath matches any of the driver's file
// patterns. Patterns are matched against the path's base name as well, so
// "*.sh" finds scripts in subdirectories.
func matchesPattern(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, relPath); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(relPath)); ok {
			return true
		}
	}
	return false
}

// discoverTestFiles walks the suite directory and returns the paths of all
// test files, relative to the suite directory and sorted. The global fixture
// file is never a test file.
func discoverTestFiles(d TestDriver, suiteDir string, cfg *suite.Config) ([]string, error) {
	patterns := filePatterns(d, cfg)
	var files []string
	err := filepath.WalkDir(suiteDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(suiteDir, path)
		if err != nil {
			return err
		}
		if cfg.GlobalFixture != "" && rel == filepath.Clean(cfg.GlobalFixture) {
			return nil
		}
		if matchesPattern(rel, patterns) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
