package suite

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFilename is the suite configuration file expected at the root of
// every suite directory.
const ConfigFilename = "suite.yaml"

// Config is the parsed suite configuration.
type Config struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Version     string `yaml:"version,omitempty"`
	// Driver names the test driver to discover and run this suite with.
	Driver string `yaml:"driver"`
	// TestFilePatterns are globs matched against file paths relative to the
	// suite directory. Empty means the driver's defaults.
	TestFilePatterns []string `yaml:"test-file-patterns,omitempty"`
	// GlobalFixture is the optional suite-level fixture file, relative to
	// the suite directory. It is excluded from test file discovery.
	GlobalFixture string `yaml:"global-fixture,omitempty"`
	// Targets are the target names the suite supports.
	Targets []string `yaml:"targets"`
}

// LoadConfig reads and parses the suite configuration from suiteDir.
func LoadConfig(suiteDir string) (Config, error) {
	cfgPath := filepath.Join(suiteDir, ConfigFilename)
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return Config{}, &ConfigIOError{Filename: cfgPath, Err: err}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &ConfigParseError{Filename: cfgPath, Err: err}
	}
	if cfg.Driver == "" {
		return Config{}, &ConfigParseError{Filename: cfgPath, Err: fmt.Errorf("missing required field %q", "driver")}
	}
	return cfg, nil
}

// ConfigIOError reports that a suite config file could not be read.
type ConfigIOError struct {
	Filename string
	Err      error
}

func (e *ConfigIOError) Error() string {
	return fmt.Sprintf("cannot read the test suite config file %q: %v", e.Filename, e.Err)
}

func (e *ConfigIOError) Unwrap() error { return e.Err }

// ConfigParseError reports an invalid suite config file.
type ConfigParseError struct {
	Filename string
	Err      error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("invalid test suite config file %q: %v", e.Filename, e.Err)
}

func (e *ConfigParseError) Unwrap() error { return e.Err }
