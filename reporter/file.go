package reporter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"batrun/suite"
)

// FileSink persists a plain-text run summary to summary.log in the run
// directory, next to the per-case logs. Streaming notifications are ignored;
// only the end-of-run summary is written.
type FileSink struct {
	runDir  string
	builder strings.Builder
}

func NewFileSink(runDir string) *FileSink {
	return &FileSink{runDir: runDir}
}

func (f *FileSink) Info(string)    {}
func (f *FileSink) Warning(string) {}
func (f *FileSink) Error(string)   {}

func (f *FileSink) TargetList(*suite.Suite) {}
func (f *FileSink) TestList(*suite.Suite)   {}

func (f *FileSink) CaseStarted(*suite.TestCase, string) {}

func (f *FileSink) CaseResult(*suite.TestCase, string, suite.CaseStatus, time.Duration) {}

func (f *FileSink) SuiteSummary(s *suite.Suite, summaries []TargetSummary) {
	fmt.Fprintf(&f.builder, "Test suite `%s` execution summary\n", s.Path())
	for _, summary := range summaries {
		fmt.Fprintf(&f.builder, "\nTarget: %s (%s)\n", summary.Target, summary.Status)
		fmt.Fprintf(&f.builder, "  %d passed, %d failed, %d runner failed, %d skipped\n",
			summary.Passed, summary.Failed, summary.RunnerFailed, summary.Skipped)

		ids := make([]string, 0, len(summary.Cases))
		byID := make(map[string]suite.CaseStatus, len(summary.Cases))
		for tc, status := range summary.Cases {
			ids = append(ids, tc.ID())
			byID[tc.ID()] = status
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(&f.builder, "  %-12s %s\n", byID[id], id)
		}
	}
}

// TotalTime appends the elapsed time and flushes the summary to disk.
// Write failures are reported on stderr rather than failing the run; the
// console summary has already been shown at this point.
func (f *FileSink) TotalTime(elapsed time.Duration) {
	fmt.Fprintf(&f.builder, "\nTime elapsed: %s\n", FormatDuration(elapsed))

	path := filepath.Join(f.runDir, "summary.log")
	if err := os.WriteFile(path, []byte(f.builder.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write summary file %s: %v\n", path, err)
	}
}
