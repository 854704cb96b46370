package reporter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"batrun/suite"
)

// Console is the human-friendly reporter. Per-case results stream as they
// arrive; summaries render per target, or as a case × target matrix when
// MatrixSummary is set.
type Console struct {
	Out           io.Writer
	MatrixSummary bool
}

func NewConsole(matrixSummary bool) *Console {
	return &Console{Out: os.Stdout, MatrixSummary: matrixSummary}
}

func (c *Console) Info(message string) {
	fmt.Fprintf(c.Out, "%s%s\n", color.CyanString("Info: "), message)
}

func (c *Console) Warning(message string) {
	fmt.Fprintf(c.Out, "%s%s\n", color.YellowString("Warning: "), message)
}

func (c *Console) Error(message string) {
	fmt.Fprintf(c.Out, "%s%s\n", color.RedString("Error: "), message)
}

func (c *Console) TargetList(s *suite.Suite) {
	fmt.Fprintf(c.Out, "Targets supported by test suite `%s`\n", s.Path())
	for _, target := range s.Config().Targets {
		fmt.Fprintf(c.Out, "  %s\n", target)
	}
	fmt.Fprintln(c.Out)
}

func (c *Console) TestList(s *suite.Suite) {
	fmt.Fprintf(c.Out, "Tests defined in test suite `%s`\n", s.Path())
	suite.VisitAllCases(s, func(tc *suite.TestCase, _ suite.ShouldSkip) {
		fmt.Fprintf(c.Out, "  %s\n", tc.ID())
	})
	fmt.Fprintln(c.Out)
}

func (c *Console) CaseStarted(tc *suite.TestCase, target string) {
	fmt.Fprintf(c.Out, "Running test case `%s` for target `%s`", tc.ID(), target)
}

func (c *Console) CaseResult(tc *suite.TestCase, target string, status suite.CaseStatus, elapsed time.Duration) {
	fmt.Fprintf(c.Out, " %s\n", statusWord(status))
}

func (c *Console) SuiteSummary(s *suite.Suite, summaries []TargetSummary) {
	if c.MatrixSummary {
		fmt.Fprintln(c.Out)
		fmt.Fprintf(c.Out, "Test suite `%s` execution summary\n", s.Path())
		renderMatrix(c.Out, s, summaries)
		return
	}
	for _, summary := range summaries {
		fmt.Fprintln(c.Out)
		fmt.Fprintf(c.Out, "Test suite `%s` execution summary\n", s.Path())
		fmt.Fprintf(c.Out, "  Target: %s\n", summary.Target)
		fmt.Fprintf(c.Out, "  Status: %s\n", summary.Status)
		fmt.Fprintf(c.Out, "  Statistics: %s passed, %s failed, %s runner failed, %s skipped\n",
			color.GreenString("%d", summary.Passed),
			color.RedString("%d", summary.Failed),
			color.RedString("%d", summary.RunnerFailed),
			color.HiBlackString("%d", summary.Skipped))
	}
}

func (c *Console) TotalTime(elapsed time.Duration) {
	fmt.Fprintln(c.Out)
	fmt.Fprintf(c.Out, "Time elapsed: %s\n", FormatDuration(elapsed))
}

// statusWord renders a terminal status as the colored result word.
func statusWord(status suite.CaseStatus) string {
	switch status {
	case suite.CaseStatusPass:
		return color.GreenString("PASSED")
	case suite.CaseStatusFail:
		return color.RedString("FAILED")
	case suite.CaseStatusError:
		return color.RedString("RUNNER_FAILED")
	case suite.CaseStatusSkip:
		return color.HiBlackString("SKIPPED")
	case suite.CaseStatusDryRun:
		return color.HiBlackString("DRYRUN")
	default:
		return color.HiBlackString(string(status))
	}
}
