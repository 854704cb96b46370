package reporter

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"

	"batrun/suite"
)

// Progress renders a live progress bar over the run's total case count
// (cases × targets). It only tracks completion; pair it with another
// reporter via Multi for textual output.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress sizes the bar for total case executions.
func NewProgress(total int) *Progress {
	return &Progress{
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetDescription("running tests"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		),
	}
}

func (p *Progress) Info(string)    {}
func (p *Progress) Warning(string) {}
func (p *Progress) Error(string)   {}

func (p *Progress) TargetList(*suite.Suite) {}
func (p *Progress) TestList(*suite.Suite)   {}

func (p *Progress) CaseStarted(tc *suite.TestCase, target string) {
	p.bar.Describe(fmt.Sprintf("%s @ %s", tc.Name, target))
}

func (p *Progress) CaseResult(tc *suite.TestCase, target string, status suite.CaseStatus, elapsed time.Duration) {
	_ = p.bar.Add(1)
}

func (p *Progress) SuiteSummary(*suite.Suite, []TargetSummary) {}

func (p *Progress) TotalTime(time.Duration) {
	_ = p.bar.Finish()
}
