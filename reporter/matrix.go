package reporter

import (
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"batrun/suite"
)

// Matrix summary glyphs, one per outcome.
const (
	glyphPass       = "V"
	glyphFail       = "X"
	glyphRunnerFail = "O"
	glyphSkip       = ">"
)

// renderMatrix prints the case × target result matrix: one row per test case
// in canonical order, one column per target, with each target's statistics
// in the header.
func renderMatrix(out io.Writer, s *suite.Suite, summaries []TargetSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)

	header := table.Row{"Test case"}
	columns := []table.ColumnConfig{{Name: "Test case", AutoMerge: false}}
	for _, summary := range summaries {
		header = append(header, summary.Target)
		columns = append(columns, table.ColumnConfig{Name: summary.Target, Align: text.AlignCenter})
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(columns)

	suite.VisitAllCases(s, func(tc *suite.TestCase, _ suite.ShouldSkip) {
		row := table.Row{tc.ID()}
		for _, summary := range summaries {
			row = append(row, statusGlyph(summary.Cases[*tc]))
		}
		t.AppendRow(row)
	})

	footer := table.Row{"statistics"}
	for _, summary := range summaries {
		footer = append(footer, formatStats(summary))
	}
	t.AppendFooter(footer)

	t.Render()
}

func statusGlyph(status suite.CaseStatus) string {
	switch status {
	case suite.CaseStatusPass:
		return color.GreenString(glyphPass)
	case suite.CaseStatusFail:
		return color.RedString(glyphFail)
	case suite.CaseStatusError:
		return color.RedString(glyphRunnerFail)
	case suite.CaseStatusSkip, suite.CaseStatusDryRun:
		return color.HiBlackString(glyphSkip)
	default:
		return " "
	}
}

func formatStats(summary TargetSummary) string {
	return color.GreenString("%d", summary.Passed) + "/" +
		color.RedString("%d", summary.Failed) + "/" +
		color.RedString("%d", summary.RunnerFailed) + "/" +
		color.HiBlackString("%d", summary.Skipped)
}
