// Package metrics exposes Prometheus counters for test executions.
package metrics

import (
	"regexp"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"batrun/suite"
)

const MetricsNamespace = "batrun"

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	caseResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "case_results_total",
		Help:      "Count of test case executions by result",
	}, []string{
		"suite",
		"run_id",
		"target",
		"result",
	})

	runResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_results",
		Help:      "Result of suite runs",
	}, []string{
		"suite",
		"run_id",
		"result",
	})

	runCaseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_case_total",
		Help:      "Total number of case executions in a run",
	}, []string{
		"suite",
		"run_id",
	})

	runDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of suite runs",
	}, []string{
		"suite",
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label.
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(label string) {
	errorsTotal.WithLabelValues(label).Inc()
}

// RecordErrorDetails concats the error message to the label and cleans it
// into a valid Prometheus label.
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	RecordError(label + "." + errToLabel(err))
}

// RecordCaseResult counts one finished case execution.
func RecordCaseResult(suiteName, runID, target string, status suite.CaseStatus) {
	caseResultsTotal.WithLabelValues(suiteName, runID, target, string(status)).Inc()
}

// RecordRun records the aggregate outcome of one suite run.
func RecordRun(suiteName, runID, result string, totalCases int, duration time.Duration) {
	runResults.WithLabelValues(suiteName, runID, result).Set(1)
	runCaseTotal.WithLabelValues(suiteName, runID).Add(float64(totalCases))
	runDuration.WithLabelValues(suiteName, runID).Set(duration.Seconds())
}
