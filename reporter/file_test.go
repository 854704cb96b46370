package reporter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSinkWritesSummary(t *testing.T) {
	runDir := t.TempDir()
	sink := NewFileSink(runDir)

	sink.SuiteSummary(demoSuite(), demoSummaries())
	sink.TotalTime(61 * time.Second)

	data, err := os.ReadFile(filepath.Join(runDir, "summary.log"))
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "Test suite `/suites/demo` execution summary")
	assert.Contains(t, out, "Target: alpha (finished)")
	assert.Contains(t, out, "Target: beta (finished)")
	assert.Contains(t, out, "2 passed, 0 failed, 0 runner failed, 0 skipped")
	assert.Contains(t, out, "a.sh::test_one")
	assert.Contains(t, out, "Time elapsed: 1m 1s")
}
