package executor

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batrun/driver"
	"batrun/suite"
)

func orderingSuite() *suite.Suite {
	return suite.New("/suites/order", suite.Config{Name: "order"},
		[]suite.File{
			{Cases: []suite.TestCase{
				{Path: "a.sh", Name: "test_a1"},
				{Path: "a.sh", Name: "test_a2"},
			}},
			{Cases: []suite.TestCase{
				{Path: "b.sh", Name: "test_b1"},
			}},
		},
		suite.Fixture{},
	)
}

func makeContexts(s *suite.Suite, targets ...string) []*Context {
	contexts := make([]*Context, 0, len(targets))
	for _, target := range targets {
		contexts = append(contexts, NewContext(s, target, ContextConfig{}))
	}
	return contexts
}

func TestForName(t *testing.T) {
	for _, name := range StrategyNames() {
		strategy, err := ForName(StrategyName(name))
		require.NoError(t, err, "strategy %s", name)
		require.NotNil(t, strategy)
	}

	_, err := ForName("warp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warp")
}

func TestSequentialOrder(t *testing.T) {
	s := orderingSuite()
	drv := newFakeDriver()
	contexts := makeContexts(s, "t1", "t2")

	require.NoError(t, Sequential{}.Execute(context.Background(), drv, s, contexts))

	assert.Equal(t, []string{
		"t1/a.sh::test_a1",
		"t1/a.sh::test_a2",
		"t1/b.sh::test_b1",
		"t2/a.sh::test_a1",
		"t2/a.sh::test_a2",
		"t2/b.sh::test_b1",
	}, drv.callList())

	for _, ec := range contexts {
		assert.Equal(t, SuiteStatusFinished, ec.Status())
		assert.Equal(t, Statistics{Passed: 3}, ec.Statistics())
	}
}

func TestRoundRobinInterleavesTargets(t *testing.T) {
	s := orderingSuite()
	drv := newFakeDriver()
	contexts := makeContexts(s, "t1", "t2")

	require.NoError(t, RoundRobin{}.Execute(context.Background(), drv, s, contexts))

	// Identical traversals advance in lockstep, one case per turn.
	assert.Equal(t, []string{
		"t1/a.sh::test_a1",
		"t2/a.sh::test_a1",
		"t1/a.sh::test_a2",
		"t2/a.sh::test_a2",
		"t1/b.sh::test_b1",
		"t2/b.sh::test_b1",
	}, drv.callList())

	for _, ec := range contexts {
		assert.Equal(t, SuiteStatusFinished, ec.Status())
	}
}

func TestRoundRobinFairness(t *testing.T) {
	s := orderingSuite()
	drv := newFakeDriver()
	contexts := makeContexts(s, "t1", "t2", "t3")

	require.NoError(t, RoundRobin{}.Execute(context.Background(), drv, s, contexts))

	// At every prefix of the run, no target is more than one case ahead of
	// any other.
	counts := make(map[string]int)
	for _, call := range drv.callList() {
		target := call[:2]
		counts[target]++
		minC, maxC := counts[target], counts[target]
		for _, c := range counts {
			if c < minC {
				minC = c
			}
			if c > maxC {
				maxC = c
			}
		}
		assert.LessOrEqual(t, maxC-minC, 1, "after %q: %v", call, counts)
	}
}

func TestParallelRunsAllTargets(t *testing.T) {
	s := orderingSuite()
	drv := newFakeDriver()
	contexts := makeContexts(s, "t1", "t2", "t3")

	require.NoError(t, Parallel{}.Execute(context.Background(), drv, s, contexts))

	calls := drv.callList()
	require.Len(t, calls, 9, "every case runs once per target")
	sort.Strings(calls)
	assert.Equal(t, []string{
		"t1/a.sh::test_a1", "t1/a.sh::test_a2", "t1/b.sh::test_b1",
		"t2/a.sh::test_a1", "t2/a.sh::test_a2", "t2/b.sh::test_b1",
		"t3/a.sh::test_a1", "t3/a.sh::test_a2", "t3/b.sh::test_b1",
	}, calls)

	for _, ec := range contexts {
		assert.Equal(t, SuiteStatusFinished, ec.Status())
		assert.Equal(t, Statistics{Passed: 3}, ec.Statistics())
	}
}

func TestParallelPreservesPerTargetOrder(t *testing.T) {
	s := orderingSuite()
	drv := newFakeDriver()
	contexts := makeContexts(s, "t1", "t2")

	require.NoError(t, Parallel{}.Execute(context.Background(), drv, s, contexts))

	perTarget := make(map[string][]string)
	for _, call := range drv.callList() {
		target := call[:2]
		perTarget[target] = append(perTarget[target], call[3:])
	}
	for target, order := range perTarget {
		assert.Equal(t, []string{
			"a.sh::test_a1", "a.sh::test_a2", "b.sh::test_b1",
		}, order, "target %s", target)
	}
}

func TestSequentialStopsOnCancelledContext(t *testing.T) {
	s := orderingSuite()
	drv := newFakeDriver()
	contexts := makeContexts(s, "t1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Sequential{}.Execute(ctx, drv, s, contexts)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, drv.callList())
}

func TestRoundRobinStopsOnCancelledContext(t *testing.T) {
	s := orderingSuite()
	drv := newFakeDriver()
	contexts := makeContexts(s, "t1", "t2")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RoundRobin{}.Execute(ctx, drv, s, contexts)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, drv.callList())
}

// A case failure never stops the traversal: the remaining cases of every
// target still run, for every strategy.
func TestStrategiesContinuePastFailures(t *testing.T) {
	for _, name := range StrategyNames() {
		t.Run(name, func(t *testing.T) {
			s := orderingSuite()
			drv := newFakeDriver()
			drv.results["a.sh::test_a1"] = driver.RunResult{Status: suite.CaseStatusFail}

			strategy, err := ForName(StrategyName(name))
			require.NoError(t, err)

			contexts := makeContexts(s, "t1", "t2")
			require.NoError(t, strategy.Execute(context.Background(), drv, s, contexts))

			require.Len(t, drv.callList(), 6)
			for _, ec := range contexts {
				assert.Equal(t, Statistics{Passed: 2, Failed: 1}, ec.Statistics())
			}
		})
	}
}
