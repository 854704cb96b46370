package executor

import (
	"context"
	"sync"

	"batrun/driver"
	"batrun/suite"
)

// Parallel runs every target's full sequential-equivalent traversal
// concurrently, one goroutine per target. Context state is partitioned by
// target and the suite model and driver are read-only during execution, so
// the final join is the only synchronization point. Shared fixtures must not
// be mutated concurrently across targets; that is the suite author's
// contract, not something this strategy can enforce.
type Parallel struct{}

// Execute implements Strategy. It joins all workers before returning, after
// which every context's records and statistics are safe to read.
func (Parallel) Execute(ctx context.Context, drv driver.TestDriver, s *suite.Suite, contexts []*Context) error {
	var wg sync.WaitGroup
	for _, ec := range contexts {
		wg.Add(1)
		go func(ec *Context) {
			defer wg.Done()
			// Cancellation is observed between cases; an in-flight case is
			// left at whatever status it last reached.
			_ = runToCompletion(ctx, drv, s, ec)
		}(ec)
	}
	wg.Wait()
	return ctx.Err()
}
