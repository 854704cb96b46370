package executor

import (
	"context"

	"batrun/driver"
	"batrun/suite"
)

// RoundRobin advances every target's traversal by one step per turn: the
// front of the queue runs a single case, then rotates to the back, so no
// target falls more than one pending case behind another. Within a target
// the case order is identical to Sequential. Everything runs on the calling
// goroutine; suspension is explicit and per-step, not preemptive.
type RoundRobin struct{}

// Execute implements Strategy.
func (RoundRobin) Execute(ctx context.Context, drv driver.TestDriver, s *suite.Suite, contexts []*Context) error {
	type pending struct {
		ec      *Context
		visitor *suite.Visitor
	}

	queue := make([]*pending, 0, len(contexts))
	for _, ec := range contexts {
		queue = append(queue, &pending{ec: ec, visitor: suite.NewVisitor(s)})
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := queue[0]
		queue = queue[1:]

		done, _ := p.visitor.VisitNext(func(tc *suite.TestCase, skip suite.ShouldSkip) error {
			return p.ec.Run(ctx, drv, tc, skip)
		})
		if done {
			p.ec.finish()
			continue
		}
		queue = append(queue, p)
	}
	return nil
}
