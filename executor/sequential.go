package executor

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"batrun/driver"
	"batrun/suite"
)

// Sequential runs each target's traversal to completion, in context list
// order, before touching the next target. The total order of side effects is
// fully deterministic.
type Sequential struct{}

// Execute implements Strategy.
func (Sequential) Execute(ctx context.Context, drv driver.TestDriver, s *suite.Suite, contexts []*Context) error {
	for _, ec := range contexts {
		if err := runToCompletion(ctx, drv, s, ec); err != nil {
			return err
		}
	}
	return nil
}

// runToCompletion drives one context's visitor until done, stopping early
// only on context cancellation (between cases, never mid-case).
func runToCompletion(ctx context.Context, drv driver.TestDriver, s *suite.Suite, ec *Context) error {
	tracer := otel.Tracer("batrun/executor")
	ctx, span := tracer.Start(ctx, fmt.Sprintf("target %s", ec.Target()),
		trace.WithAttributes(attribute.String("target", ec.Target())))
	defer span.End()

	visitor := suite.NewVisitor(s)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, _ := visitor.VisitNext(func(tc *suite.TestCase, skip suite.ShouldSkip) error {
			return ec.Run(ctx, drv, tc, skip)
		})
		if done {
			ec.finish()
			return nil
		}
	}
}
