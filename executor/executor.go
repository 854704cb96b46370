package executor

import (
	"context"
	"fmt"

	"batrun/driver"
	"batrun/suite"
)

// StrategyName selects how the per-target traversals are interleaved.
type StrategyName string

const (
	StrategySequential StrategyName = "sequential"
	StrategyRoundRobin StrategyName = "round-robin"
	StrategyParallel   StrategyName = "parallel"
)

// StrategyNames lists the accepted --exec-strategy values.
func StrategyNames() []string {
	return []string{string(StrategySequential), string(StrategyRoundRobin), string(StrategyParallel)}
}

// Strategy drives every context's traversal over the suite to completion.
// Implementations differ only in interleaving policy: per-target skip
// semantics always come from the visitor, and a case or runner failure never
// aborts other cases, files or targets.
type Strategy interface {
	Execute(ctx context.Context, drv driver.TestDriver, s *suite.Suite, contexts []*Context) error
}

// ForName returns the strategy registered under name.
func ForName(name StrategyName) (Strategy, error) {
	switch name {
	case StrategySequential:
		return &Sequential{}, nil
	case StrategyRoundRobin:
		return &RoundRobin{}, nil
	case StrategyParallel:
		return &Parallel{}, nil
	default:
		return nil, fmt.Errorf("unknown execution strategy %q", name)
	}
}
