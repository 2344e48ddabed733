// Package engine bridges to the external desktop calculation tool. The
// tool is a capability, not a library: everything behind the Calculator
// interface can be swapped or stubbed without touching the pipeline.
package engine

import (
	"context"

	"exile-tracker/internal/domain"
)

// Calculator computes derived combat statistics for a build artifact.
// Compute is total: every failure mode converges to zero-valued stats,
// never an error, so callers can treat the engine as optional.
type Calculator interface {
	Compute(ctx context.Context, artifact string) domain.DerivedStats
}

// Registry holds one Calculator per game; the engines are independently
// versioned desktop tools with separate install paths.
type Registry map[domain.Game]Calculator

// For returns the calculator for a game, falling back to a no-op bridge
// when none is configured.
func (r Registry) For(game domain.Game) Calculator {
	if c, ok := r[game]; ok {
		return c
	}
	return noop{}
}

type noop struct{}

func (noop) Compute(context.Context, string) domain.DerivedStats {
	return domain.DerivedStats{}
}
