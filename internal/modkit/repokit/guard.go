package repokit

import (
	"context"
	"fmt"
	"time"
)

// Guarder is anything that can check its dependencies, store.Store satisfies it
type Guarder interface {
	Guard(context.Context) error
}

// DefaultGuardTimeout bounds MustGuard when ctx carries no deadline
const DefaultGuardTimeout = 5 * time.Second

// MustGuard runs Guard and panics on any error, used at process startup
func MustGuard(ctx context.Context, g Guarder) {
	if g == nil {
		panic("repokit: nil guard")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultGuardTimeout)
		defer cancel()
	}
	if err := g.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
