package reconcile

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Group coalesces concurrent calls that share a key: while one call for a key is
// in flight, later callers wait for it and receive its result.
type Group[V any] struct {
	sf singleflight.Group
}

// Do runs fn once per key for all callers arriving while it is in flight.
// A caller whose ctx ends first returns ctx.Err() without cancelling fn,
// which keeps running for the callers still waiting on it.
func (g *Group[V]) Do(ctx context.Context, key string, fn func() (V, error)) (V, error) {
	if err := ctx.Err(); err != nil {
		var zero V
		return zero, err
	}

	ch := g.sf.DoChan(key, func() (interface{}, error) {
		return fn()
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Forget drops any in-flight record for key so the next call runs fn again.
func (g *Group[V]) Forget(key string) {
	g.sf.Forget(key)
}
