// Package forkjoin drives splittable parts across a bounded pool of
// goroutines.
//
// Partition splits a root part recursively until every leaf is small enough,
// keeping leaves in index order. Each then runs a function over the leaves
// with at most a given number of concurrent workers; the first error cancels
// the rest.
package forkjoin

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Part is a unit of work that can hand off its lower half.
type Part[P any] interface {
	// Split returns the lower half of the part and keeps the upper half, or
	// reports false when the part cannot be split further.
	Split() (P, bool)

	// Size returns the remaining work, saturating at the maximum uint64.
	Size() uint64
}

// Partition splits root until each leaf has at most grain units of work and
// returns the leaves in order. A grain of zero is treated as one.
func Partition[P Part[P]](root P, grain uint64) []P {
	grain = max(grain, 1)
	var leaves []P
	var walk func(p P)
	walk = func(p P) {
		if p.Size() <= grain {
			leaves = append(leaves, p)
			return
		}
		lower, ok := p.Split()
		if !ok {
			leaves = append(leaves, p)
			return
		}
		walk(lower)
		walk(p)
	}
	walk(root)
	return leaves
}

// Each calls fn for every leaf with at most workers calls in flight. A
// non-positive workers count uses GOMAXPROCS. fn receives the leaf's position
// so results can be gathered in order. The first error cancels ctx for the
// remaining calls and is returned.
func Each[P any](ctx context.Context, leaves []P, workers int, fn func(ctx context.Context, i int, leaf P) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, leaf := range leaves {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i, leaf)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
