package bnk

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minShard is the smallest number of objects handed to one goroutine.
const minShard = 256

// AllObjects returns deep copies of every object in file order.
func (h *HierarchyChunk) AllObjects() []Object {
	objs, _ := Filter(context.Background(), h, func(Object) bool { return true })
	return objs
}

// Collect returns deep copies of every object of type T in file order.
func Collect[T Object](ctx context.Context, h *HierarchyChunk) ([]T, error) {
	return Filter(ctx, h, func(T) bool { return true })
}

// Filter returns deep copies of the objects of type T accepted by keep, in
// file order. The hierarchy is split into shards scanned concurrently; keep
// must not modify its argument.
func Filter[T Object](ctx context.Context, h *HierarchyChunk, keep func(T) bool) ([]T, error) {
	if h == nil || len(h.Objects) == 0 {
		return nil, nil
	}

	objects := h.Objects
	workers := runtime.GOMAXPROCS(0)
	shardSize := max(minShard, (len(objects)+workers-1)/workers)
	shards := make([][]T, (len(objects)+shardSize-1)/shardSize)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range shards {
		lo := i * shardSize
		hi := min(lo+shardSize, len(objects))

		g.Go(func() error {
			var found []T

			for _, obj := range objects[lo:hi] {
				if err := ctx.Err(); err != nil {
					return err
				}

				v, ok := obj.Object.(T)
				if !ok || !keep(v) {
					continue
				}

				c, _ := v.cloneObject().(T)
				found = append(found, c)
			}

			shards[i] = found

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []T
	for _, s := range shards {
		out = append(out, s...)
	}

	return out, nil
}

// Find returns a copy of the first object of type T accepted by match.
func Find[T Object](h *HierarchyChunk, match func(T) bool) (T, bool) {
	var zero T

	if h == nil {
		return zero, false
	}

	for _, obj := range h.Objects {
		v, ok := obj.Object.(T)
		if ok && match(v) {
			c, _ := v.cloneObject().(T)
			return c, true
		}
	}

	return zero, false
}

// CountByType tallies the objects per tag.
func (h *HierarchyChunk) CountByType() map[ObjectType]int {
	counts := make(map[ObjectType]int)
	if h == nil {
		return counts
	}

	for _, obj := range h.Objects {
		counts[obj.Header.Type]++
	}

	return counts
}
