package view

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Composer runs the independent fetches of one view concurrently. Each
// fetch writes only its own slot, and a failed fetch fails only its slot.
// Fetches share ctx, so cancelling the view cancels them all.
type Composer struct {
	parent context.Context
	ctx    context.Context
	group  *errgroup.Group
}

func NewComposer(ctx context.Context) *Composer {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(8)
	return &Composer{parent: ctx, ctx: groupCtx, group: group}
}

// Go runs fn as part of the view. fn's error does not cancel the siblings.
func (c *Composer) Go(fn func(ctx context.Context)) {
	c.group.Go(func() error {
		fn(c.ctx)
		return nil
	})
}

// Wait blocks until every fetch has written its slot. It reports the
// parent context's error when the view was cancelled.
func (c *Composer) Wait() error {
	_ = c.group.Wait()
	return c.parent.Err()
}

// Fetch loads one list slot.
func Fetch[E any](c *Composer, dst *Loadable[[]E], fetch func(ctx context.Context) ([]E, error)) {
	*dst = Loading[[]E]()
	c.Go(func(ctx context.Context) {
		items, err := fetch(ctx)
		if err != nil {
			*dst = Failed[[]E](err)
			return
		}
		*dst = LoadedList(items)
	})
}

// FetchValue loads one value slot. isEmpty decides the empty flag.
func FetchValue[T any](c *Composer, dst *Loadable[T], fetch func(ctx context.Context) (T, error), isEmpty func(T) bool) {
	*dst = Loading[T]()
	c.Go(func(ctx context.Context) {
		value, err := fetch(ctx)
		if err != nil {
			*dst = Failed[T](err)
			return
		}
		empty := false
		if isEmpty != nil {
			empty = isEmpty(value)
		}
		*dst = Loaded(value, empty)
	})
}
