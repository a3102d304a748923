package view

import (
	"context"
	"sync"
	"time"
)

const DefaultSearchDebounce = 300 * time.Millisecond

// Debouncer runs only the latest of a burst of calls. A call that is
// superseded before its delay elapses, or while its run is in flight,
// has its result dropped.
type Debouncer[T any] struct {
	delay time.Duration

	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	results  chan T
	runQuery func(ctx context.Context, query string) (T, error)
	onError  func(query string, err error)
}

func NewDebouncer[T any](delay time.Duration, run func(ctx context.Context, query string) (T, error)) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{
		delay:    delay,
		results:  make(chan T, 1),
		runQuery: run,
	}
}

// OnError sets a handler for failures of the latest call.
func (d *Debouncer[T]) OnError(fn func(query string, err error)) {
	d.mu.Lock()
	d.onError = fn
	d.mu.Unlock()
}

// Results delivers the outcome of each call that was still the latest
// when it finished. A newer result replaces one that was not yet read.
func (d *Debouncer[T]) Results() <-chan T {
	return d.results
}

// Trigger schedules query, superseding any pending or running call.
func (d *Debouncer[T]) Trigger(ctx context.Context, query string) {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	if d.cancel != nil {
		d.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.mu.Unlock()

	go d.run(runCtx, seq, query)
}

// Stop cancels whatever is pending.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Debouncer[T]) run(ctx context.Context, seq uint64, query string) {
	timer := time.NewTimer(d.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	result, err := d.runQuery(ctx, query)

	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		return
	}
	if err != nil {
		handler := d.onError
		d.mu.Unlock()
		// The handler runs unlocked so it may call Trigger.
		if handler != nil && ctx.Err() == nil {
			handler(query, err)
		}
		return
	}
	defer d.mu.Unlock()
	select {
	case <-d.results:
	default:
	}
	d.results <- result
}
