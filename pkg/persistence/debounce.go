package persistence

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a cart write goes out.
const DefaultDebounce = 300 * time.Millisecond

// WriteFunc performs one persistence write.
type WriteFunc func(ctx context.Context) error

// Debouncer collapses bursts of writes into the last one. Each Trigger
// replaces the pending write and restarts the window; the write runs once
// the window passes without another Trigger. Writes never run concurrently.
type Debouncer struct {
	window  time.Duration
	onError func(error)

	mu      sync.Mutex
	timer   *time.Timer
	pending WriteFunc
	gen     uint64
	closed  bool

	// writeMu orders writes: whoever takes pending holds it until the
	// write returns.
	writeMu sync.Mutex
}

// NewDebouncer creates a Debouncer. A non-positive window writes
// synchronously on every Trigger. onError receives failures of timer-driven
// writes and may be nil.
func NewDebouncer(window time.Duration, onError func(error)) *Debouncer {
	return &Debouncer{window: window, onError: onError}
}

// Trigger schedules write, superseding any pending one.
func (d *Debouncer) Trigger(write WriteFunc) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = write

	if d.window <= 0 || d.closed {
		d.mu.Unlock()
		d.run(context.Background(), 0, false)
		return
	}

	gen := d.gen
	d.timer = time.AfterFunc(d.window, func() {
		d.run(context.Background(), gen, true)
	})
	d.mu.Unlock()
}

// Flush runs the pending write now and returns its error.
func (d *Debouncer) Flush(ctx context.Context) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	write := d.take(0, false)
	if write == nil {
		return nil
	}
	return write(ctx)
}

// Pending reports whether a write is waiting for its window.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Close flushes the pending write. Later Triggers write synchronously.
func (d *Debouncer) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return d.Flush(ctx)
}

func (d *Debouncer) run(ctx context.Context, gen uint64, checkGen bool) {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	write := d.take(gen, checkGen)
	if write == nil {
		return
	}
	if err := write(ctx); err != nil && d.onError != nil {
		d.onError(err)
	}
}

// take removes the pending write. With checkGen set it only does so if no
// Trigger happened after generation gen.
func (d *Debouncer) take(gen uint64, checkGen bool) WriteFunc {
	d.mu.Lock()
	defer d.mu.Unlock()

	if checkGen && gen != d.gen {
		return nil
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	write := d.pending
	d.pending = nil
	return write
}
