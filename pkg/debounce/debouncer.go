// pkg/debounce/debouncer.go

package debounce

import (
	"context"
	"sync"
	"time"
)

// Debouncer calls fn once input has been quiet for the wait window, with the
// last value triggered. Every Trigger supersedes earlier ones through a Gate,
// so fn can drop its result with Gate().Do when it finishes late.
type Debouncer[T any] struct {
	gate *Gate
	wait time.Duration
	fn   func(Ticket, T)

	mu       sync.Mutex
	timer    *time.Timer
	pending  *call[T]
	inflight sync.WaitGroup
}

type call[T any] struct {
	ticket Ticket
	value  T
}

// New builds a Debouncer. A zero wait calls fn on the next timer tick.
func New[T any](parent context.Context, wait time.Duration, fn func(Ticket, T)) *Debouncer[T] {
	return &Debouncer[T]{gate: NewGate(parent), wait: wait, fn: fn}
}

// Gate exposes the underlying ticket gate.
func (d *Debouncer[T]) Gate() *Gate {
	return d.gate
}

// Trigger records v as the latest input and restarts the quiet window.
func (d *Debouncer[T]) Trigger(v T) Ticket {
	t := d.gate.Next()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = &call[T]{ticket: t, value: v}
	d.timer = time.AfterFunc(d.wait, func() {
		if c := d.take(t); c != nil {
			defer d.inflight.Done()
			d.fn(c.ticket, c.value)
		}
	})
	return t
}

// take claims the pending call for t. The in-flight count is raised under the
// lock so Flush cannot miss it.
func (d *Debouncer[T]) take(t Ticket) *call[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.pending
	if c == nil || c.ticket.Gen != t.Gen || !d.gate.Current(t) {
		return nil
	}
	d.pending = nil
	d.inflight.Add(1)
	return c
}

// Flush runs the pending call now instead of waiting for the quiet window,
// then waits for any call already running. It must not race with Trigger.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	c := d.pending
	d.pending = nil
	d.mu.Unlock()

	if c != nil && d.gate.Current(c.ticket) {
		d.fn(c.ticket, c.value)
	}
	d.inflight.Wait()
}

// Stop cancels pending and in-flight work. Later Triggers still work.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.mu.Unlock()
	d.gate.Stop()
}
