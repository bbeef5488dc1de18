// Package debounce coalesces rapid input into one evaluation and discards
// results that a newer input has made stale.
package debounce

import (
	"context"
	"sync"
)

// Ticket identifies one unit of work. Its context is cancelled as soon as a
// newer ticket is issued, so in-flight work for stale input stops early.
type Ticket struct {
	Gen uint64
	Ctx context.Context
}

// Gate issues monotonically numbered tickets. Only the latest ticket is current.
type Gate struct {
	mu     sync.Mutex
	parent context.Context
	gen    uint64
	cancel context.CancelFunc
}

// NewGate derives every ticket context from parent.
func NewGate(parent context.Context) *Gate {
	if parent == nil {
		parent = context.Background()
	}
	return &Gate{parent: parent}
}

// Next supersedes the current ticket and returns a new one.
func (g *Gate) Next() Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
	}
	g.gen++
	ctx, cancel := context.WithCancel(g.parent)
	g.cancel = cancel
	return Ticket{Gen: g.gen, Ctx: ctx}
}

// Current reports whether t is the latest ticket.
func (g *Gate) Current(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return t.Gen == g.gen && g.gen != 0
}

// Do runs fn only if t is still current, holding the gate so no newer ticket
// can be issued while fn publishes its result. It reports whether fn ran.
func (g *Gate) Do(t Ticket, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t.Gen != g.gen || g.gen == 0 {
		return false
	}
	fn()
	return true
}

// Stop cancels the current ticket and makes every issued ticket stale.
func (g *Gate) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.gen++
}
