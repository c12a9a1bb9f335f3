// Package gate provides a binary open/closed synchronization gate.
//
// A Gate is either open (signalled) or closed (reset). Waiters on a closed
// gate block until the next Signal; waiters on an open gate pass through
// without yielding to the scheduler. Admission is one-shot: a waiter admitted
// by a Signal stays admitted even if the gate is Reset immediately afterwards.
//
// The non-yielding fast path is part of the contract, not an optimization.
// Protocols that chain gate waits across components rely on an open gate
// costing nothing, otherwise every hop would add a scheduling round trip.
package gate

import (
	"context"
	"sync"
)

// Gate is a resettable binary gate. The zero value is not usable; create
// gates with New or NewClosed.
type Gate struct {
	mu   sync.Mutex
	ch   chan struct{}
	open bool
}

// New creates an open gate.
func New() *Gate {
	ch := make(chan struct{})
	close(ch)
	return &Gate{ch: ch, open: true}
}

// NewClosed creates a closed gate.
func NewClosed() *Gate {
	return &Gate{ch: make(chan struct{})}
}

// Signal opens the gate, admitting all current waiters. It is idempotent.
func (g *Gate) Signal() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.open {
		return
	}
	g.open = true
	close(g.ch)
}

// Reset closes the gate. Waiters admitted by an earlier Signal are not
// re-blocked; only waits started after the Reset observe the closed gate.
// It is idempotent.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.open {
		return
	}
	g.open = false
	g.ch = make(chan struct{})
}

// IsOpen reports whether the gate is currently open.
func (g *Gate) IsOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open
}

// Done returns a channel that is closed once the gate opens. If the gate is
// already open the returned channel is closed already. The snapshot is
// one-shot: a later Reset hands out a fresh channel but never re-opens a
// channel returned earlier.
func (g *Gate) Done() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ch
}

// Wait blocks until the gate opens or ctx is done. If the gate is open it
// returns nil immediately without touching a channel, so a caller chaining
// synchronous work after Wait is never forced through the scheduler.
func (g *Gate) Wait(ctx context.Context) error {
	g.mu.Lock()
	if g.open {
		g.mu.Unlock()
		return nil
	}
	ch := g.ch
	g.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
