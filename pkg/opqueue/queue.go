package opqueue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-opqueue/pkg/datastructs/queue"
	"github.com/huynhanx03/go-opqueue/pkg/gate"
)

// Operation is a caller-supplied unit of work. It receives the context the
// queue was created with and returns a value or an error.
type Operation func(ctx context.Context) (any, error)

// entry pairs an operation with its result future. It is consumed exactly
// once by the run loop, then discarded.
type entry struct {
	op  Operation
	fut *Future
}

// iteration is one prepared run-loop cycle: the dequeued entry plus the
// dependency gate channels captured at the cycle transition.
type iteration struct {
	ent   *entry
	waits []<-chan struct{}
}

// transitionMu serializes the begin-of-cycle step (closing a queue's gates
// and snapshotting its dependencies' gates) across all queues in the
// process. The dependency protocol's liveness depends on close-and-check
// being atomic: without it, two Interleave partners could each close their
// own gate and then capture the other's already-closed gate, waiting
// forever. It is held only for non-blocking bookkeeping.
var transitionMu sync.Mutex

var queueSeq atomic.Uint64

const defaultPendingCapacity = 16

// Options configures an OperationQueue. The zero value is usable.
type Options struct {
	// Name identifies the queue in log output. Generated when empty.
	Name string

	// Logger receives debug-level lifecycle events. Defaults to a nop logger.
	Logger *zap.Logger

	// Context is passed to operations and bounds dependency waits. When it
	// is cancelled, remaining operations resolve with the context error.
	// Defaults to context.Background(), i.e. no cancellation.
	Context context.Context
}

// OperationQueue runs enqueued operations strictly one at a time, in
// submission order. All state is private and mutated only through the public
// API and the queue's own run loop; other queues interact with it purely by
// waiting on its completion gates.
type OperationQueue struct {
	name string
	log  *zap.Logger
	ctx  context.Context

	mu      sync.Mutex
	pending *queue.Ring[*entry]
	deps    map[*OperationQueue]DependencyMode
	running bool // desired run state; false means suspended
	active  bool // run-loop goroutine is alive

	// currentDone is open whenever no operation is in flight; allDone is
	// open whenever the pending list is drained and nothing is in flight.
	// Both start open: an empty queue is vacuously done.
	currentDone *gate.Gate
	allDone     *gate.Gate
}

// New creates an empty, idle queue. Both completion signals start open.
func New(opts Options) *OperationQueue {
	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("opqueue-%d", queueSeq.Add(1))
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	return &OperationQueue{
		name:        name,
		log:         log.With(zap.String("queue", name)),
		ctx:         ctx,
		pending:     queue.NewRing[*entry](defaultPendingCapacity),
		deps:        make(map[*OperationQueue]DependencyMode),
		currentDone: gate.New(),
		allDone:     gate.New(),
	}
}

// Name returns the queue's name.
func (q *OperationQueue) Name() string {
	return q.name
}

// Enqueue appends op to the tail of the pending list and returns a Future
// for its result. It never blocks: if the queue is idle the run loop is
// (re)started, and by the time Enqueue returns both completion gates are
// closed, so a caller immediately waiting on them observes the new work.
func (q *OperationQueue) Enqueue(op Operation) *Future {
	ent := &entry{op: op, fut: newFuture()}

	q.mu.Lock()
	q.pending.Enqueue(ent)
	q.running = true
	start := !q.active
	if start {
		q.active = true
	}
	q.mu.Unlock()

	q.log.Debug("operation enqueued", zap.Bool("starting", start))

	if start {
		if it, ok := q.begin(); ok {
			go q.run(it)
		}
	}
	return ent.fut
}

// AwaitCurrent blocks until the in-flight operation, if any, has finished.
// When nothing is in flight it returns nil immediately without yielding.
func (q *OperationQueue) AwaitCurrent(ctx context.Context) error {
	return q.currentDone.Wait(ctx)
}

// AwaitAll blocks until every operation enqueued so far has finished and the
// pending list is empty. When the queue is already drained it returns nil
// immediately without yielding.
func (q *OperationQueue) AwaitAll(ctx context.Context) error {
	return q.allDone.Wait(ctx)
}

// CurrentDone returns a channel closed once the in-flight operation, if any,
// has finished. Closed already when nothing is in flight.
func (q *OperationQueue) CurrentDone() <-chan struct{} {
	return q.currentDone.Done()
}

// AllDone returns a channel closed once the queue has drained. Closed
// already when the queue is idle.
func (q *OperationQueue) AllDone() <-chan struct{} {
	return q.allDone.Done()
}

// Clear drops every pending, not-yet-started entry and suspends the queue.
// An operation already in flight runs to completion and resolves its own
// Future and the completion signals. Futures of dropped entries never
// resolve.
func (q *OperationQueue) Clear() {
	q.mu.Lock()
	dropped := q.pending.Len()
	q.pending.Clear()
	q.running = false
	idle := !q.active
	q.mu.Unlock()

	if idle {
		// Nothing in flight and nothing pending: vacuously drained.
		q.allDone.Signal()
	}

	q.log.Debug("queue cleared", zap.Int("dropped", dropped))
}

// Suspend stops the queue from starting further operations. The in-flight
// operation, if any, is not interrupted. Idempotent.
func (q *OperationQueue) Suspend() {
	q.mu.Lock()
	q.running = false
	q.mu.Unlock()

	q.log.Debug("queue suspended")
}

// Resume restarts a suspended queue. Idempotent: a running queue is left
// alone.
func (q *OperationQueue) Resume() {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	start := !q.active
	if start {
		q.active = true
	}
	q.mu.Unlock()

	q.log.Debug("queue resumed")

	if start {
		if it, ok := q.begin(); ok {
			go q.run(it)
		}
	}
}

// IsRunning reports whether the queue is in the running state.
func (q *OperationQueue) IsRunning() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

// Len returns the number of pending, not-yet-started operations.
func (q *OperationQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending.Len()
}

// run drains the pending list one prepared iteration at a time. Dependency
// waits and the operation itself are the only blocking points.
func (q *OperationQueue) run(it *iteration) {
	for {
		if err := awaitDeps(q.ctx, it.waits); err != nil {
			q.log.Debug("dependency wait aborted", zap.Error(err))
			it.ent.fut.complete(nil, err)
		} else {
			started := time.Now()
			val, err := q.invoke(it.ent.op)
			it.ent.fut.complete(val, err)

			q.log.Debug("operation finished",
				zap.Duration("took", time.Since(started)),
				zap.Error(err),
			)
		}

		next, ok := q.nextIteration()
		if !ok {
			return
		}
		it = next
	}
}

// invoke runs op, converting a panic into an error so a misbehaving
// operation cannot take down the run loop.
func (q *OperationQueue) invoke(op Operation) (val any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("operation panicked: %v", r)
		}
	}()
	return op(q.ctx)
}

// begin performs the cycle transition for a freshly started run loop.
func (q *OperationQueue) begin() (*iteration, bool) {
	transitionMu.Lock()
	defer transitionMu.Unlock()
	return q.beginLocked()
}

// nextIteration signals completion of the finished operation and, in the
// same transition, prepares the next cycle. Signal and re-close happen under
// transitionMu so no other queue can observe a transient open gate between
// two back-to-back operations.
func (q *OperationQueue) nextIteration() (*iteration, bool) {
	transitionMu.Lock()
	defer transitionMu.Unlock()

	q.currentDone.Signal()
	return q.beginLocked()
}

// beginLocked implements one cycle transition; transitionMu must be held.
// It either hands back the next entry with its captured dependency waits, or
// parks the loop: on a drained pending list both completion signals end up
// open and the queue suspends, on an externally suspended queue the loop
// simply exits.
func (q *OperationQueue) beginLocked() (*iteration, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.pending.Len() == 0 {
		q.allDone.Signal()
		q.running = false
		q.active = false
		return nil, false
	}
	if !q.running {
		q.active = false
		return nil, false
	}

	ent, _ := q.pending.Dequeue()
	q.currentDone.Reset()
	q.allDone.Reset()

	var waits []<-chan struct{}
	for dep, mode := range q.deps {
		g := dep.currentDone
		if mode == WaitAll {
			g = dep.allDone
		}
		if g.IsOpen() {
			continue
		}
		waits = append(waits, g.Done())
	}

	return &iteration{ent: ent, waits: waits}, true
}
