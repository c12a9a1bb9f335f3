package opqueue

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DependencyMode selects how a queue waits on another queue before starting
// each of its own operations.
type DependencyMode uint8

const (
	// WaitAll waits for the dependency to fully drain its pending list,
	// including operations enqueued on it after the wait began. Two queues
	// WaitAll-depending on each other deadlock; this is an accepted hazard
	// and is not defended against.
	WaitAll DependencyMode = iota

	// WaitCurrent waits only for the dependency's in-flight operation, if
	// any. Operations enqueued on the dependency afterwards are not waited
	// for. Mutual WaitCurrent is safe and produces lock-step alternation.
	WaitCurrent

	// Interleave has the same wait semantics as WaitCurrent but is
	// registered in both directions from a single AddDependency call,
	// expressing "these two queues take turns" as one relation.
	Interleave
)

func (m DependencyMode) String() string {
	switch m {
	case WaitAll:
		return "wait_all"
	case WaitCurrent:
		return "wait_current"
	case Interleave:
		return "interleave"
	default:
		return "unknown"
	}
}

// AddDependency registers other as a dependency of q under mode, overwriting
// any mode previously registered for other. When mode is Interleave, q is
// also registered as an Interleave dependency of other, so the single call
// couples both queues. Registering a queue on itself is ignored: the run
// loop waiting on its own gate could never resolve.
func (q *OperationQueue) AddDependency(other *OperationQueue, mode DependencyMode) {
	if other == nil || other == q {
		return
	}

	q.mu.Lock()
	q.deps[other] = mode
	q.mu.Unlock()

	if mode == Interleave {
		other.mu.Lock()
		other.deps[q] = Interleave
		other.mu.Unlock()
	}

	q.log.Debug("dependency added",
		zap.String("dependency", other.name),
		zap.Stringer("mode", mode),
	)
}

// Dependency returns the mode registered for other, if any.
func (q *OperationQueue) Dependency(other *OperationQueue) (DependencyMode, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	mode, ok := q.deps[other]
	return mode, ok
}

// awaitDeps blocks until every captured dependency gate has been signalled.
// The channels were snapshotted during the cycle transition; an empty slice
// means every dependency was already satisfied and costs nothing here.
func awaitDeps(ctx context.Context, waits []<-chan struct{}) error {
	switch len(waits) {
	case 0:
		return nil
	case 1:
		select {
		case <-waits[0]:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, ch := range waits {
		ch := ch
		g.Go(func() error {
			select {
			case <-ch:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	return g.Wait()
}
