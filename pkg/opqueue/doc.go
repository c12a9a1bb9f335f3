// Package opqueue provides an in-process sequential-execution queue.
//
// An OperationQueue runs enqueued operations one at a time in submission
// order. Each Enqueue returns a Future for that operation's result, and the
// queue exposes two completion signals: AwaitCurrent (the in-flight operation,
// if any, has finished) and AwaitAll (everything enqueued so far has
// finished). Both resolve immediately, without yielding to the scheduler,
// when the queue is idle.
//
// Queues compose through dependencies. A queue that depends on another waits,
// before starting each of its own operations, according to the registered
// DependencyMode: WaitAll blocks until the dependency has fully drained,
// WaitCurrent blocks only until the dependency's in-flight operation
// finishes, and Interleave is mutual WaitCurrent registered from a single
// call, making the two queues take turns. Two queues WaitAll-depending on
// each other deadlock; that hazard is documented, not defended against.
//
// Operation failures are contained: an error (or panic) resolves only that
// operation's Future and the queue moves on to the next entry.
package opqueue
