package queue

import (
	"github.com/huynhanx03/go-opqueue/pkg/utils"
)

var _ Queue[int] = (*Ring[int])(nil)

const defaultRingCapacity = 16

// Ring is an unbounded FIFO backed by a growable circular buffer.
// Capacity is always a power of two so head/tail wrapping is a mask,
// and the buffer doubles when full.
//
// Ring is NOT thread-safe. It is meant to be owned by a single component
// that serializes access, such as a run loop guarding it with its own lock.
type Ring[T any] struct {
	buf  []T
	mask uint64
	head uint64 // next slot to write
	tail uint64 // next slot to read
}

// NewRing creates a ring with capacity rounded up to a power of two.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = defaultRingCapacity
	}
	capacity = utils.CeilToPowerOfTwo(capacity)

	return &Ring[T]{
		buf:  make([]T, capacity),
		mask: uint64(capacity - 1),
	}
}

// Enqueue appends an item to the tail. It always succeeds; the buffer
// grows when full.
func (r *Ring[T]) Enqueue(item T) bool {
	if r.Len() == len(r.buf) {
		r.grow()
	}

	r.buf[r.head&r.mask] = item
	r.head++
	return true
}

// Dequeue removes and returns the head item.
// Returns (zero, false) if the ring is empty.
func (r *Ring[T]) Dequeue() (T, bool) {
	var zero T
	if r.head == r.tail {
		return zero, false
	}

	idx := r.tail & r.mask
	item := r.buf[idx]
	r.buf[idx] = zero // release the reference for GC
	r.tail++
	return item, true
}

// Len returns the number of items currently buffered.
func (r *Ring[T]) Len() int {
	return int(r.head - r.tail)
}

// Clear drops all buffered items.
func (r *Ring[T]) Clear() {
	var zero T
	for r.tail != r.head {
		r.buf[r.tail&r.mask] = zero
		r.tail++
	}
}

// Capacity returns the current buffer capacity.
func (r *Ring[T]) Capacity() uint64 {
	return uint64(len(r.buf))
}

func (r *Ring[T]) grow() {
	next := make([]T, utils.CeilToPowerOfTwo(len(r.buf)*2))

	n := 0
	for r.tail != r.head {
		next[n] = r.buf[r.tail&r.mask]
		r.tail++
		n++
	}

	r.buf = next
	r.mask = uint64(len(next) - 1)
	r.tail = 0
	r.head = uint64(n)
}
