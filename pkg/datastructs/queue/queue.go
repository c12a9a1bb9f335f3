package queue

// Queue is a generic interface for FIFO queues.
type Queue[T any] interface {
	// Enqueue adds an item to the tail of the queue.
	// Returns true if successful, false if the queue rejected the item.
	Enqueue(item T) bool

	// Dequeue removes and returns the item at the head of the queue.
	// Returns (item, true) if successful, (zero, false) if the queue is empty.
	Dequeue() (T, bool)

	// Len returns the number of items currently in the queue.
	Len() int

	// Clear removes all items from the queue.
	Clear()

	// Capacity returns the current capacity of the queue.
	Capacity() uint64
}
