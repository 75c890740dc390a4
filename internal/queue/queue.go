package queue

import "github.com/i5heu/GoRingQueue/pkg/ringqueue"

// QueueValidationInterface is a *type constraint* for every queue the bench
// can drive. We never store Q in a runtime interface,
// we only use it at compile time to ensure matching signatures.
type QueueValidationInterface[T any] interface {
	// Enqueue appends an element. It only fails for invalid input (e.g. nil).
	Enqueue(T) error

	// Dequeue removes and returns the oldest element.
	// If the queue is empty it returns an empty T and an error.
	Dequeue() (T, error)

	// Len returns how many elements are currently queued.
	Len() int
}

// Compile-time enforcement that RingQueue satisfies the contract.
var _ QueueValidationInterface[*int] = (*ringqueue.RingQueue[*int])(nil)
