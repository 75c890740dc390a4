package main

import (
	eapache "github.com/eapache/queue"
	"github.com/pkg/errors"

	"github.com/i5heu/GoRingQueue/pkg/ringqueue"
)

// benchQueue is the runtime view of queue.QueueValidationInterface[*int].
type benchQueue = interface {
	Enqueue(*int) error
	Dequeue() (*int, error)
	Len() int
}

// Implementation represents a queue implementation under test.
type Implementation struct {
	name        string
	description string
	pkgName     string
	features    []string
	newQueue    func(capacity int) (benchQueue, error)
}

var errEmpty = errors.New("queue is empty")

// eapacheQueue adapts github.com/eapache/queue, a ring buffer with
// power-of-two sizing that also shrinks, to the bench contract.
type eapacheQueue[T any] struct {
	q *eapache.Queue
}

func newEapacheQueue[T any]() *eapacheQueue[T] {
	return &eapacheQueue[T]{q: eapache.New()}
}

func (e *eapacheQueue[T]) Enqueue(v T) error {
	e.q.Add(v)
	return nil
}

func (e *eapacheQueue[T]) Dequeue() (T, error) {
	if e.q.Length() == 0 {
		var zero T
		return zero, errEmpty
	}
	return e.q.Remove().(T), nil
}

func (e *eapacheQueue[T]) Len() int {
	return e.q.Length()
}

// getImplementations enumerates the queues the bench compares.
func getImplementations() []Implementation {
	return []Implementation{
		{
			name:        "RingQueue",
			pkgName:     "ringqueue",
			description: "Circular buffer that doubles when full and never shrinks.",
			features:    []string{"FIFO", "Unbounded", "Growable", "NilCheck"},
			newQueue: func(capacity int) (benchQueue, error) {
				return ringqueue.NewWithCapacity[*int](capacity)
			},
		},
		{
			name:        "EapacheQueue",
			pkgName:     "eapache/queue",
			description: "Power-of-two ring buffer that grows and shrinks, used as a baseline.",
			features:    []string{"FIFO", "Unbounded", "Growable"},
			newQueue: func(int) (benchQueue, error) {
				return newEapacheQueue[*int](), nil
			},
		},
	}
}
