package ringqueue

import (
	"iter"
	"reflect"

	"github.com/pkg/errors"
)

// DefaultCapacity is the buffer size used by New.
const DefaultCapacity = 4

// RingQueue is an unbounded FIFO queue backed by a circular buffer that
// doubles its capacity when full. It is not safe for concurrent use.
// The zero value is an empty queue ready to use; its buffer is allocated
// with DefaultCapacity on the first Enqueue.
//
// Logical element i is stored at buffer[(head+i) % len(buffer)].
type RingQueue[T any] struct {
	buffer []T
	head   int
	tail   int
	count  int

	// nilable caches whether T can hold nil at all.
	nilable nilability
}

type nilability uint8

const (
	nilUnknown nilability = iota
	nilNever
	nilPossible
)

// New creates an empty queue with DefaultCapacity.
func New[T any]() *RingQueue[T] {
	return &RingQueue[T]{
		buffer: make([]T, DefaultCapacity),
	}
}

// NewWithCapacity creates an empty queue with room for capacity elements
// before the first growth.
func NewWithCapacity[T any](capacity int) (*RingQueue[T], error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "capacity can't be less than 1, got %d", capacity)
	}
	return &RingQueue[T]{
		buffer: make([]T, capacity),
	}, nil
}

// NewFromSlice creates a queue sized to values and enqueues every element in
// order using the same rules as EnqueueRange.
func NewFromSlice[T any](values []T) (*RingQueue[T], error) {
	if values == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "values can't be nil")
	}
	q := &RingQueue[T]{
		buffer: make([]T, len(values)),
	}
	if err := q.EnqueueRange(values); err != nil {
		return nil, err
	}
	return q, nil
}

// Len returns the number of queued elements.
func (q *RingQueue[T]) Len() int {
	return q.count
}

// Cap returns the current size of the backing buffer.
func (q *RingQueue[T]) Cap() int {
	return len(q.buffer)
}

// Enqueue appends value to the back of the queue, growing the buffer first
// if it is full. Nil values are rejected with ErrNullArgument.
func (q *RingQueue[T]) Enqueue(value T) error {
	if q.rejectsNil(value) {
		return errors.Wrap(ErrNullArgument, "value can't be nil")
	}

	if q.count == len(q.buffer) {
		q.grow()
	}

	q.buffer[q.tail] = value
	q.tail = (q.tail + 1) % len(q.buffer)
	q.count++
	return nil
}

// EnqueueRange enqueues every element of values in order.
//
// A nil slice fails with ErrNullArgument and an empty one with
// ErrInvalidArgument. A nil element fails with ErrNullArgument when it is
// reached; the elements before it stay in the queue.
func (q *RingQueue[T]) EnqueueRange(values []T) error {
	if values == nil {
		return errors.Wrap(ErrNullArgument, "collection can't be nil")
	}
	if len(values) == 0 {
		return errors.Wrap(ErrInvalidArgument, "collection can't be empty")
	}

	for i, v := range values {
		if err := q.Enqueue(v); err != nil {
			return errors.WithMessagef(err, "element %d", i)
		}
	}
	return nil
}

// EnqueueSeq is EnqueueRange for a lazy sequence. Emptiness can only be
// detected after the sequence is drained, so it is reported last.
func (q *RingQueue[T]) EnqueueSeq(seq iter.Seq[T]) error {
	if seq == nil {
		return errors.Wrap(ErrNullArgument, "sequence can't be nil")
	}

	n := 0
	for v := range seq {
		if err := q.Enqueue(v); err != nil {
			return errors.WithMessagef(err, "element %d", n)
		}
		n++
	}
	if n == 0 {
		return errors.Wrap(ErrInvalidArgument, "sequence can't be empty")
	}
	return nil
}

// Dequeue removes and returns the front element.
func (q *RingQueue[T]) Dequeue() (T, error) {
	var zero T
	if q.count == 0 {
		return zero, errors.Wrap(ErrInvalidState, "can't dequeue from an empty queue")
	}

	value := q.buffer[q.head]
	q.buffer[q.head] = zero
	q.head = (q.head + 1) % len(q.buffer)
	q.count--

	return value, nil
}

// Peek returns the front element without removing it.
func (q *RingQueue[T]) Peek() (T, error) {
	if q.count == 0 {
		var zero T
		return zero, errors.Wrap(ErrInvalidState, "can't peek into an empty queue")
	}
	return q.at(0), nil
}

// Contains reports whether item is queued, comparing with ==.
// Comparing interface values whose dynamic type is not comparable panics,
// as == does. Use ContainsFunc for element types that are not comparable.
func Contains[T comparable](q *RingQueue[T], item T) bool {
	return q.ContainsFunc(func(v T) bool { return v == item })
}

// ContainsFunc reports whether any queued element satisfies match, scanning
// front to back.
func (q *RingQueue[T]) ContainsFunc(match func(T) bool) bool {
	for i := 0; i < q.count; i++ {
		if match(q.at(i)) {
			return true
		}
	}
	return false
}

// Clear removes all elements. The capacity is kept.
func (q *RingQueue[T]) Clear() {
	if q.count == 0 {
		return
	}

	q.count, q.head, q.tail = 0, 0, 0
	clear(q.buffer)
}

// ToSlice returns a copy of the queued elements, front first.
func (q *RingQueue[T]) ToSlice() []T {
	out := make([]T, q.count)
	for i := range out {
		out[i] = q.at(i)
	}
	return out
}

// All returns a sequence over the queue, front first. Each range loop uses
// a fresh Enumerator, so the sequence can be ranged over repeatedly.
func (q *RingQueue[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		e := q.GetEnumerator()
		defer e.Close()
		for e.MoveNext() {
			if !yield(e.current) {
				return
			}
		}
	}
}

// at maps logical index i to its physical slot.
func (q *RingQueue[T]) at(i int) T {
	return q.buffer[(q.head+i)%len(q.buffer)]
}

// grow doubles the buffer and linearizes the ring so the front lands at 0.
// A zero-value queue gets DefaultCapacity.
func (q *RingQueue[T]) grow() {
	newCapacity := len(q.buffer) * 2
	if newCapacity == 0 {
		newCapacity = DefaultCapacity
	}
	buffer := make([]T, newCapacity)
	for i := 0; i < q.count; i++ {
		buffer[i] = q.at(i)
	}

	q.buffer = buffer
	q.head = 0
	if q.count == newCapacity {
		q.tail = 0
	} else {
		q.tail = q.count
	}
}

func (q *RingQueue[T]) rejectsNil(v T) bool {
	if q.nilable == nilUnknown {
		q.nilable = nilabilityOf[T]()
	}
	return q.nilable == nilPossible && isNil(v)
}

// nilabilityOf decides from the static type whether a T value can ever be
// nil, so value kinds like int skip reflection on every Enqueue.
func nilabilityOf[T any]() nilability {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return nilPossible
	}
	return nilNever
}

// isNil reports whether v is a nil interface or a nil pointer, map, slice,
// channel or func boxed in T.
func isNil[T any](v T) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
