package ringqueue

import "github.com/pkg/errors"

const (
	notStarted = -1
	finished   = -2
)

// Enumerator is a restartable cursor over a RingQueue. It reads the queue
// through its logical index on every step; mutating the queue while an
// Enumerator is in use is not detected.
type Enumerator[T any] struct {
	q       *RingQueue[T]
	index   int
	current T
}

// GetEnumerator returns an Enumerator positioned before the first element.
func (q *RingQueue[T]) GetEnumerator() *Enumerator[T] {
	return &Enumerator[T]{
		q:     q,
		index: notStarted,
	}
}

// MoveNext advances to the next element and reports whether there is one.
// Once it returns false it keeps returning false until Reset.
func (e *Enumerator[T]) MoveNext() bool {
	if e.index == finished {
		return false
	}

	e.index++
	if e.index >= e.q.count {
		e.Close()
		return false
	}

	e.current = e.q.at(e.index)
	return true
}

// Current returns the element the enumerator is positioned on.
func (e *Enumerator[T]) Current() (T, error) {
	switch e.index {
	case notStarted:
		var zero T
		return zero, errors.Wrap(ErrInvalidState, "enumerator hasn't started yet")
	case finished:
		var zero T
		return zero, errors.Wrap(ErrInvalidState, "enumerator is finished")
	}
	return e.current, nil
}

// Reset rewinds the enumerator to before the first element.
func (e *Enumerator[T]) Reset() {
	e.index = notStarted
}

// Close finishes the enumerator and drops the held element.
func (e *Enumerator[T]) Close() {
	var zero T
	e.index = finished
	e.current = zero
}
