package ringqueue

import "github.com/pkg/errors"

// Sentinel errors returned (wrapped) by RingQueue and Enumerator.
// Match them with errors.Is.
var (
	// ErrInvalidArgument is returned for a non-positive capacity, a nil
	// initial slice or an empty collection.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNullArgument is returned when a nil value or a nil collection is enqueued.
	ErrNullArgument = errors.New("null argument")

	// ErrInvalidState is returned when reading from an empty queue or from an
	// enumerator that is not positioned on an element.
	ErrInvalidState = errors.New("invalid state")
)
