package replay

import "errors"

// Error implements errors unique to a replay buffer, tagged with the
// operation that produced them.
type Error struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause of the Error
func (e *Error) Unwrap() error {
	return e.Err
}

var errEmptyBuffer = errors.New("buffer empty")

var errCountMismatch = errors.New("priority count does not match last " +
	"sample size")

var errOutstandingSample = errors.New("previous sample still awaiting " +
	"priority updates")

var errNoOutstandingSample = errors.New("no outstanding sample to update " +
	"priorities for")

var errNotPrioritized = errors.New("buffer does not track priorities")

// IsEmptyBuffer returns whether an error reports that a replay buffer
// holds no transitions to sample.
func IsEmptyBuffer(err error) bool {
	return errors.Is(err, errEmptyBuffer)
}

// IsCountMismatch returns whether an error reports that the number of
// priority values passed to UpdatePriorities differs from the size of
// the sample they belong to.
func IsCountMismatch(err error) bool {
	return errors.Is(err, errCountMismatch)
}

// IsOutOfDiscipline returns whether an error reports a violation of the
// single-outstanding-sample discipline: sampling again before updating
// priorities for the previous sample, or updating priorities with no
// sample outstanding.
func IsOutOfDiscipline(err error) bool {
	return errors.Is(err, errOutstandingSample) ||
		errors.Is(err, errNoOutstandingSample)
}

// IsNotPrioritized returns whether an error reports a priority update
// on a buffer without priority tracking.
func IsNotPrioritized(err error) bool {
	return errors.Is(err, errNotPrioritized)
}
