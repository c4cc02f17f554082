package task

import (
	"errors"

	"github.com/revelaction/parsedist/sentence"
)

var (
	// ErrLengthMismatch indicates the annotation fields of an observation
	// disagree in length.
	ErrLengthMismatch = sentence.ErrLengthMismatch
	// ErrMalformedAnnotation indicates the head indices do not form a tree
	// rooted at the virtual root: a head outside the sentence or a walk
	// that never reaches the root.
	ErrMalformedAnnotation = errors.New("task: head annotation is not a rooted tree")
	// ErrInvalidHead indicates a head field that is neither an integer nor
	// the placeholder.
	ErrInvalidHead = errors.New("task: head field is not an integer")
	// ErrIndexOutOfRange indicates a token position outside the sentence.
	ErrIndexOutOfRange = errors.New("task: token position out of range")
	// ErrUnknownTask indicates a task name not known to New.
	ErrUnknownTask = errors.New("task: unknown task")
	// ErrInvalidRange indicates an empty or unbounded sampling range for
	// Random.
	ErrInvalidRange = errors.New("task: random range is empty or not finite")
)

// Error kinds returned by Classify.
const (
	KindLength    = "length"
	KindMalformed = "malformed"
	KindHead      = "head"
	KindIndex     = "index"
	KindOther     = "other"
)

// Classify maps an error returned by this package to a short kind, used
// for logging and metric labels.
func Classify(err error) string {
	switch {
	case errors.Is(err, ErrLengthMismatch):
		return KindLength
	case errors.Is(err, ErrMalformedAnnotation):
		return KindMalformed
	case errors.Is(err, ErrInvalidHead):
		return KindHead
	case errors.Is(err, ErrIndexOutOfRange):
		return KindIndex
	default:
		return KindOther
	}
}
