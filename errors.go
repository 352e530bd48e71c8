package rifx

import (
	"errors"
	"fmt"
)

var (
	ErrFormatMismatch = errors.New("rifx: format mismatch")
	ErrInvalidHeader  = errors.New("rifx: invalid container header")
	ErrInvalidVarint  = errors.New("rifx: invalid varint")
	ErrInvalidMap     = errors.New("rifx: invalid resource map")
	ErrInvalidPayload = errors.New("rifx: invalid payload")
	ErrLimitExceeded  = errors.New("rifx: limit exceeded")
	ErrNotFound       = errors.New("rifx: resource not found")
)

// FormatMismatchError reports a chunk whose tag differs from the one required
// at that position. It matches ErrFormatMismatch.
type FormatMismatchError struct {
	Expected Tag
	Actual   Tag
	Offset   int64
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("rifx: format mismatch at offset %d: expected %q got %q", e.Offset, e.Expected, e.Actual)
}

func (e *FormatMismatchError) Is(target error) bool {
	return target == ErrFormatMismatch
}
