package measurement

import (
	"errors"
	"fmt"
)

// ErrUnknownLayer is returned for layer operations on a name that does not exist
var ErrUnknownLayer = errors.New("unknown layer")

// InsufficientPointsError is returned when an area is completed with fewer
// than three points.
type InsufficientPointsError struct {
	Kind Kind
	Got  int
	Need int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("%s needs at least %d points, got %d", e.Kind, e.Need, e.Got)
}

// InvalidRecordError is returned when imported data violates a store invariant
type InvalidRecordError struct {
	Layer  string
	Index  int
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid measurement %d on layer %q: %s", e.Index, e.Layer, e.Reason)
}
