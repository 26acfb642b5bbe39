package calibration

import (
	"fmt"
	"math"
)

// InvalidCalibrationError is returned when a declared distance is not positive
// or both reference points coincide.
type InvalidCalibrationError struct {
	Reason         string
	ActualDistance float64
	Pixels         float64
	Cause          error
}

func (e *InvalidCalibrationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid calibration: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid calibration: %s (distance %g, pixels %g)", e.Reason, e.ActualDistance, e.Pixels)
}

func (e *InvalidCalibrationError) Unwrap() error { return e.Cause }

// InvalidRatioError is returned when a conversion is attempted with a ratio
// that is not a positive finite number.
type InvalidRatioError struct {
	Ratio float64
}

func (e *InvalidRatioError) Error() string {
	return fmt.Sprintf("invalid calibration ratio %g", e.Ratio)
}

// ValidateRatio returns an *InvalidRatioError unless ratio is positive and finite
func ValidateRatio(ratio float64) error {
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		return &InvalidRatioError{Ratio: ratio}
	}
	return nil
}

// ErrNotCalibrating is returned by operations that need a calibration in progress
var ErrNotCalibrating = &stateError{"calibration not in progress"}

// ErrPointsMissing is returned when completion is attempted before both
// reference points are recorded
var ErrPointsMissing = &stateError{"calibration needs two reference points"}

type stateError struct{ msg string }

func (e *stateError) Error() string { return e.msg }
