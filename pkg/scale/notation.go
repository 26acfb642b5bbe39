// Package scale parses architectural drawing-scale labels such as 1/4"=1'.
package scale

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// InchesPerFoot converts the drawn fraction of an inch into the real-world
// length one canonical unit run represents.
const InchesPerFoot = 12.0

// Custom is the preset label that selects a numeric known distance instead of
// a notation.
const Custom = "Custom"

// Presets lists the common architectural scales offered to the user
var Presets = []string{
	`1/4"=1'`,
	`1/8"=1'`,
	`1/16"=1'`,
	`3/32"=1'`,
	Custom,
}

// ErrInvalidNotation is returned when a scale label cannot be parsed
var ErrInvalidNotation = errors.New("invalid scale notation")

// IsNotation reports whether label should be parsed as a notation. Empty labels
// and the Custom preset are not notations.
func IsNotation(label string) bool {
	label = strings.TrimSpace(label)
	return label != "" && !strings.EqualFold(label, Custom)
}

// ParseNotation converts a scale label into its known real-world distance.
//
// Only the drawn part (left of '=') is interpreted. A fraction N/D yields
// 12*D/N, a bare number V yields 12*V. For example 1/4"=1' gives 48.
func ParseNotation(label string) (float64, error) {
	drawn := strings.SplitN(label, "=", 2)[0]
	drawn = strings.TrimSpace(strings.Trim(strings.TrimSpace(drawn), `"`))
	if drawn == "" {
		return 0, fmt.Errorf("%w: %q has no drawn length", ErrInvalidNotation, label)
	}

	var value float64
	if num, denom, ok := strings.Cut(drawn, "/"); ok {
		n, err := parsePositive(num)
		if err != nil {
			return 0, fmt.Errorf("%w: numerator of %q: %v", ErrInvalidNotation, label, err)
		}
		d, err := parsePositive(denom)
		if err != nil {
			return 0, fmt.Errorf("%w: denominator of %q: %v", ErrInvalidNotation, label, err)
		}
		value = InchesPerFoot * d / n
	} else {
		v, err := parsePositive(drawn)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidNotation, label, err)
		}
		value = v * InchesPerFoot
	}

	if math.IsInf(value, 0) || math.IsNaN(value) || value <= 0 {
		return 0, fmt.Errorf("%w: %q does not describe a positive distance", ErrInvalidNotation, label)
	}
	return value, nil
}

func parsePositive(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.Trim(s, `"`)), 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%g is not positive", v)
	}
	return v, nil
}
