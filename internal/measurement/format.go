package measurement

import "fmt"

// FormatValue renders a value with two decimals and its unit
func FormatValue(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.2f %s", value, unit)
}

// Label is the short text drawn next to a measurement on the overlay
func (m Measurement) Label() string {
	if m.Kind == KindCount {
		return m.Description
	}
	return FormatValue(m.Value, m.Unit)
}

func (m Measurement) String() string {
	return fmt.Sprintf("%s: %s - %s", m.Kind, FormatValue(m.Value, m.Unit), m.Description)
}
