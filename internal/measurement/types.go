package measurement

import (
	"image/color"

	"github.com/google/uuid"
	"github.com/philipparndt/gotakeoff/pkg/geometry"
)

// Kind identifies what a measurement quantifies
type Kind string

const (
	KindDistance    Kind = "Distance"
	KindArea        Kind = "Area"
	KindCount       Kind = "Count"
	KindCalibration Kind = "Calibration"
)

// Valid reports whether k is one of the known kinds
func (k Kind) Valid() bool {
	switch k {
	case KindDistance, KindArea, KindCount, KindCalibration:
		return true
	}
	return false
}

// Layer names. Count measurements are filed under LayerDistance.
const (
	LayerCalibration = "Calibration"
	LayerDistance    = "Distance"
	LayerArea        = "Area"
)

// LayerNames lists the layers in drawing order
var LayerNames = []string{LayerCalibration, LayerDistance, LayerArea}

// Default layer colors
var (
	ColorCalibration = color.NRGBA{R: 0, G: 150, B: 0, A: 255}
	ColorDistance    = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	ColorArea        = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
)

// LayerFor returns the layer a measurement of kind k is filed under
func LayerFor(k Kind) string {
	switch k {
	case KindArea:
		return LayerArea
	case KindCalibration:
		return LayerCalibration
	default:
		return LayerDistance
	}
}

// Measurement is one completed, immutable quantity.
type Measurement struct {
	ID          uuid.UUID        `json:"id"`
	Kind        Kind             `json:"kind"`
	Value       float64          `json:"value"`
	Unit        string           `json:"unit"`
	Description string           `json:"description"`
	Points      []geometry.Point `json:"points,omitempty"`
}

// Layer is a named, colored bucket of measurements
type Layer struct {
	Name         string        `json:"name"`
	Color        color.NRGBA   `json:"color"`
	Visible      bool          `json:"visible"`
	Measurements []Measurement `json:"measurements"`
}

// Units names the unit strings attached to new measurements
type Units struct {
	Length string
	Area   string
	Count  string
}

// DefaultUnits are feet, square feet and points
var DefaultUnits = Units{Length: "feet", Area: "sq.ft", Count: "point"}

func (m Measurement) clone() Measurement {
	m.Points = geometry.ClonePoints(m.Points)
	return m
}

func (l *Layer) clone() Layer {
	c := *l
	c.Measurements = make([]Measurement, len(l.Measurements))
	for i, m := range l.Measurements {
		c.Measurements[i] = m.clone()
	}
	return c
}
