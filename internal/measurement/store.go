package measurement

import (
	"fmt"
	"image/color"
	"math"

	"github.com/google/uuid"
	"github.com/philipparndt/gotakeoff/internal/calibration"
	"github.com/philipparndt/gotakeoff/pkg/geometry"
)

// Store holds the layers and every completed measurement. A failing Record
// call never mutates the store.
type Store struct {
	units  Units
	layers []*Layer
	total  int
}

// NewStore returns a store with the default layers, all visible
func NewStore(units Units) *Store {
	if units.Length == "" {
		units.Length = DefaultUnits.Length
	}
	if units.Area == "" {
		units.Area = DefaultUnits.Area
	}
	if units.Count == "" {
		units.Count = DefaultUnits.Count
	}
	return &Store{
		units: units,
		layers: []*Layer{
			{Name: LayerCalibration, Color: ColorCalibration, Visible: true},
			{Name: LayerDistance, Color: ColorDistance, Visible: true},
			{Name: LayerArea, Color: ColorArea, Visible: true},
		},
	}
}

// Units returns the unit strings used for new measurements
func (s *Store) Units() Units {
	return s.units
}

// Len returns the number of measurements across all layers
func (s *Store) Len() int {
	return s.total
}

// RecordDistance stores the straight-line distance between p0 and p1
func (s *Store) RecordDistance(p0, p1 geometry.Point, description string, ratio float64) (Measurement, error) {
	if err := calibration.ValidateRatio(ratio); err != nil {
		return Measurement{}, err
	}
	m := Measurement{
		Kind:   KindDistance,
		Value:  geometry.Distance(p0, p1) / ratio,
		Unit:   s.units.Length,
		Points: []geometry.Point{p0, p1},
	}
	return s.append(m, description), nil
}

// RecordArea stores the enclosed area of the polygon through points
func (s *Store) RecordArea(points []geometry.Point, description string, ratio float64) (Measurement, error) {
	if len(points) < 3 {
		return Measurement{}, &InsufficientPointsError{Kind: KindArea, Got: len(points), Need: 3}
	}
	if err := calibration.ValidateRatio(ratio); err != nil {
		return Measurement{}, err
	}
	m := Measurement{
		Kind:   KindArea,
		Value:  geometry.PolygonArea(points) / (ratio * ratio),
		Unit:   s.units.Area,
		Points: geometry.ClonePoints(points),
	}
	return s.append(m, description), nil
}

// RecordCount stores a single counted item
func (s *Store) RecordCount(description string) Measurement {
	return s.append(Measurement{Kind: KindCount, Value: 1, Unit: s.units.Count}, description)
}

// RecordCalibration stores the calibration line itself. The value is the
// declared distance and does not depend on the ratio.
func (s *Store) RecordCalibration(actualDistance float64, points []geometry.Point, description string) Measurement {
	if description == "" {
		description = fmt.Sprintf("Calibration Line (%.2f %s)", actualDistance, s.units.Length)
	}
	m := Measurement{
		Kind:   KindCalibration,
		Value:  actualDistance,
		Unit:   s.units.Length,
		Points: geometry.ClonePoints(points),
	}
	return s.append(m, description)
}

func (s *Store) append(m Measurement, description string) Measurement {
	if description == "" {
		description = fmt.Sprintf("%s %d", m.Kind, s.total+1)
	}
	m.ID = uuid.New()
	m.Description = description

	layer := s.layer(LayerFor(m.Kind))
	layer.Measurements = append(layer.Measurements, m)
	s.total++
	return m.clone()
}

// SetLayerVisible toggles a layer without recomputing anything
func (s *Store) SetLayerVisible(name string, visible bool) error {
	layer := s.layer(name)
	if layer == nil {
		return fmt.Errorf("%w: %s", ErrUnknownLayer, name)
	}
	layer.Visible = visible
	return nil
}

// SetLayerColor changes a layer's overlay color
func (s *Store) SetLayerColor(name string, c color.NRGBA) error {
	layer := s.layer(name)
	if layer == nil {
		return fmt.Errorf("%w: %s", ErrUnknownLayer, name)
	}
	layer.Color = c
	return nil
}

// RescaleAll re-projects every stored point from the ratioOld pixel space into
// the ratioNew pixel space and recomputes distance and area values. Count
// measurements carry no geometry and calibration records keep their declared
// value.
func (s *Store) RescaleAll(ratioOld, ratioNew float64) error {
	if err := calibration.ValidateRatio(ratioOld); err != nil {
		return err
	}
	if err := calibration.ValidateRatio(ratioNew); err != nil {
		return err
	}

	for _, layer := range s.layers {
		for i := range layer.Measurements {
			m := &layer.Measurements[i]
			if len(m.Points) == 0 {
				continue
			}
			m.Points = geometry.ScalePoints(m.Points, ratioOld, ratioNew)
			switch m.Kind {
			case KindDistance:
				m.Value = geometry.Distance(m.Points[0], m.Points[len(m.Points)-1]) / ratioNew
			case KindArea:
				m.Value = geometry.PolygonArea(m.Points) / (ratioNew * ratioNew)
			}
		}
	}
	return nil
}

// Layers returns a deep copy of all layers in drawing order
func (s *Store) Layers() []Layer {
	out := make([]Layer, len(s.layers))
	for i, l := range s.layers {
		out[i] = l.clone()
	}
	return out
}

// Layer returns a copy of the named layer
func (s *Store) Layer(name string) (Layer, bool) {
	l := s.layer(name)
	if l == nil {
		return Layer{}, false
	}
	return l.clone(), true
}

// Measurements returns every measurement in layer order
func (s *Store) Measurements() []Measurement {
	out := make([]Measurement, 0, s.total)
	for _, l := range s.layers {
		for _, m := range l.Measurements {
			out = append(out, m.clone())
		}
	}
	return out
}

// Import replaces the store's content with layers, typically read from a
// project file. Nothing changes unless every record is valid.
func (s *Store) Import(layers []Layer) error {
	next := NewStore(s.units)
	for _, in := range layers {
		layer := next.layer(in.Name)
		if layer == nil {
			return fmt.Errorf("%w: %s", ErrUnknownLayer, in.Name)
		}
		layer.Color = in.Color
		layer.Visible = in.Visible
		for i, m := range in.Measurements {
			if err := validateRecord(m); err != nil {
				return &InvalidRecordError{Layer: in.Name, Index: i, Reason: err.Error()}
			}
			if LayerFor(m.Kind) != in.Name {
				return &InvalidRecordError{Layer: in.Name, Index: i, Reason: fmt.Sprintf("%s belongs on layer %s", m.Kind, LayerFor(m.Kind))}
			}
			if m.ID == uuid.Nil {
				m.ID = uuid.New()
			}
			layer.Measurements = append(layer.Measurements, m.clone())
			next.total++
		}
	}

	s.layers = next.layers
	s.total = next.total
	return nil
}

func validateRecord(m Measurement) error {
	if !m.Kind.Valid() {
		return fmt.Errorf("unknown kind %q", m.Kind)
	}
	if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) || m.Value < 0 {
		return fmt.Errorf("value %g is not a finite non-negative number", m.Value)
	}
	for _, p := range m.Points {
		if !p.IsFinite() {
			return fmt.Errorf("point %v is not finite", p)
		}
	}
	switch m.Kind {
	case KindDistance, KindCalibration:
		if len(m.Points) != 2 {
			return fmt.Errorf("%s needs 2 points, got %d", m.Kind, len(m.Points))
		}
	case KindArea:
		if len(m.Points) < 3 {
			return &InsufficientPointsError{Kind: KindArea, Got: len(m.Points), Need: 3}
		}
	case KindCount:
		if len(m.Points) != 0 {
			return fmt.Errorf("count carries no geometry")
		}
	}
	return nil
}

func (s *Store) layer(name string) *Layer {
	for _, l := range s.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}
