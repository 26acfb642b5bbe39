package measurement

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/philipparndt/gotakeoff/internal/calibration"
	"github.com/philipparndt/gotakeoff/pkg/geometry"
)

const tolerance = 1e-9

var unitSquare = []geometry.Point{
	{X: 0, Y: 0},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
}

func TestRecordDistance(t *testing.T) {
	s := NewStore(DefaultUnits)
	m, err := s.RecordDistance(geometry.NewPoint(0, 0), geometry.NewPoint(100, 0), "", 2.0)
	if err != nil {
		t.Fatalf("RecordDistance failed: %v", err)
	}
	if math.Abs(m.Value-50) > tolerance {
		t.Errorf("expected 50, got %v", m.Value)
	}
	if m.Unit != "feet" || m.Kind != KindDistance {
		t.Errorf("unexpected kind/unit %s/%s", m.Kind, m.Unit)
	}
	if m.Description != "Distance 1" {
		t.Errorf("expected default description, got %q", m.Description)
	}

	layer, _ := s.Layer(LayerDistance)
	if len(layer.Measurements) != 1 {
		t.Fatalf("expected 1 measurement on the distance layer, got %d", len(layer.Measurements))
	}
}

func TestRecordArea(t *testing.T) {
	s := NewStore(DefaultUnits)
	m, err := s.RecordArea(unitSquare, "Room", 2.0)
	if err != nil {
		t.Fatalf("RecordArea failed: %v", err)
	}
	if math.Abs(m.Value-0.25) > tolerance {
		t.Errorf("expected 0.25, got %v", m.Value)
	}
	if m.Unit != "sq.ft" || m.Description != "Room" {
		t.Errorf("unexpected unit/description %s/%s", m.Unit, m.Description)
	}
}

func TestRecordAreaInsufficientPoints(t *testing.T) {
	s := NewStore(DefaultUnits)
	_, err := s.RecordArea(unitSquare[:2], "", 1)

	var ptsErr *InsufficientPointsError
	if !errors.As(err, &ptsErr) {
		t.Fatalf("expected InsufficientPointsError, got %v", err)
	}
	if ptsErr.Got != 2 || ptsErr.Need != 3 {
		t.Errorf("unexpected error details %+v", ptsErr)
	}
	if s.Len() != 0 {
		t.Errorf("a failed record must not mutate the store")
	}
}

func TestRecordInvalidRatio(t *testing.T) {
	s := NewStore(DefaultUnits)
	for _, ratio := range []float64{0, -2, math.NaN()} {
		_, err := s.RecordDistance(geometry.NewPoint(0, 0), geometry.NewPoint(3, 4), "", ratio)
		var ratioErr *calibration.InvalidRatioError
		if !errors.As(err, &ratioErr) {
			t.Errorf("ratio %v: expected InvalidRatioError, got %v", ratio, err)
		}
		if _, err := s.RecordArea(unitSquare, "", ratio); !errors.As(err, &ratioErr) {
			t.Errorf("ratio %v: expected InvalidRatioError for area, got %v", ratio, err)
		}
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d measurements", s.Len())
	}
}

func TestCountSharesDistanceLayer(t *testing.T) {
	s := NewStore(DefaultUnits)
	s.RecordDistance(geometry.NewPoint(0, 0), geometry.NewPoint(1, 0), "", 1)
	m := s.RecordCount("")

	if m.Value != 1 || m.Unit != "point" || len(m.Points) != 0 {
		t.Errorf("unexpected count measurement %+v", m)
	}
	if m.Description != "Count 2" {
		t.Errorf("expected numbering across all measurements, got %q", m.Description)
	}
	layer, _ := s.Layer(LayerDistance)
	if len(layer.Measurements) != 2 {
		t.Errorf("expected count on the distance layer")
	}
}

func TestRecordCalibration(t *testing.T) {
	s := NewStore(DefaultUnits)
	m := s.RecordCalibration(10, []geometry.Point{{X: 0, Y: 0}, {X: 200, Y: 0}}, "")
	if m.Description != "Calibration Line (10.00 feet)" {
		t.Errorf("unexpected description %q", m.Description)
	}
	layer, _ := s.Layer(LayerCalibration)
	if len(layer.Measurements) != 1 || layer.Measurements[0].Value != 10 {
		t.Errorf("expected calibration record with value 10, got %+v", layer.Measurements)
	}
}

func TestSetLayerVisibleIdempotent(t *testing.T) {
	once := NewStore(DefaultUnits)
	once.RecordArea(unitSquare, "a", 1)
	twice := NewStore(DefaultUnits)
	twice.Import(once.Layers())

	if err := once.SetLayerVisible(LayerArea, false); err != nil {
		t.Fatalf("SetLayerVisible failed: %v", err)
	}
	twice.SetLayerVisible(LayerArea, false)
	twice.SetLayerVisible(LayerArea, false)

	if d := cmp.Diff(once.Layers(), twice.Layers()); d != "" {
		t.Errorf("state differs (-once +twice):\n%s", d)
	}
	layer, _ := once.Layer(LayerArea)
	if layer.Visible || len(layer.Measurements) != 1 {
		t.Errorf("visibility change must not touch measurements")
	}
}

func TestUnknownLayer(t *testing.T) {
	s := NewStore(DefaultUnits)
	if err := s.SetLayerVisible("Walls", true); !errors.Is(err, ErrUnknownLayer) {
		t.Errorf("expected ErrUnknownLayer, got %v", err)
	}
	if err := s.SetLayerColor("Walls", color.NRGBA{A: 255}); !errors.Is(err, ErrUnknownLayer) {
		t.Errorf("expected ErrUnknownLayer, got %v", err)
	}
}

func TestRescaleAll(t *testing.T) {
	s := NewStore(DefaultUnits)
	s.RecordDistance(geometry.NewPoint(0, 0), geometry.NewPoint(40, 0), "", 20)
	s.RecordArea([]geometry.Point{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 20}, {X: 0, Y: 20}}, "", 20)
	s.RecordCount("")
	s.RecordCalibration(10, []geometry.Point{{X: 0, Y: 0}, {X: 200, Y: 0}}, "")
	before := s.Measurements()

	if err := s.RescaleAll(20, 30); err != nil {
		t.Fatalf("RescaleAll failed: %v", err)
	}
	after := s.Measurements()

	values := func(ms []Measurement) []float64 {
		out := make([]float64, len(ms))
		for i, m := range ms {
			out[i] = m.Value
		}
		return out
	}
	if d := cmp.Diff(values(before), values(after), cmpopts.EquateApprox(0, tolerance)); d != "" {
		t.Errorf("values must be invariant under rescale (-before +after):\n%s", d)
	}

	distance := Filter(after, KindDistance)[0]
	want := []geometry.Point{{X: 0, Y: 0}, {X: 60, Y: 0}}
	if d := cmp.Diff(want, distance.Points, cmpopts.EquateApprox(0, tolerance)); d != "" {
		t.Errorf("points not re-projected (-want +got):\n%s", d)
	}
}

func TestRescaleAllRejectsInvalidRatio(t *testing.T) {
	s := NewStore(DefaultUnits)
	s.RecordDistance(geometry.NewPoint(0, 0), geometry.NewPoint(4, 0), "", 1)
	before := s.Layers()

	if err := s.RescaleAll(1, 0); err == nil {
		t.Fatalf("expected an error for ratio 0")
	}
	if d := cmp.Diff(before, s.Layers()); d != "" {
		t.Errorf("store changed after a rejected rescale:\n%s", d)
	}
}

func TestLayersReturnsCopy(t *testing.T) {
	s := NewStore(DefaultUnits)
	s.RecordArea(unitSquare, "", 1)

	layers := s.Layers()
	layers[2].Measurements[0].Points[0].X = 99
	layers[2].Visible = false

	layer, _ := s.Layer(LayerArea)
	if layer.Measurements[0].Points[0].X != 0 || !layer.Visible {
		t.Errorf("mutating a snapshot leaked into the store")
	}
}

func TestImportRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		layer Layer
	}{
		{"unknown kind", Layer{Name: LayerDistance, Measurements: []Measurement{{Kind: "Volume"}}}},
		{"area with two points", Layer{Name: LayerArea, Measurements: []Measurement{{Kind: KindArea, Points: unitSquare[:2]}}}},
		{"distance on area layer", Layer{Name: LayerArea, Measurements: []Measurement{{Kind: KindDistance, Points: unitSquare[:2]}}}},
		{"negative value", Layer{Name: LayerDistance, Measurements: []Measurement{{Kind: KindCount, Value: -1}}}},
		{"NaN point", Layer{Name: LayerDistance, Measurements: []Measurement{{Kind: KindDistance, Points: []geometry.Point{{X: math.NaN()}, {}}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(DefaultUnits)
			s.RecordCount("kept")

			var recErr *InvalidRecordError
			if err := s.Import([]Layer{tt.layer}); !errors.As(err, &recErr) {
				t.Fatalf("expected InvalidRecordError, got %v", err)
			}
			if s.Len() != 1 {
				t.Errorf("a rejected import must leave the store unchanged")
			}
		})
	}

	s := NewStore(DefaultUnits)
	if err := s.Import([]Layer{{Name: "Walls"}}); !errors.Is(err, ErrUnknownLayer) {
		t.Errorf("expected ErrUnknownLayer, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	s := NewStore(DefaultUnits)
	s.RecordCalibration(10, []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}, "")
	s.RecordDistance(geometry.NewPoint(0, 0), geometry.NewPoint(3, 4), "", 1)
	s.RecordDistance(geometry.NewPoint(0, 0), geometry.NewPoint(0, 2), "", 1)
	s.RecordCount("")
	s.RecordArea(unitSquare, "", 1)

	sum := Summarize(s.Layers())
	if math.Abs(sum.TotalLength-7) > tolerance {
		t.Errorf("expected total length 7, got %v", sum.TotalLength)
	}
	if math.Abs(sum.TotalArea-1) > tolerance || sum.ItemCount != 1 || !sum.Calibrated {
		t.Errorf("unexpected summary %+v", sum)
	}
	if sum.Layers[1].Count != 3 || sum.Layers[1].Totals["point"] != 1 {
		t.Errorf("unexpected distance layer summary %+v", sum.Layers[1])
	}

	largest := Largest(Filter(s.Measurements(), KindDistance), 1)
	if len(largest) != 1 || math.Abs(largest[0].Value-5) > tolerance {
		t.Errorf("expected the 5 ft line first, got %+v", largest)
	}
}

func TestFormat(t *testing.T) {
	m := Measurement{Kind: KindDistance, Value: 2, Unit: "feet", Description: "Wall"}
	if got := m.String(); got != "Distance: 2.00 feet - Wall" {
		t.Errorf("unexpected String() %q", got)
	}
	if got := m.Label(); got != "2.00 feet" {
		t.Errorf("unexpected Label() %q", got)
	}
	if got := FormatValue(3, ""); got != "3.00 units" {
		t.Errorf("unexpected FormatValue %q", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#00ff00", color.NRGBA{G: 255, A: 255}},
		{"0000FF", color.NRGBA{B: 255, A: 255}},
		{"#ff000080", color.NRGBA{R: 255, A: 128}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
		if back, _ := ParseColor(FormatColor(got)); back != got {
			t.Errorf("FormatColor(%v) does not parse back", got)
		}
	}
	for _, in := range []string{"", "#fff", "#gggggg"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("expected an error for %q", in)
		}
	}
}
