package session

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/pkg/geometry"
)

func down(x, y float64) Input {
	return Input{Kind: PointerDown, Point: geometry.NewPoint(x, y)}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"None", ModeIdle},
		{"distance", ModeDistance},
		{"Area", ModeArea},
		{" COUNT ", ModeCount},
		{"calibrate", ModeCalibrating},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseMode("volume"); err == nil {
		t.Errorf("expected an error for an unknown mode")
	}
}

func TestDistanceLoops(t *testing.T) {
	s := New()
	s.Select(ModeDistance)

	if a := s.Handle(down(0, 0)); a.Kind != ActionNone {
		t.Fatalf("first point must not complete, got %v", a.Kind)
	}
	a := s.Handle(down(3, 4))
	if a.Kind != ActionDistance {
		t.Fatalf("expected a distance action, got %v", a.Kind)
	}
	if d := cmp.Diff([]geometry.Point{{X: 0, Y: 0}, {X: 3, Y: 4}}, a.Points); d != "" {
		t.Errorf("unexpected points (-want +got):\n%s", d)
	}
	if s.Mode() != ModeDistance || len(s.Points()) != 0 {
		t.Errorf("distance mode must loop with no pending points")
	}
}

func TestCalibratingReturnsToIdle(t *testing.T) {
	s := New()
	s.Select(ModeCalibrating)
	s.Handle(down(0, 0))
	a := s.Handle(down(200, 0))

	if a.Kind != ActionCalibrate || len(a.Points) != 2 {
		t.Fatalf("expected a calibrate action with two points, got %+v", a)
	}
	if s.Mode() != ModeIdle {
		t.Errorf("expected Idle after calibration points, got %v", s.Mode())
	}
}

func TestAreaAccumulatesUntilClose(t *testing.T) {
	s := New()
	s.Select(ModeArea)
	s.Handle(down(0, 0))
	s.Handle(down(10, 0))

	if a := s.Handle(Input{Kind: PointerUp, Point: geometry.NewPoint(10, 0), Close: true}); a.Kind != ActionNone {
		t.Fatalf("closing with two points must not complete")
	}
	if !s.Drawing() {
		t.Errorf("expected drawing in progress")
	}

	s.Handle(Input{Kind: PointerMove, Point: geometry.NewPoint(7, 7)})
	st := s.Snapshot()
	if st.Provisional == nil || *st.Provisional != geometry.NewPoint(7, 7) {
		t.Errorf("expected provisional point, got %v", st.Provisional)
	}

	s.Handle(down(10, 10))
	if a := s.Handle(Input{Kind: PointerUp, Point: geometry.NewPoint(10, 10)}); a.Kind != ActionNone {
		t.Fatalf("plain pointer-up must not close the shape")
	}
	a := s.Handle(Input{Kind: PointerUp, Point: geometry.NewPoint(10, 10), Close: true})
	if a.Kind != ActionArea || len(a.Points) != 3 {
		t.Fatalf("expected an area action with 3 points, got %+v", a)
	}
	st = s.Snapshot()
	if st.Mode != ModeArea || st.Drawing || st.Provisional != nil || len(st.Points) != 0 {
		t.Errorf("expected a fresh area session, got %+v", st)
	}
}

func TestCloseGesture(t *testing.T) {
	s := New()
	s.Select(ModeArea)
	s.Handle(down(0, 0))
	s.Handle(down(1, 0))

	_, err := s.Close()
	var ptsErr *measurement.InsufficientPointsError
	if !errors.As(err, &ptsErr) {
		t.Fatalf("expected InsufficientPointsError, got %v", err)
	}
	if len(s.Points()) != 2 {
		t.Errorf("a failed close must keep the points")
	}

	s.Handle(down(1, 1))
	a, err := s.Close()
	if err != nil || a.Kind != ActionArea {
		t.Fatalf("expected an area action, got %+v, %v", a, err)
	}
}

func TestCancelMidArea(t *testing.T) {
	s := New()
	s.Select(ModeArea)
	s.Handle(down(0, 0))
	s.Handle(down(5, 0))
	s.Cancel()

	st := s.Snapshot()
	if st.Mode != ModeIdle || len(st.Points) != 0 || st.Drawing {
		t.Errorf("expected idle with no points, got %+v", st)
	}
}

func TestCountCompletesOnEveryClick(t *testing.T) {
	s := New()
	s.Select(ModeCount)
	for i := 0; i < 3; i++ {
		if a := s.Handle(down(float64(i), 0)); a.Kind != ActionCount {
			t.Fatalf("click %d: expected a count action, got %v", i, a.Kind)
		}
	}
	if len(s.Points()) != 0 {
		t.Errorf("count must not accumulate points")
	}
}

func TestIdleIgnoresPointer(t *testing.T) {
	s := New()
	if a := s.Handle(down(1, 1)); a.Kind != ActionNone {
		t.Errorf("idle must ignore pointer-down")
	}
	if len(s.Points()) != 0 {
		t.Errorf("idle must not accumulate points")
	}
}

func TestModeSelectClearsPoints(t *testing.T) {
	s := New()
	s.Select(ModeDistance)
	s.Handle(down(1, 1))
	s.Select(ModeArea)
	if len(s.Points()) != 0 || s.Mode() != ModeArea {
		t.Errorf("mode select must clear points")
	}
}

func TestRescale(t *testing.T) {
	s := New()
	s.Select(ModeArea)
	s.Handle(down(2, 4))
	s.Handle(Input{Kind: PointerMove, Point: geometry.NewPoint(1, 1)})
	s.Rescale(2)

	st := s.Snapshot()
	if st.Points[0] != geometry.NewPoint(4, 8) || *st.Provisional != geometry.NewPoint(2, 2) {
		t.Errorf("unexpected rescaled state %+v", st)
	}
}
