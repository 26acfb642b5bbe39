package script

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/philipparndt/gotakeoff/internal/document"
	"github.com/philipparndt/gotakeoff/internal/engine"
	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/internal/session"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const takeoff = `
# ground floor
load 400 300
calibrate 10
down 0 0
down 200 0   # 20 px per foot

mode distance
describe Wall A
down 0 0
move 0 50
down 0 100

mode area
down 0 0
down 40 0
down 40 40
up 40 40 close

mode count
down 5 5
`

func newRunner(t *testing.T) (*Runner, *engine.Engine) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	log := logrus.NewEntry(logger)
	e := engine.New(&engine.Options{Logger: log})
	return NewRunner(e, nil, log), e
}

func TestParse(t *testing.T) {
	s, err := ParseString(takeoff)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(s.Commands) != 16 {
		t.Fatalf("expected 16 commands, got %d", len(s.Commands))
	}

	first := s.Commands[0]
	if first.Op != OpLoad || first.Line != 3 || first.Width != 400 || first.Height != 300 {
		t.Errorf("unexpected load command %+v", first)
	}
	if c := s.Commands[3]; c.Op != OpDown || c.Point.X != 200 || c.Line != 6 {
		t.Errorf("expected the trailing comment to be dropped, got %+v", c)
	}
	if c := s.Commands[5]; c.Text != "Wall A" {
		t.Errorf("expected description 'Wall A', got %q", c.Text)
	}
	if c := s.Commands[13]; c.Op != OpUp || !c.Close {
		t.Errorf("expected a closing pointer up, got %+v", c)
	}
	if c := s.Commands[14]; c.Mode != session.ModeCount {
		t.Errorf("expected count mode, got %v", c.Mode)
	}
}

func TestParseVariants(t *testing.T) {
	s, err := ParseString("load plan.pdf 2\ncalibrate 1/4\"=1'\ncalibrate custom\ncalibrate\nanswer cancel\nanswer 12.5\nzoom in\nzoom 2\nrotate -90\nvisible Area false\ncolor Area #ff000080")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	c := s.Commands
	if c[0].Path != "plan.pdf" || c[0].Page != 1 {
		t.Errorf("unexpected load %+v", c[0])
	}
	if c[1].Notation != `1/4"=1'` || c[2].Notation != "" || c[3].Value != 0 {
		t.Errorf("unexpected calibrate commands %+v %+v %+v", c[1], c[2], c[3])
	}
	if c[4].Confirmed || !c[5].Confirmed || c[5].Value != 12.5 {
		t.Errorf("unexpected answers %+v %+v", c[4], c[5])
	}
	if c[6].Step != "in" || c[7].Value != 2 || c[8].Degrees != -90 {
		t.Errorf("unexpected view commands")
	}
	if c[9].Visible || c[10].Color != "#ff000080" {
		t.Errorf("unexpected layer commands %+v %+v", c[9], c[10])
	}
}

func TestColorsSurviveComments(t *testing.T) {
	s, err := ParseString("# layer colors\ncolor Area #ff0000  # red\ncolor Distance #00ff00cc\t# translucent green\n#0000ff is a comment too")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(s.Commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(s.Commands))
	}
	if c := s.Commands[0]; c.Color != "#ff0000" || c.Line != 2 {
		t.Errorf("unexpected first color command %+v", c)
	}
	if c := s.Commands[1]; c.Color != "#00ff00cc" || c.Line != 3 {
		t.Errorf("unexpected second color command %+v", c)
	}
}

func TestStripComment(t *testing.T) {
	tests := []struct{ in, want string }{
		{"down 1 2", "down 1 2"},
		{"# whole line", ""},
		{"down 1 2 # trailing", "down 1 2 "},
		{"color Area #abcdef", "color Area #abcdef"},
		{"color Area #abcdef #note", "color Area #abcdef "},
		{"color Area #abcdeg", "color Area "},
		{"describe a#b", "describe a#b"},
	}
	for _, tt := range tests {
		if got := stripComment(tt.in); got != tt.want {
			t.Errorf("stripComment(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []string{
		"jump 1 2",
		"down 1",
		"down a b",
		"down 1 2 shift",
		"move 1 2 3",
		"load 0 10",
		"load 10",
		"load plan.pdf 0",
		"calibrate -3",
		"calibrate 1/0",
		"answer x",
		"zoom fast",
		"rotate ninety",
		"visible Area maybe",
		"color Area blue",
		"mode volume",
		"close now",
	}
	for _, line := range tests {
		_, err := ParseString("load 10 10\n\n" + line)
		var syntaxErr *SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Errorf("%q: expected a SyntaxError, got %v", line, err)
			continue
		}
		if syntaxErr.Line != 3 {
			t.Errorf("%q: expected line 3, got %d", line, syntaxErr.Line)
		}
	}
}

func TestRun(t *testing.T) {
	r, e := newRunner(t)
	s, err := ParseString(takeoff)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var completed []Op
	r.OnOutcome = func(c Command, _ engine.Outcome) {
		completed = append(completed, c.Op)
	}
	if err := r.Run(context.Background(), s); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(completed) != 4 {
		t.Errorf("expected 4 completions, got %v", completed)
	}
	if r.Source() == nil {
		t.Errorf("expected the loaded source to be kept")
	}

	if e.Ratio() != 20 {
		t.Errorf("expected ratio 20, got %v", e.Ratio())
	}
	layers := e.Layers()
	dist := layers[1].Measurements
	if len(dist) != 2 {
		t.Fatalf("expected a distance and a count, got %d", len(dist))
	}
	if dist[0].Value != 5 || dist[0].Description != "Wall A" {
		t.Errorf("unexpected distance %+v", dist[0])
	}
	if dist[1].Kind != measurement.KindCount {
		t.Errorf("expected a count, got %v", dist[1].Kind)
	}
	area := layers[2].Measurements
	if len(area) != 1 || math.Abs(area[0].Value-2) > 1e-9 {
		t.Errorf("expected an area of 2, got %+v", area)
	}
}

func TestRunPrompted(t *testing.T) {
	r, e := newRunner(t)
	s, err := ParseString("load 300 300\ncalibrate\ndown 0 0\ndown 100 0\nanswer 50")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var outcomes []engine.Outcome
	r.OnOutcome = func(_ Command, out engine.Outcome) {
		outcomes = append(outcomes, out)
	}
	if err := r.Run(context.Background(), s); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(outcomes) != 2 || !outcomes[0].AwaitingDistance || outcomes[1].Calibration == nil {
		t.Errorf("unexpected outcomes %+v", outcomes)
	}
	if e.Ratio() != 2 {
		t.Errorf("expected ratio 2, got %v", e.Ratio())
	}
}

func TestRunErrors(t *testing.T) {
	r, _ := newRunner(t)
	s, _ := ParseString("load 100 100\nmode area\ndown 0 0\ndown 1 0\nclose")

	err := r.Run(context.Background(), s)
	var lineErr *LineError
	if !errors.As(err, &lineErr) || lineErr.Line != 5 {
		t.Fatalf("expected a failure on line 5, got %v", err)
	}
	var ptsErr *measurement.InsufficientPointsError
	if !errors.As(err, &ptsErr) {
		t.Errorf("expected InsufficientPointsError, got %v", err)
	}

	s, _ = ParseString("load plan.pdf")
	if err := r.Run(context.Background(), s); !errors.Is(err, document.ErrRasterizerUnavailable) {
		t.Errorf("expected ErrRasterizerUnavailable without an opener, got %v", err)
	}

	s, _ = ParseString("mode distance")
	if err := r.Run(context.Background(), s); err != nil {
		t.Errorf("mode after a failed load: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx, s); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestOpener(t *testing.T) {
	logger, _ := test.NewNullLogger()
	e := engine.New(nil)
	var opened string
	r := NewRunner(e, func(path string) document.Source {
		opened = path
		return document.NewBlank(document.PageSize{Width: 10, Height: 10}, document.PageSize{Width: 20, Height: 30})
	}, logrus.NewEntry(logger))

	s, _ := ParseString("load plan.pdf 2")
	if err := r.Run(context.Background(), s); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if opened != "plan.pdf" {
		t.Errorf("expected plan.pdf to be opened, got %q", opened)
	}
	if _, page, ok := e.Document(); !ok || page != 1 {
		t.Errorf("expected page index 1 to be loaded, got %d", page)
	}
}
