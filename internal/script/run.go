package script

import (
	"context"
	"fmt"

	"github.com/philipparndt/gotakeoff/internal/calibration"
	"github.com/philipparndt/gotakeoff/internal/document"
	"github.com/philipparndt/gotakeoff/internal/engine"
	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/sirupsen/logrus"
)

// Opener opens the document named by a load command
type Opener func(path string) document.Source

// LineError is an engine failure while replaying a line
type LineError struct {
	Line int
	Op   Op
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.Op, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Runner replays scripts against an engine
type Runner struct {
	eng    *engine.Engine
	open   Opener
	log    *logrus.Entry
	source document.Source

	// OnOutcome is called for every command that completed a measurement,
	// a calibration or is waiting for a distance
	OnOutcome func(Command, engine.Outcome)
}

// NewRunner creates a runner. Without open, scripts can only load blank pages.
func NewRunner(eng *engine.Engine, open Opener, log *logrus.Entry) *Runner {
	if log == nil {
		log = logrus.WithField("component", "script")
	}
	return &Runner{eng: eng, open: open, log: log}
}

// Source is the document of the last load command
func (r *Runner) Source() document.Source {
	return r.source
}

// Run executes the commands in order and stops at the first failure
func (r *Runner) Run(ctx context.Context, s *Script) error {
	for _, cmd := range s.Commands {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := r.exec(ctx, cmd)
		if err != nil {
			return &LineError{Line: cmd.Line, Op: cmd.Op, Err: err}
		}
		if out.Measurement != nil || out.Calibration != nil || out.AwaitingDistance {
			r.log.WithField("line", cmd.Line).Debugf("%s completed", cmd.Op)
			if r.OnOutcome != nil {
				r.OnOutcome(cmd, out)
			}
		}
	}
	return nil
}

func (r *Runner) exec(ctx context.Context, cmd Command) (engine.Outcome, error) {
	e := r.eng
	none := engine.Outcome{}

	switch cmd.Op {
	case OpLoad:
		return none, r.load(ctx, cmd)
	case OpMode:
		return none, e.SelectMode(cmd.Mode)
	case OpCalibrate:
		return none, e.BeginCalibration(calibration.Options{KnownDistance: cmd.Value, Notation: cmd.Notation})
	case OpDown:
		return e.PointerDown(cmd.Point, engine.Modifiers{Close: cmd.Close})
	case OpMove:
		return none, e.PointerMove(cmd.Point)
	case OpUp:
		return e.PointerUp(cmd.Point, engine.Modifiers{Close: cmd.Close})
	case OpClose:
		return e.CloseShape()
	case OpCancel:
		e.Cancel()
		return none, nil
	case OpAnswer:
		return e.SubmitDistance(cmd.Value, cmd.Confirmed)
	case OpZoom:
		switch cmd.Step {
		case "in":
			return none, e.ZoomIn()
		case "out":
			return none, e.ZoomOut()
		}
		return none, e.SetZoom(cmd.Value)
	case OpRotate:
		return none, e.SetRotation(cmd.Degrees)
	case OpDescribe:
		e.SetDescription(cmd.Text)
		return none, nil
	case OpVisible:
		return none, e.SetLayerVisible(cmd.Layer, cmd.Visible)
	case OpColor:
		c, err := measurement.ParseColor(cmd.Color)
		if err != nil {
			return none, err
		}
		return none, e.SetLayerColor(cmd.Layer, c)
	}
	return none, fmt.Errorf("unsupported command %s", cmd.Op)
}

func (r *Runner) load(ctx context.Context, cmd Command) error {
	var src document.Source
	if cmd.Path == "" {
		src = document.NewBlank(document.PageSize{Width: cmd.Width, Height: cmd.Height})
	} else {
		if r.open == nil {
			return fmt.Errorf("cannot open %s: %w", cmd.Path, document.ErrRasterizerUnavailable)
		}
		src = r.open(cmd.Path)
	}

	info, err := src.Info(ctx)
	if err != nil {
		return err
	}
	if err := r.eng.LoadDocument(info, cmd.Page); err != nil {
		return err
	}
	r.source = src
	return nil
}
