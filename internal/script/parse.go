// Package script reads line-oriented takeoff event scripts and replays them
// against an engine. One command per line, '#' starts a comment:
//
//	load 800 600
//	calibrate 10
//	down 0 0
//	down 200 0
//	mode area
//	down 10 10
//	...
package script

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/internal/session"
	"github.com/philipparndt/gotakeoff/pkg/geometry"
	"github.com/philipparndt/gotakeoff/pkg/scale"
)

// Op names a script command
type Op string

const (
	OpLoad      Op = "load"
	OpMode      Op = "mode"
	OpCalibrate Op = "calibrate"
	OpDown      Op = "down"
	OpMove      Op = "move"
	OpUp        Op = "up"
	OpClose     Op = "close"
	OpCancel    Op = "cancel"
	OpAnswer    Op = "answer"
	OpZoom      Op = "zoom"
	OpRotate    Op = "rotate"
	OpDescribe  Op = "describe"
	OpVisible   Op = "visible"
	OpColor     Op = "color"
)

// Command is one parsed script line. Only the fields used by Op are set.
type Command struct {
	Line int
	Op   Op

	// load: a blank page of Width x Height, or Path and Page
	Width, Height float64
	Path          string
	Page          int

	Mode     session.Mode
	Point    geometry.Point
	Close    bool
	Value    float64
	Notation string
	// Confirmed is false for "answer cancel"
	Confirmed bool
	// Step is "in" or "out" for relative zoom
	Step    string
	Degrees int
	Text    string
	Layer   string
	Visible bool
	Color   string
}

// Script is a parsed event script
type Script struct {
	Commands []Command
}

// SyntaxError reports an unparsable line
type SyntaxError struct {
	Line   int
	Text   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// stripComment cuts text at the first '#' that starts a word and is not a
// #rrggbb or #rrggbbaa color literal.
func stripComment(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] != '#' || (i > 0 && text[i-1] != ' ' && text[i-1] != '\t') {
			continue
		}
		word := text[i+1:]
		if j := strings.IndexAny(word, " \t"); j >= 0 {
			word = word[:j]
		}
		if i > 0 && isHexColor(word) {
			continue
		}
		return text[:i]
	}
	return text
}

func isHexColor(s string) bool {
	if len(s) != 6 && len(s) != 8 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// Parse reads a whole script. The first bad line aborts parsing.
func Parse(r io.Reader) (*Script, error) {
	s := &Script{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		text = strings.TrimSpace(stripComment(text))
		if text == "" {
			continue
		}
		cmd, err := parseLine(text)
		if err != nil {
			return nil, &SyntaxError{Line: line, Text: text, Reason: err.Error()}
		}
		cmd.Line = line
		s.Commands = append(s.Commands, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseString is Parse for in-memory scripts
func ParseString(s string) (*Script, error) {
	return Parse(strings.NewReader(s))
}

func parseLine(text string) (Command, error) {
	fields := strings.Fields(text)
	cmd := Command{Op: Op(strings.ToLower(fields[0]))}
	args := fields[1:]
	rest := strings.TrimSpace(text[len(fields[0]):])

	var err error
	switch cmd.Op {
	case OpLoad:
		err = parseLoad(&cmd, args)
	case OpMode:
		if err = arity(args, 1, 1); err == nil {
			cmd.Mode, err = session.ParseMode(args[0])
		}
	case OpCalibrate:
		err = parseCalibrate(&cmd, rest)
	case OpDown, OpUp:
		if err = arity(args, 2, 3); err == nil {
			cmd.Point, err = parsePoint(args[0], args[1])
		}
		if err == nil && len(args) == 3 {
			if args[2] != "close" {
				err = fmt.Errorf("unexpected modifier %s", args[2])
			}
			cmd.Close = true
		}
	case OpMove:
		if err = arity(args, 2, 2); err == nil {
			cmd.Point, err = parsePoint(args[0], args[1])
		}
	case OpClose, OpCancel:
		err = arity(args, 0, 0)
	case OpAnswer:
		err = parseAnswer(&cmd, args)
	case OpZoom:
		err = parseZoom(&cmd, args)
	case OpRotate:
		if err = arity(args, 1, 1); err == nil {
			cmd.Degrees, err = strconv.Atoi(args[0])
		}
	case OpDescribe:
		cmd.Text = rest
	case OpVisible:
		if err = arity(args, 2, 2); err == nil {
			cmd.Layer = args[0]
			cmd.Visible, err = strconv.ParseBool(args[1])
		}
	case OpColor:
		if err = arity(args, 2, 2); err == nil {
			cmd.Layer, cmd.Color = args[0], args[1]
			_, err = measurement.ParseColor(cmd.Color)
		}
	default:
		err = fmt.Errorf("unknown command %s", fields[0])
	}
	return cmd, err
}

func arity(args []string, min, max int) error {
	if len(args) < min || len(args) > max {
		if min == max {
			return fmt.Errorf("expected %d arguments, got %d", min, len(args))
		}
		return fmt.Errorf("expected %d to %d arguments, got %d", min, max, len(args))
	}
	return nil
}

func parseLoad(cmd *Command, args []string) error {
	if err := arity(args, 1, 2); err != nil {
		return err
	}
	w, werr := strconv.ParseFloat(args[0], 64)
	if werr != nil {
		// a document path with an optional page number
		cmd.Path = args[0]
		if len(args) == 2 {
			page, err := strconv.Atoi(args[1])
			if err != nil || page < 1 {
				return fmt.Errorf("invalid page %s", args[1])
			}
			cmd.Page = page - 1
		}
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("expected width and height")
	}
	h, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid height %s", args[1])
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("page size must be positive")
	}
	cmd.Width, cmd.Height = w, h
	return nil
}

func parseCalibrate(cmd *Command, rest string) error {
	if rest == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(rest, 64); err == nil {
		if v <= 0 {
			return fmt.Errorf("known distance must be positive")
		}
		cmd.Value = v
		return nil
	}
	if !scale.IsNotation(rest) {
		return nil
	}
	if _, err := scale.ParseNotation(rest); err != nil {
		return err
	}
	cmd.Notation = rest
	return nil
}

func parseAnswer(cmd *Command, args []string) error {
	if err := arity(args, 1, 1); err != nil {
		return err
	}
	if args[0] == "cancel" {
		return nil
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid distance %s", args[0])
	}
	cmd.Value = v
	cmd.Confirmed = true
	return nil
}

func parseZoom(cmd *Command, args []string) error {
	if err := arity(args, 1, 1); err != nil {
		return err
	}
	switch args[0] {
	case "in", "out":
		cmd.Step = args[0]
		return nil
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid zoom %s", args[0])
	}
	cmd.Value = v
	return nil
}

func parsePoint(xs, ys string) (geometry.Point, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid x coordinate %s", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid y coordinate %s", ys)
	}
	return geometry.NewPoint(x, y), nil
}
