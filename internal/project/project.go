// Package project stores a takeoff next to its drawing as a JSON sidecar.
package project

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/philipparndt/gotakeoff/internal/calibration"
	"github.com/philipparndt/gotakeoff/internal/engine"
	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/pkg/geometry"
	pkgerrors "github.com/pkg/errors"
)

// Version of the file format
const Version = "1.0"

// DefaultSuffix is appended to the drawing path
const DefaultSuffix = ".takeoff.json"

// File represents the JSON structure of a saved takeoff
type File struct {
	Version      string            `json:"version"`
	Document     string            `json:"document"`
	Page         int               `json:"page"`
	Ratio        float64           `json:"ratio"`
	Method       string            `json:"method,omitempty"`
	Zoom         float64           `json:"zoom"`
	Rotation     int               `json:"rotation"`
	Layers       []LayerData       `json:"layers"`
	Measurements []MeasurementData `json:"measurements"`
}

// LayerData represents a saved layer
type LayerData struct {
	Name    string `json:"name"`
	Color   string `json:"color"`
	Visible bool   `json:"visible"`
}

// MeasurementData represents a saved measurement
type MeasurementData struct {
	ID          string      `json:"id"`
	Kind        string      `json:"kind"`
	Value       float64     `json:"value"`
	Unit        string      `json:"unit"`
	Description string      `json:"description"`
	Layer       string      `json:"layer"`
	Points      []PointData `json:"points"`
}

// PointData represents a point in document pixel space
type PointData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Path returns the sidecar path of a drawing
func Path(documentPath, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return documentPath + suffix
}

// FromSnapshot converts engine state to its file form
func FromSnapshot(snap engine.Snapshot) *File {
	f := &File{
		Version:      Version,
		Document:     snap.Document,
		Page:         snap.Page,
		Ratio:        snap.Ratio,
		Method:       string(snap.Method),
		Zoom:         snap.View.Zoom,
		Rotation:     snap.View.Rotation,
		Layers:       make([]LayerData, 0, len(snap.Layers)),
		Measurements: make([]MeasurementData, 0),
	}

	for _, layer := range snap.Layers {
		f.Layers = append(f.Layers, LayerData{
			Name:    layer.Name,
			Color:   measurement.FormatColor(layer.Color),
			Visible: layer.Visible,
		})
		for _, m := range layer.Measurements {
			data := MeasurementData{
				ID:          m.ID.String(),
				Kind:        string(m.Kind),
				Value:       m.Value,
				Unit:        m.Unit,
				Description: m.Description,
				Layer:       layer.Name,
				Points:      make([]PointData, 0, len(m.Points)),
			}
			for _, p := range m.Points {
				data.Points = append(data.Points, PointData{X: p.X, Y: p.Y})
			}
			f.Measurements = append(f.Measurements, data)
		}
	}
	return f
}

// RestoreState converts the file into engine state. Invariants of the
// individual records are checked by the engine.
func (f *File) RestoreState() (engine.RestoreState, error) {
	state := engine.RestoreState{
		Ratio:    f.Ratio,
		Method:   calibration.Method(f.Method),
		Zoom:     f.Zoom,
		Rotation: f.Rotation,
	}
	if state.Zoom == 0 {
		state.Zoom = 1
	}

	index := make(map[string]int)
	for _, l := range f.Layers {
		c, err := measurement.ParseColor(l.Color)
		if err != nil {
			return engine.RestoreState{}, pkgerrors.Wrapf(err, "layer %s", l.Name)
		}
		index[l.Name] = len(state.Layers)
		state.Layers = append(state.Layers, measurement.Layer{Name: l.Name, Color: c, Visible: l.Visible})
	}

	for i, data := range f.Measurements {
		id, err := uuid.Parse(data.ID)
		if err != nil && data.ID != "" {
			return engine.RestoreState{}, pkgerrors.Wrapf(err, "measurement %d", i)
		}
		m := measurement.Measurement{
			ID:          id,
			Kind:        measurement.Kind(data.Kind),
			Value:       data.Value,
			Unit:        data.Unit,
			Description: data.Description,
		}
		for _, p := range data.Points {
			m.Points = append(m.Points, geometry.NewPoint(p.X, p.Y))
		}

		layer := data.Layer
		if layer == "" {
			layer = measurement.LayerFor(m.Kind)
		}
		li, ok := index[layer]
		if !ok {
			li = len(state.Layers)
			index[layer] = li
			state.Layers = append(state.Layers, defaultLayer(layer))
		}
		state.Layers[li].Measurements = append(state.Layers[li].Measurements, m)
	}
	return state, nil
}

func defaultLayer(name string) measurement.Layer {
	c := measurement.ColorDistance
	switch name {
	case measurement.LayerCalibration:
		c = measurement.ColorCalibration
	case measurement.LayerArea:
		c = measurement.ColorArea
	}
	return measurement.Layer{Name: name, Color: c, Visible: true}
}

// Save writes f to path
func Save(path string, f *File) error {
	jsonData, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(err, "failed to marshal takeoff")
	}
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return pkgerrors.Wrapf(err, "failed to write takeoff file %s", path)
	}
	return nil
}

// Load reads a takeoff file. A missing file yields an error matching
// fs.ErrNotExist.
func Load(path string) (*File, error) {
	jsonData, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read takeoff file %s", path)
	}

	var f File
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to parse takeoff file %s", path)
	}
	if f.Version == "" {
		return nil, pkgerrors.Errorf("takeoff file %s has no version", path)
	}
	return &f, nil
}
