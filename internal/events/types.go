package events

import "encoding/json"

// Event name constants
const (
	EngineChange = "engine.change"
	Snapshot     = "engine.snapshot"
	FileChanged  = "document.changed"
)

// Event is a generic SSE event.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// EngineChangeEvent is the typed payload for engine.change.
type EngineChangeEvent struct {
	Kind         string  `json:"kind"`
	Mode         string  `json:"mode"`
	Phase        string  `json:"phase"`
	Ratio        float64 `json:"ratio"`
	Measurements int     `json:"measurements"`
	Ts           int64   `json:"ts"`
}

// FileChangedEvent is the typed payload for document.changed.
type FileChangedEvent struct {
	Path string `json:"path"`
	Ts   int64  `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// If Data is empty, it returns the zero value of T with a nil error.
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
