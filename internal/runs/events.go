package runs

// NodeStartData is the payload of a graph node start event.
type NodeStartData struct {
	Node          string         `json:"node"`
	Iteration     int            `json:"iteration"`
	InputSnapshot map[string]any `json:"input_snapshot,omitempty"`
}

// NodeCompleteData is the payload of a graph node completion event.
type NodeCompleteData struct {
	Node           string         `json:"node"`
	Iteration      int            `json:"iteration"`
	Error          bool           `json:"error"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	OutputSnapshot map[string]any `json:"output_snapshot,omitempty"`
}
