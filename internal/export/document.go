// Package export turns the stored collections into downloadable artifacts
// and reads JSON exports back in.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/MarcoPoloResearchLab/gripmetrics/internal/training"
)

// Document is the full JSON export.
type Document struct {
	Exported    string                `json:"exported"`
	Workouts    []training.Workout    `json:"workouts"`
	Feedbacks   []training.Feedback   `json:"feedbacks"`
	Evaluations []training.Evaluation `json:"evaluations"`
}

func (d Document) normalized() Document {
	if d.Workouts == nil {
		d.Workouts = []training.Workout{}
	}
	if d.Feedbacks == nil {
		d.Feedbacks = []training.Feedback{}
	}
	if d.Evaluations == nil {
		d.Evaluations = []training.Evaluation{}
	}
	return d
}

// EncodeJSON renders document with two-space indentation and no trailing newline.
// Identical documents always encode to identical bytes.
func EncodeJSON(document Document) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(document.normalized()); err != nil {
		return nil, fmt.Errorf("export: encode json: %w", err)
	}
	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}

// DecodeDocument parses a JSON export. Missing collections decode as empty.
// Derived evaluation fields are taken as written.
func DecodeDocument(r io.Reader) (Document, error) {
	var document Document
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&document); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return document.normalized(), nil
}
