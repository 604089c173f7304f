package diagram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// FileName is the name used when a diagram is exported to disk.
const FileName = "erd-diagram.json"

// Marshal converts a diagram to indented JSON in the persisted document shape.
func Marshal(d *Diagram) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("diagram is nil")
	}
	out := d.Clone()
	normalize(out)
	return json.MarshalIndent(out, "", "  ")
}

// Parse decodes and validates a persisted document. It never returns a
// partially usable diagram: any failure yields a nil diagram and an error
// wrapping ErrInvalidDocument.
func Parse(data []byte) (*Diagram, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var d Diagram
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after document", ErrInvalidDocument)
	}

	normalize(&d)
	EnsureIDs(&d)
	if err := Validate(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Read parses a document from r.
func Read(r io.Reader) (*Diagram, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading diagram: %w", err)
	}
	return Parse(data)
}
