// Package export provides functionality to export diagrams to various text-based formats
package export

import (
	"errors"
	"fmt"
	"strings"

	"erd/diagram"
)

// Format represents an export format
type Format string

const (
	// FormatJSON exports the persisted document
	FormatJSON Format = "json"
	// FormatMermaid exports to Mermaid erDiagram syntax
	FormatMermaid Format = "mermaid"
	// FormatPlantUML exports to PlantUML Chen notation
	FormatPlantUML Format = "plantuml"
	// FormatYAML exports a nested YAML outline
	FormatYAML Format = "yaml"
	// FormatASCII exports to ASCII/Unicode art
	FormatASCII Format = "ascii"
)

var (
	// ErrNilDiagram is returned when there is nothing to export.
	ErrNilDiagram = errors.New("diagram is nil")
	// ErrEmptyDiagram is returned by exporters whose syntax needs at least one entity.
	ErrEmptyDiagram = errors.New("diagram has no entities")
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a diagram to the target format
	Export(d *diagram.Diagram) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatMermaid:
		return NewMermaidExporter(), nil
	case FormatPlantUML:
		return NewPlantUMLExporter(), nil
	case FormatYAML:
		return NewYAMLExporter(), nil
	case FormatASCII:
		return NewASCIIExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "plantuml", "puml", "chen":
		return FormatPlantUML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "ascii", "text", "txt":
		return FormatASCII, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatJSON,
		FormatMermaid,
		FormatPlantUML,
		FormatYAML,
		FormatASCII,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatJSON:     "Diagram document (the load/save format)",
		FormatMermaid:  "Mermaid erDiagram syntax (for Markdown)",
		FormatPlantUML: "PlantUML Chen notation",
		FormatYAML:     "YAML outline with attributes nested under entities",
		FormatASCII:    "ASCII/Unicode art",
	}
}
