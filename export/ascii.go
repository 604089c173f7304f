package export

import (
	"fmt"

	"erd/canvas"
	"erd/diagram"
	"erd/scene"
)

// ASCIIExporter exports diagrams to ASCII/Unicode art format
type ASCIIExporter struct {
	cellWidth  float64
	cellHeight float64
}

// NewASCIIExporter creates a new ASCII exporter with the default cell size
func NewASCIIExporter() *ASCIIExporter {
	return NewASCIIExporterWithCellSize(canvas.DefaultCellWidth, canvas.DefaultCellHeight)
}

// NewASCIIExporterWithCellSize creates an ASCII exporter that maps each
// character cell to cellWidth by cellHeight world units.
func NewASCIIExporterWithCellSize(cellWidth, cellHeight float64) *ASCIIExporter {
	return &ASCIIExporter{cellWidth: cellWidth, cellHeight: cellHeight}
}

// Export draws the diagram the way the editor shows it, without selection
func (e *ASCIIExporter) Export(d *diagram.Diagram) (string, error) {
	if d == nil {
		return "", ErrNilDiagram
	}

	output, err := canvas.RenderString(scene.Build(d, scene.View{}), e.cellWidth, e.cellHeight)
	if err != nil {
		return "", fmt.Errorf("failed to render diagram: %w", err)
	}
	return output, nil
}

// GetFileExtension returns the recommended file extension
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "ASCII/Unicode Art"
}
