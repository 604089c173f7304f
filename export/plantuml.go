package export

import (
	"fmt"
	"strings"

	"erd/diagram"
)

// PlantUMLExporter exports diagrams to PlantUML Chen notation
type PlantUMLExporter struct{}

// NewPlantUMLExporter creates a new PlantUML exporter
func NewPlantUMLExporter() *PlantUMLExporter {
	return &PlantUMLExporter{}
}

// Export converts the diagram to a @startchen document
func (e *PlantUMLExporter) Export(d *diagram.Diagram) (string, error) {
	if d == nil {
		return "", ErrNilDiagram
	}
	if len(d.Entities) == 0 {
		return "", ErrEmptyDiagram
	}

	names := newNameTable(d)

	var sb strings.Builder
	sb.WriteString("@startchen\n")

	for _, entity := range d.Entities {
		name, _ := names.name(entity.ID)
		sb.WriteString(fmt.Sprintf("entity %s {\n", name))
		for _, attr := range d.AttributesOf(entity.ID) {
			sb.WriteString(fmt.Sprintf("  %s\n", identifier(attr.Label, "attribute")))
		}
		sb.WriteString("}\n")
	}

	for _, rel := range d.Relationships {
		name, _ := names.name(rel.ID)
		sb.WriteString(fmt.Sprintf("relationship %s {\n}\n", name))
	}

	// Add a blank line between declarations and connections
	var lines []string
	for _, rel := range d.Relationships {
		relName, _ := names.name(rel.ID)
		var connected []string
		for _, id := range rel.ConnectedEntities {
			if _, ok := names.name(id); ok {
				connected = append(connected, id)
			}
		}
		// A recursive relationship is drawn with two lines to the same entity
		if len(connected) == 1 && rel.IsSelf() {
			connected = append(connected, connected[0])
		}
		for _, id := range connected {
			entityName, _ := names.name(id)
			lines = append(lines, fmt.Sprintf("%s -%s- %s", relName, chenCardinality(rel.CardinalityFor(id)), entityName))
		}
	}
	if len(lines) > 0 {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(lines, "\n"))
		sb.WriteString("\n")
	}

	sb.WriteString("@endchen\n")
	return sb.String(), nil
}

// chenCardinality maps a cardinality to the Chen connector label
func chenCardinality(c diagram.Cardinality) string {
	switch c {
	case diagram.CardinalityMany:
		return "N"
	case diagram.CardinalityZeroOrOne:
		return "(0,1)"
	case diagram.CardinalityOneOrMany:
		return "(1,N)"
	default:
		return "1"
	}
}

// GetFileExtension returns the recommended file extension
func (e *PlantUMLExporter) GetFileExtension() string {
	return ".puml"
}

// GetFormatName returns the format name
func (e *PlantUMLExporter) GetFormatName() string {
	return "PlantUML"
}
