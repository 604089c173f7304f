package export

import (
	"fmt"
	"strings"

	"erd/diagram"
)

// MermaidExporter exports diagrams to Mermaid erDiagram syntax
type MermaidExporter struct{}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{}
}

// Export converts the diagram to Mermaid syntax. Entities are declared first
// with their attributes, followed by one line per relationship connection.
func (e *MermaidExporter) Export(d *diagram.Diagram) (string, error) {
	if d == nil {
		return "", ErrNilDiagram
	}
	if len(d.Entities) == 0 {
		return "", ErrEmptyDiagram
	}

	names := newNameTable(d)

	var sb strings.Builder
	sb.WriteString("erDiagram\n")

	for _, entity := range d.Entities {
		name, _ := names.name(entity.ID)
		attrs := d.AttributesOf(entity.ID)
		if len(attrs) == 0 {
			sb.WriteString(fmt.Sprintf("    %s\n", name))
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s {\n", name))
		for _, attr := range attrs {
			sb.WriteString(fmt.Sprintf("        %s\n", e.formatAttribute(attr)))
		}
		sb.WriteString("    }\n")
	}

	// Add a blank line between entities and relationships
	if len(d.Relationships) > 0 {
		sb.WriteString("\n")
	}

	for _, rel := range d.Relationships {
		e.writeRelationship(&sb, rel, names)
	}

	return sb.String(), nil
}

// formatAttribute renders an attribute row. Mermaid needs a type, and the
// original label is kept as the row comment when it is not a valid name.
func (e *MermaidExporter) formatAttribute(attr diagram.Attribute) string {
	name := identifier(attr.Label, "attribute")
	label := e.escapeLabel(attr.Label)
	if label != name && label != "" {
		return fmt.Sprintf("string %s \"%s\"", name, label)
	}
	return "string " + name
}

// writeRelationship emits the connections of one relationship. Mermaid
// relationships are binary, so relationships joining more than two entities
// are written as one line from the first entity to each of the others.
func (e *MermaidExporter) writeRelationship(sb *strings.Builder, rel diagram.Relationship, names *nameTable) {
	var ids []string
	for _, id := range rel.ConnectedEntities {
		if _, ok := names.name(id); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return
	}

	label := e.escapeLabel(rel.Label)
	line := func(a, b string) {
		nameA, _ := names.name(a)
		nameB, _ := names.name(b)
		sb.WriteString(fmt.Sprintf("    %s %s--%s %s : \"%s\"\n",
			nameA, leftMarker(rel.CardinalityFor(a)), rightMarker(rel.CardinalityFor(b)), nameB, label))
	}

	if len(ids) == 1 {
		if rel.IsSelf() {
			line(ids[0], ids[0])
			return
		}
		// Mermaid has no one-ended relationship
		name, _ := names.name(ids[0])
		sb.WriteString(fmt.Sprintf("    %%%% %s connects %s\n", label, name))
		return
	}
	if len(ids) > 2 {
		joined := make([]string, len(ids))
		for i, id := range ids {
			joined[i], _ = names.name(id)
		}
		sb.WriteString(fmt.Sprintf("    %%%% %s joins %s\n", label, strings.Join(joined, ", ")))
	}
	for _, other := range ids[1:] {
		line(ids[0], other)
	}
}

// escapeLabel drops the characters that would end a quoted Mermaid string
func (e *MermaidExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `"`, `'`)
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

// leftMarker returns the crow's foot marker written before the dashes.
func leftMarker(c diagram.Cardinality) string {
	switch c {
	case diagram.CardinalityZeroOrOne:
		return "|o"
	case diagram.CardinalityMany:
		return "}o"
	case diagram.CardinalityOneOrMany:
		return "}|"
	default:
		return "||"
	}
}

// rightMarker returns the crow's foot marker written after the dashes.
func rightMarker(c diagram.Cardinality) string {
	switch c {
	case diagram.CardinalityZeroOrOne:
		return "o|"
	case diagram.CardinalityMany:
		return "o{"
	case diagram.CardinalityOneOrMany:
		return "|{"
	default:
		return "||"
	}
}

// GetFileExtension returns the recommended file extension
func (e *MermaidExporter) GetFileExtension() string {
	return ".mmd"
}

// GetFormatName returns the format name
func (e *MermaidExporter) GetFormatName() string {
	return "Mermaid"
}
