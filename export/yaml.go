package export

import (
	"bytes"
	"fmt"

	"erd/diagram"

	"gopkg.in/yaml.v3"
)

// YAMLExporter exports diagrams as a YAML outline. Attributes are nested
// under their entity and connections carry the entity label next to its id.
type YAMLExporter struct{}

// NewYAMLExporter creates a new YAML exporter
func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

type yamlDocument struct {
	Entities      []yamlEntity       `yaml:"entities"`
	Relationships []yamlRelationship `yaml:"relationships,omitempty"`
}

type yamlEntity struct {
	ID         string          `yaml:"id"`
	Label      string          `yaml:"label"`
	X          float64         `yaml:"x"`
	Y          float64         `yaml:"y"`
	Width      float64         `yaml:"width"`
	Height     float64         `yaml:"height"`
	Attributes []yamlAttribute `yaml:"attributes,omitempty"`
}

type yamlAttribute struct {
	ID    string  `yaml:"id"`
	Label string  `yaml:"label"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

type yamlRelationship struct {
	ID          string           `yaml:"id"`
	Label       string           `yaml:"label"`
	X           float64          `yaml:"x"`
	Y           float64          `yaml:"y"`
	Recursive   bool             `yaml:"recursive,omitempty"`
	Connections []yamlConnection `yaml:"connections,omitempty"`
}

type yamlConnection struct {
	Entity      string `yaml:"entity"`
	Label       string `yaml:"label"`
	Cardinality string `yaml:"cardinality"`
}

// Export converts the diagram to YAML
func (e *YAMLExporter) Export(d *diagram.Diagram) (string, error) {
	if d == nil {
		return "", ErrNilDiagram
	}

	doc := yamlDocument{Entities: []yamlEntity{}}
	for _, entity := range d.Entities {
		ye := yamlEntity{
			ID:     entity.ID,
			Label:  entity.Label,
			X:      entity.X,
			Y:      entity.Y,
			Width:  entity.Width,
			Height: entity.Height,
		}
		for _, attr := range d.AttributesOf(entity.ID) {
			ye.Attributes = append(ye.Attributes, yamlAttribute{ID: attr.ID, Label: attr.Label, X: attr.X, Y: attr.Y})
		}
		doc.Entities = append(doc.Entities, ye)
	}

	for _, rel := range d.Relationships {
		yr := yamlRelationship{ID: rel.ID, Label: rel.Label, X: rel.X, Y: rel.Y, Recursive: rel.IsSelf()}
		for _, id := range rel.ConnectedEntities {
			label, _ := d.Label(id, diagram.KindEntity)
			yr.Connections = append(yr.Connections, yamlConnection{
				Entity:      id,
				Label:       label,
				Cardinality: rel.CardinalityFor(id).String(),
			})
		}
		doc.Relationships = append(doc.Relationships, yr)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding yaml: %w", err)
	}
	return buf.String(), nil
}

// GetFileExtension returns the recommended file extension
func (e *YAMLExporter) GetFileExtension() string {
	return ".yaml"
}

// GetFormatName returns the format name
func (e *YAMLExporter) GetFormatName() string {
	return "YAML"
}
