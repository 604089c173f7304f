package export_test

import (
	"errors"
	"strings"
	"testing"

	"erd/diagram"
	"erd/export"

	"gopkg.in/yaml.v3"
)

func sampleDiagram() *diagram.Diagram {
	return &diagram.Diagram{
		Entities: []diagram.Entity{
			{ID: "c1", X: 0, Y: 100, Width: 120, Height: 60, Label: "Customer"},
			{ID: "o1", X: 400, Y: 100, Width: 120, Height: 60, Label: "Order"},
			{ID: "c2", X: 0, Y: 400, Width: 120, Height: 60, Label: "Customer"},
		},
		Attributes: []diagram.Attribute{
			{ID: "a1", EntityID: "c1", X: 60, Y: 20, Label: "name"},
			{ID: "a2", EntityID: "c1", X: -80, Y: 130, Label: "Birth Date"},
		},
		Relationships: []diagram.Relationship{
			{
				ID: "r1", X: 260, Y: 130, Label: "places",
				ConnectedEntities: []string{"c1", "o1"},
				Cardinalities:     map[string]diagram.Cardinality{"c1": "1", "o1": "*"},
			},
			{
				ID: "r2", X: 60, Y: 260, Label: "manages",
				ConnectedEntities: []string{"c1"},
				Cardinalities:     map[string]diagram.Cardinality{"c1": "0..1"},
				Recursive:         true,
			},
		},
	}
}

func assertContains(t *testing.T, result string, parts []string) {
	t.Helper()
	for _, part := range parts {
		if !strings.Contains(result, part) {
			t.Errorf("Expected result to contain %q, but it didn't.\nGot:\n%s", part, result)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected export.Format
		wantErr  bool
	}{
		{"json", export.FormatJSON, false},
		{"mermaid", export.FormatMermaid, false},
		{"mmd", export.FormatMermaid, false},
		{"plantuml", export.FormatPlantUML, false},
		{"puml", export.FormatPlantUML, false},
		{"chen", export.FormatPlantUML, false},
		{"yaml", export.FormatYAML, false},
		{"YML", export.FormatYAML, false},
		{"ascii", export.FormatASCII, false},
		{"txt", export.FormatASCII, false},
		{"svg", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := export.ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewExporter(t *testing.T) {
	descriptions := export.GetFormatDescriptions()
	for _, format := range export.GetAvailableFormats() {
		t.Run(string(format), func(t *testing.T) {
			exporter, err := export.NewExporter(format)
			if err != nil {
				t.Fatalf("NewExporter(%v) returned error: %v", format, err)
			}
			if exporter.GetFormatName() == "" {
				t.Error("exporter has no format name")
			}
			if descriptions[format] == "" {
				t.Errorf("format %v has no description", format)
			}
		})
	}

	if _, err := export.NewExporter("invalid"); err == nil {
		t.Error("NewExporter with invalid format should return error")
	}
}

func TestMermaidExporter(t *testing.T) {
	result, err := export.NewMermaidExporter().Export(sampleDiagram())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	assertContains(t, result, []string{
		"erDiagram\n",
		"    Customer {\n        string name\n        string Birth_Date \"Birth Date\"\n    }\n",
		"    Order\n",
		"    Customer_2\n",
		"    Customer ||--o{ Order : \"places\"\n",
		"    Customer |o--o| Customer : \"manages\"\n",
	})
}

func TestMermaidExporter_NaryRelationship(t *testing.T) {
	d := sampleDiagram()
	d.Relationships[0].ConnectedEntities = []string{"c1", "o1", "c2"}
	d.Relationships[0].Cardinalities["c2"] = "1..*"

	result, err := export.NewMermaidExporter().Export(d)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	assertContains(t, result, []string{
		"%% places joins Customer, Order, Customer_2",
		"Customer ||--o{ Order : \"places\"",
		"Customer ||--|{ Customer_2 : \"places\"",
	})
}

func TestMermaidExporter_SingleConnection(t *testing.T) {
	d := sampleDiagram()
	d.Relationships[1].Recursive = false

	result, err := export.NewMermaidExporter().Export(d)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	assertContains(t, result, []string{"    %% manages connects Customer\n"})
	if strings.Contains(result, "Customer |o--o| Customer") {
		t.Errorf("a relationship with one end should not loop back:\n%s", result)
	}
}

func TestPlantUMLExporter(t *testing.T) {
	result, err := export.NewPlantUMLExporter().Export(sampleDiagram())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	assertContains(t, result, []string{
		"@startchen\n",
		"entity Customer {\n  name\n  Birth_Date\n}\n",
		"entity Order {\n}\n",
		"relationship places {\n}\n",
		"places -1- Customer\nplaces -N- Order\n",
		"manages -(0,1)- Customer\nmanages -(0,1)- Customer\n",
		"@endchen\n",
	})
}

func TestPlantUMLExporter_SingleConnection(t *testing.T) {
	d := sampleDiagram()
	d.Relationships[1].Recursive = false

	result, err := export.NewPlantUMLExporter().Export(d)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if got := strings.Count(result, "manages -(0,1)- Customer\n"); got != 1 {
		t.Errorf("got %d manages lines, want 1:\n%s", got, result)
	}
}

func TestYAMLExporter(t *testing.T) {
	result, err := export.NewYAMLExporter().Export(sampleDiagram())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc struct {
		Entities []struct {
			ID         string `yaml:"id"`
			Label      string `yaml:"label"`
			Attributes []struct {
				Label string `yaml:"label"`
			} `yaml:"attributes"`
		} `yaml:"entities"`
		Relationships []struct {
			Label       string `yaml:"label"`
			Recursive   bool   `yaml:"recursive"`
			Connections []struct {
				Entity      string `yaml:"entity"`
				Label       string `yaml:"label"`
				Cardinality string `yaml:"cardinality"`
			} `yaml:"connections"`
		} `yaml:"relationships"`
	}
	if err := yaml.Unmarshal([]byte(result), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, result)
	}

	if len(doc.Entities) != 3 {
		t.Fatalf("got %d entities, want 3", len(doc.Entities))
	}
	if got := len(doc.Entities[0].Attributes); got != 2 {
		t.Errorf("Customer has %d attributes, want 2", got)
	}
	if got := len(doc.Entities[1].Attributes); got != 0 {
		t.Errorf("Order has %d attributes, want 0", got)
	}
	if len(doc.Relationships) != 2 || len(doc.Relationships[0].Connections) != 2 {
		t.Fatalf("unexpected relationships: %+v", doc.Relationships)
	}
	if doc.Relationships[0].Recursive || !doc.Relationships[1].Recursive {
		t.Errorf("only manages is recursive: %+v", doc.Relationships)
	}
	conn := doc.Relationships[0].Connections[1]
	if conn.Entity != "o1" || conn.Label != "Order" || conn.Cardinality != "*" {
		t.Errorf("connection = %+v, want o1/Order/*", conn)
	}
}

func TestJSONExporter_RoundTrip(t *testing.T) {
	d := sampleDiagram()
	result, err := export.NewJSONExporter().Export(d)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	parsed, err := diagram.Parse([]byte(result))
	if err != nil {
		t.Fatalf("exported JSON does not parse: %v", err)
	}
	if len(parsed.Entities) != 3 || len(parsed.Attributes) != 2 || len(parsed.Relationships) != 2 {
		t.Errorf("round trip lost nodes: %+v", parsed)
	}
	if got := parsed.Relationships[0].CardinalityFor("o1"); got != diagram.CardinalityMany {
		t.Errorf("cardinality = %q, want *", got)
	}
}

func TestASCIIExporter(t *testing.T) {
	result, err := export.NewASCIIExporter().Export(sampleDiagram())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	assertContains(t, result, []string{"Customer", "Order", "places", "name"})
	if strings.Contains(result, "┏") {
		t.Error("exports should not show a selection")
	}
}

func TestExporterFileExtensions(t *testing.T) {
	tests := []struct {
		format export.Format
		ext    string
	}{
		{export.FormatJSON, ".json"},
		{export.FormatMermaid, ".mmd"},
		{export.FormatPlantUML, ".puml"},
		{export.FormatYAML, ".yaml"},
		{export.FormatASCII, ".txt"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			exporter, err := export.NewExporter(tt.format)
			if err != nil {
				t.Fatalf("Failed to create exporter: %v", err)
			}

			got := exporter.GetFileExtension()
			if got != tt.ext {
				t.Errorf("GetFileExtension() = %v, want %v", got, tt.ext)
			}
		})
	}
}

func TestExporterErrorHandling(t *testing.T) {
	for _, format := range export.GetAvailableFormats() {
		exporter, _ := export.NewExporter(format)
		if _, err := exporter.Export(nil); !errors.Is(err, export.ErrNilDiagram) {
			t.Errorf("%s exporter: err = %v, want ErrNilDiagram", exporter.GetFormatName(), err)
		}
	}

	// Only the diagram languages need an entity
	empty := diagram.New()
	for _, exporter := range []export.Exporter{export.NewMermaidExporter(), export.NewPlantUMLExporter()} {
		if _, err := exporter.Export(empty); !errors.Is(err, export.ErrEmptyDiagram) {
			t.Errorf("%s exporter: err = %v, want ErrEmptyDiagram", exporter.GetFormatName(), err)
		}
	}
	for _, exporter := range []export.Exporter{export.NewJSONExporter(), export.NewYAMLExporter(), export.NewASCIIExporter()} {
		if _, err := exporter.Export(empty); err != nil {
			t.Errorf("%s exporter failed on an empty diagram: %v", exporter.GetFormatName(), err)
		}
	}
}
