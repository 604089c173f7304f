package diagram

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalParse_RoundTrip(t *testing.T) {
	d := sampleDiagram()
	d.Entities[1].IsNew = true

	data, err := Marshal(d)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, d, parsed)
}

func TestMarshal_DocumentShape(t *testing.T) {
	data, err := Marshal(sampleDiagram())
	require.NoError(t, err)

	var raw map[string][]map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Len(t, raw, 3)
	assert.Equal(t, "entityA", raw["attributes"][0]["entityId"])
	assert.Equal(t, []any{"entityA", "entityB"}, raw["relationships"][0]["connectedEntities"])
	assert.Equal(t, map[string]any{"entityA": "1", "entityB": "*"}, raw["relationships"][0]["cardinalities"])
	assert.NotContains(t, raw["entities"][0], "isNew")
}

func TestMarshal_EmptyDiagramUsesArrays(t *testing.T) {
	data, err := Marshal(&Diagram{})
	require.NoError(t, err)

	compact := strings.Join(strings.Fields(string(data)), "")
	assert.Equal(t, `{"entities":[],"attributes":[],"relationships":[]}`, compact)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"null", "null"},
		{"not json", "this is not json"},
		{"truncated", `{"entities": [`},
		{"array", `[]`},
		{"trailing data", `{"entities": []} {}`},
		{"wrong field type", `{"entities": [{"id": "e1", "x": "left"}]}`},
		{"dangling reference", `{"entities": [], "attributes": [{"id": "a1", "entityId": "e1", "x": 0, "y": 0, "label": "x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDocument)
			assert.Nil(t, d)
		})
	}
}

func TestParse_NormalizesAndAssignsIDs(t *testing.T) {
	input := `{
  "entities": [{"x": 0, "y": 0, "width": 120, "height": 60, "label": "Loose"}],
  "relationships": [{"id": "r1", "x": 10, "y": 10, "label": "R"}]
}`
	d, err := Parse([]byte(input))
	require.NoError(t, err)

	require.Len(t, d.Entities, 1)
	assert.True(t, strings.HasPrefix(d.Entities[0].ID, "entity-"))
	assert.NotNil(t, d.Attributes)
	assert.NotNil(t, d.Relationships[0].ConnectedEntities)
	assert.Equal(t, CardinalityOne, d.Relationships[0].CardinalityFor("anything"))
}

func TestRead(t *testing.T) {
	d, err := Read(strings.NewReader(`{"entities":[],"attributes":[],"relationships":[]}`))
	require.NoError(t, err)
	assert.True(t, d.IsEmpty())
}
