package export

import (
	"fmt"
	"strings"
	"unicode"

	"erd/diagram"
)

// identifier turns a label into a name the text formats accept: letters,
// digits and underscores, not starting with a digit.
func identifier(label, fallback string) string {
	var sb strings.Builder
	underscore := false
	for _, r := range strings.TrimSpace(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && sb.Len() > 0 {
			sb.WriteByte('_')
			underscore = true
		}
	}
	name := strings.TrimRight(sb.String(), "_")
	if name == "" {
		return fallback
	}
	if unicode.IsDigit([]rune(name)[0]) {
		name = "_" + name
	}
	return name
}

// nameTable assigns every entity and relationship a unique identifier
// derived from its label. Duplicates get a numeric suffix in document order.
type nameTable struct {
	names map[string]string
	taken map[string]bool
}

func newNameTable(d *diagram.Diagram) *nameTable {
	t := &nameTable{
		names: make(map[string]string),
		taken: make(map[string]bool),
	}
	for _, e := range d.Entities {
		t.add(e.ID, identifier(e.Label, "Entity"))
	}
	for _, r := range d.Relationships {
		t.add(r.ID, identifier(r.Label, "Relationship"))
	}
	return t
}

func (t *nameTable) add(id, base string) {
	name := base
	for n := 2; t.taken[name]; n++ {
		name = fmt.Sprintf("%s_%d", base, n)
	}
	t.taken[name] = true
	t.names[id] = name
}

func (t *nameTable) name(id string) (string, bool) {
	name, ok := t.names[id]
	return name, ok
}
