package diagram

import "github.com/google/uuid"

// NewID returns a fresh node id of the form "<kind>-<uuid>".
func NewID(kind Kind) string {
	return string(kind) + "-" + uuid.NewString()
}

// EnsureIDs assigns fresh ids to nodes that were imported without one.
// References to an empty id are left alone so validation still reports them.
func EnsureIDs(d *Diagram) {
	if d == nil {
		return
	}

	for i := range d.Entities {
		if d.Entities[i].ID == "" {
			d.Entities[i].ID = NewID(KindEntity)
		}
	}
	for i := range d.Attributes {
		if d.Attributes[i].ID == "" {
			d.Attributes[i].ID = NewID(KindAttribute)
		}
	}
	for i := range d.Relationships {
		if d.Relationships[i].ID == "" {
			d.Relationships[i].ID = NewID(KindRelationship)
		}
	}
}

// normalize replaces nil collections with empty ones so the document always
// serializes with [] rather than null.
func normalize(d *Diagram) {
	if d.Entities == nil {
		d.Entities = []Entity{}
	}
	if d.Attributes == nil {
		d.Attributes = []Attribute{}
	}
	if d.Relationships == nil {
		d.Relationships = []Relationship{}
	}
	for i := range d.Relationships {
		if d.Relationships[i].ConnectedEntities == nil {
			d.Relationships[i].ConnectedEntities = []string{}
		}
	}
}
