package store

import "erd/diagram"

// detachEntity removes the entity from d along with every attribute bound to
// it and every connection to it. It is the only place entity references are
// cleaned up. Returns the number of attributes removed.
func detachEntity(d *diagram.Diagram, entityID string) int {
	if i := d.EntityIndex(entityID); i >= 0 {
		d.Entities = append(d.Entities[:i], d.Entities[i+1:]...)
	}

	kept := d.Attributes[:0]
	for _, a := range d.Attributes {
		if a.EntityID != entityID {
			kept = append(kept, a)
		}
	}
	removed := len(d.Attributes) - len(kept)
	d.Attributes = kept

	for i := range d.Relationships {
		disconnect(&d.Relationships[i], entityID)
	}
	return removed
}

// disconnect drops entityID from the relationship's connections and
// cardinalities. A relationship left without exactly one entity is no longer
// recursive.
func disconnect(r *diagram.Relationship, entityID string) {
	kept := r.ConnectedEntities[:0]
	for _, id := range r.ConnectedEntities {
		if id != entityID {
			kept = append(kept, id)
		}
	}
	r.ConnectedEntities = kept
	if len(kept) != 1 {
		r.Recursive = false
	}

	delete(r.Cardinalities, entityID)
	if len(r.Cardinalities) == 0 {
		r.Cardinalities = nil
	}
}
