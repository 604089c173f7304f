package diagram

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDocument is wrapped by every error describing an unusable document.
var ErrInvalidDocument = errors.New("invalid diagram document")

// Validate checks that a diagram has valid structure: unique ids, sane entity
// sizes, and no reference to a missing entity. Every violation found is
// reported in the returned error.
func Validate(d *Diagram) error {
	if d == nil {
		return fmt.Errorf("%w: diagram is nil", ErrInvalidDocument)
	}

	var errs []error
	ids := make(map[string]Kind)
	claim := func(id string, kind Kind, index int) {
		if id == "" {
			errs = append(errs, fmt.Errorf("%s %d has an empty id", kind, index))
			return
		}
		if prev, ok := ids[id]; ok {
			errs = append(errs, fmt.Errorf("duplicate id %q (%s and %s)", id, prev, kind))
			return
		}
		ids[id] = kind
	}

	for i, e := range d.Entities {
		claim(e.ID, KindEntity, i)
		if !(e.Width > 0) || !(e.Height > 0) {
			errs = append(errs, fmt.Errorf("entity %q has non-positive size %gx%g", e.ID, e.Width, e.Height))
		}
		if !finite(e.X, e.Y, e.Width, e.Height, e.X+e.Width, e.Y+e.Height) {
			errs = append(errs, fmt.Errorf("entity %q has a non-finite coordinate", e.ID))
		}
	}

	for i, a := range d.Attributes {
		claim(a.ID, KindAttribute, i)
		if !finite(a.X, a.Y) {
			errs = append(errs, fmt.Errorf("attribute %q has a non-finite coordinate", a.ID))
		}
	}

	for i, r := range d.Relationships {
		claim(r.ID, KindRelationship, i)
		if !finite(r.X, r.Y) {
			errs = append(errs, fmt.Errorf("relationship %q has a non-finite coordinate", r.ID))
		}
	}

	// References are checked once every id is known
	for _, a := range d.Attributes {
		if ids[a.EntityID] != KindEntity {
			errs = append(errs, fmt.Errorf("attribute %q references non-existent entity %q", a.ID, a.EntityID))
		}
	}

	for _, r := range d.Relationships {
		seen := make(map[string]bool, len(r.ConnectedEntities))
		for _, entityID := range r.ConnectedEntities {
			if ids[entityID] != KindEntity {
				errs = append(errs, fmt.Errorf("relationship %q references non-existent entity %q", r.ID, entityID))
			}
			if seen[entityID] {
				errs = append(errs, fmt.Errorf("relationship %q connects entity %q more than once", r.ID, entityID))
			}
			seen[entityID] = true
		}
		if r.Recursive && len(r.ConnectedEntities) != 1 {
			errs = append(errs, fmt.Errorf("relationship %q is recursive but connects %d entities", r.ID, len(r.ConnectedEntities)))
		}
		for entityID, c := range r.Cardinalities {
			if !seen[entityID] {
				errs = append(errs, fmt.Errorf("relationship %q has a cardinality for unconnected entity %q", r.ID, entityID))
			}
			if !c.Valid() {
				errs = append(errs, fmt.Errorf("relationship %q has unknown cardinality %q for entity %q", r.ID, c, entityID))
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidDocument, errors.Join(errs...))
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
