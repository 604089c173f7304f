package store

import (
	"fmt"

	"erd/diagram"
	"erd/geometry"

	"go.uber.org/zap"
)

// AddEntity adds a default-sized entity with its top-left corner at (x, y).
func (s *Store) AddEntity(x, y float64) string {
	next := s.doc.Clone()
	id := diagram.NewID(diagram.KindEntity)
	next.Entities = append(next.Entities, diagram.Entity{
		ID:     id,
		X:      x,
		Y:      y,
		Width:  geometry.DefaultEntityWidth,
		Height: geometry.DefaultEntityHeight,
		Label:  diagram.KindEntity.DefaultLabel(),
		IsNew:  true,
	})
	s.commit(next, Change{Op: OpAdd, ID: id, Kind: diagram.KindEntity})
	s.logger.Debug("Added entity", zap.String("id", id))
	return id
}

// AddAttribute adds an attribute centered on (x, y) and bound to entityID.
func (s *Store) AddAttribute(entityID string, x, y float64) (string, error) {
	if s.doc.EntityIndex(entityID) < 0 {
		return "", fmt.Errorf("entity %s: %w", entityID, ErrNotFound)
	}

	next := s.doc.Clone()
	id := diagram.NewID(diagram.KindAttribute)
	next.Attributes = append(next.Attributes, diagram.Attribute{
		ID:       id,
		EntityID: entityID,
		X:        x,
		Y:        y,
		Label:    diagram.KindAttribute.DefaultLabel(),
		IsNew:    true,
	})
	s.commit(next, Change{Op: OpAdd, ID: id, Kind: diagram.KindAttribute})
	s.logger.Debug("Added attribute",
		zap.String("id", id),
		zap.String("entity_id", entityID))
	return id, nil
}

// AddRelationship adds an unconnected relationship centered on (x, y).
func (s *Store) AddRelationship(x, y float64) string {
	next := s.doc.Clone()
	id := diagram.NewID(diagram.KindRelationship)
	next.Relationships = append(next.Relationships, diagram.Relationship{
		ID:                id,
		X:                 x,
		Y:                 y,
		Label:             diagram.KindRelationship.DefaultLabel(),
		ConnectedEntities: []string{},
		IsNew:             true,
	})
	s.commit(next, Change{Op: OpAdd, ID: id, Kind: diagram.KindRelationship})
	s.logger.Debug("Added relationship", zap.String("id", id))
	return id
}

// UpdateEntity applies patch to the entity.
func (s *Store) UpdateEntity(id string, patch EntityPatch) error {
	i := s.doc.EntityIndex(id)
	if i < 0 {
		return fmt.Errorf("entity %s: %w", id, ErrNotFound)
	}
	if err := patch.validate(); err != nil {
		return err
	}

	next := s.doc.Clone()
	e := &next.Entities[i]
	setFloat(&e.X, patch.X)
	setFloat(&e.Y, patch.Y)
	setFloat(&e.Width, patch.Width)
	setFloat(&e.Height, patch.Height)
	setString(&e.Label, patch.Label)
	setBool(&e.IsNew, patch.IsNew)

	s.bumpVersion(patch.setsLabel())
	s.commit(next, Change{Op: OpUpdate, ID: id, Kind: diagram.KindEntity})
	return nil
}

// UpdateAttribute applies patch to the attribute. Rebinding to another entity
// requires that entity to exist.
func (s *Store) UpdateAttribute(id string, patch AttributePatch) error {
	i := s.doc.AttributeIndex(id)
	if i < 0 {
		return fmt.Errorf("attribute %s: %w", id, ErrNotFound)
	}
	if err := checkFinite(patch.X, patch.Y); err != nil {
		return err
	}
	if patch.EntityID != nil && s.doc.EntityIndex(*patch.EntityID) < 0 {
		return fmt.Errorf("entity %s: %w", *patch.EntityID, ErrNotFound)
	}

	next := s.doc.Clone()
	a := &next.Attributes[i]
	setString(&a.EntityID, patch.EntityID)
	setFloat(&a.X, patch.X)
	setFloat(&a.Y, patch.Y)
	setString(&a.Label, patch.Label)
	setBool(&a.IsNew, patch.IsNew)

	s.bumpVersion(patch.setsLabel())
	s.commit(next, Change{Op: OpUpdate, ID: id, Kind: diagram.KindAttribute})
	return nil
}

// UpdateRelationship applies patch to the relationship.
func (s *Store) UpdateRelationship(id string, patch RelationshipPatch) error {
	i := s.doc.RelationshipIndex(id)
	if i < 0 {
		return fmt.Errorf("relationship %s: %w", id, ErrNotFound)
	}
	if err := checkFinite(patch.X, patch.Y); err != nil {
		return err
	}
	if patch.Recursive != nil && *patch.Recursive && len(s.doc.Relationships[i].ConnectedEntities) != 1 {
		return fmt.Errorf("%w: a recursive relationship connects exactly one entity", ErrInvalidPatch)
	}

	next := s.doc.Clone()
	r := &next.Relationships[i]
	setFloat(&r.X, patch.X)
	setFloat(&r.Y, patch.Y)
	setString(&r.Label, patch.Label)
	setBool(&r.IsNew, patch.IsNew)
	setBool(&r.Recursive, patch.Recursive)

	s.bumpVersion(patch.setsLabel())
	s.commit(next, Change{Op: OpUpdate, ID: id, Kind: diagram.KindRelationship})
	return nil
}

// MoveEntity moves the entity's top-left corner to (x, y) and every attribute
// it owns by the same delta, in one revision.
func (s *Store) MoveEntity(id string, x, y float64) error {
	i := s.doc.EntityIndex(id)
	if i < 0 {
		return fmt.Errorf("entity %s: %w", id, ErrNotFound)
	}
	if err := checkFinite(&x, &y); err != nil {
		return err
	}

	next := s.doc.Clone()
	e := &next.Entities[i]
	dx, dy := x-e.X, y-e.Y
	e.X, e.Y = x, y
	for j := range next.Attributes {
		if next.Attributes[j].EntityID == id {
			next.Attributes[j].X += dx
			next.Attributes[j].Y += dy
		}
	}

	s.commit(next, Change{Op: OpMove, ID: id, Kind: diagram.KindEntity})
	return nil
}

// DeleteEntity removes the entity together with its attributes and every
// connection to it.
func (s *Store) DeleteEntity(id string) error {
	if s.doc.EntityIndex(id) < 0 {
		return fmt.Errorf("entity %s: %w", id, ErrNotFound)
	}

	next := s.doc.Clone()
	removed := detachEntity(next, id)
	s.commit(next, Change{Op: OpDelete, ID: id, Kind: diagram.KindEntity})
	s.logger.Debug("Deleted entity",
		zap.String("id", id),
		zap.Int("attributes_removed", removed))
	return nil
}

// DeleteAttribute removes the attribute.
func (s *Store) DeleteAttribute(id string) error {
	i := s.doc.AttributeIndex(id)
	if i < 0 {
		return fmt.Errorf("attribute %s: %w", id, ErrNotFound)
	}

	next := s.doc.Clone()
	next.Attributes = append(next.Attributes[:i], next.Attributes[i+1:]...)
	s.commit(next, Change{Op: OpDelete, ID: id, Kind: diagram.KindAttribute})
	return nil
}

// DeleteRelationship removes the relationship and its connections.
func (s *Store) DeleteRelationship(id string) error {
	i := s.doc.RelationshipIndex(id)
	if i < 0 {
		return fmt.Errorf("relationship %s: %w", id, ErrNotFound)
	}

	next := s.doc.Clone()
	next.Relationships = append(next.Relationships[:i], next.Relationships[i+1:]...)
	s.commit(next, Change{Op: OpDelete, ID: id, Kind: diagram.KindRelationship})
	return nil
}

// Delete removes the node of any kind.
func (s *Store) Delete(id string, kind diagram.Kind) error {
	switch kind {
	case diagram.KindEntity:
		return s.DeleteEntity(id)
	case diagram.KindAttribute:
		return s.DeleteAttribute(id)
	case diagram.KindRelationship:
		return s.DeleteRelationship(id)
	default:
		return fmt.Errorf("unknown kind %q: %w", kind, ErrNotFound)
	}
}

// ConnectRelationshipToEntity connects the relationship to the entity with
// the default cardinality. Connecting twice, or connecting an unknown
// relationship, does nothing.
func (s *Store) ConnectRelationshipToEntity(relID, entityID string) error {
	i := s.doc.RelationshipIndex(relID)
	if i < 0 || s.doc.Relationships[i].IsConnected(entityID) {
		return nil
	}
	if s.doc.EntityIndex(entityID) < 0 {
		return fmt.Errorf("entity %s: %w", entityID, ErrNotFound)
	}

	next := s.doc.Clone()
	r := &next.Relationships[i]
	r.ConnectedEntities = append(r.ConnectedEntities, entityID)
	r.Recursive = false
	if r.Cardinalities == nil {
		r.Cardinalities = make(map[string]diagram.Cardinality)
	}
	r.Cardinalities[entityID] = diagram.DefaultCardinality

	s.commit(next, Change{Op: OpConnect, ID: relID, Kind: diagram.KindRelationship})
	return nil
}

// DisconnectRelationshipFromEntity drops the connection and its cardinality.
func (s *Store) DisconnectRelationshipFromEntity(relID, entityID string) error {
	i := s.doc.RelationshipIndex(relID)
	if i < 0 {
		return fmt.Errorf("relationship %s: %w", relID, ErrNotFound)
	}
	if !s.doc.Relationships[i].IsConnected(entityID) {
		return nil
	}

	next := s.doc.Clone()
	disconnect(&next.Relationships[i], entityID)
	s.commit(next, Change{Op: OpDisconnect, ID: relID, Kind: diagram.KindRelationship})
	return nil
}

// UpdateRelationshipCardinality records c for a connected entity.
func (s *Store) UpdateRelationshipCardinality(relID, entityID string, c diagram.Cardinality) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCardinality, c)
	}
	i := s.doc.RelationshipIndex(relID)
	if i < 0 {
		return fmt.Errorf("relationship %s: %w", relID, ErrNotFound)
	}
	if !s.doc.Relationships[i].IsConnected(entityID) {
		return fmt.Errorf("entity %s: %w", entityID, ErrNotConnected)
	}

	next := s.doc.Clone()
	r := &next.Relationships[i]
	if r.Cardinalities == nil {
		r.Cardinalities = make(map[string]diagram.Cardinality)
	}
	r.Cardinalities[entityID] = c

	s.commit(next, Change{Op: OpCardinality, ID: relID, Kind: diagram.KindRelationship})
	return nil
}

// LoadDiagram replaces the whole document. An invalid document is rejected
// and the current one is kept.
func (s *Store) LoadDiagram(d *diagram.Diagram) error {
	if err := diagram.Validate(d); err != nil {
		return err
	}

	next := d.Clone()
	s.selection = nil
	s.bumpVersion(true)
	s.commit(next, Change{Op: OpLoad})
	s.logger.Info("Loaded diagram",
		zap.Int("entities", len(next.Entities)),
		zap.Int("attributes", len(next.Attributes)),
		zap.Int("relationships", len(next.Relationships)))
	return nil
}

// ClearDiagram empties the document and removes it from storage.
func (s *Store) ClearDiagram() error {
	s.selection = nil
	s.bumpVersion(true)
	change := s.commit(diagram.New(), Change{Op: OpClear})
	s.logger.Info("Cleared diagram")
	return change.PersistErr
}

func (s *Store) bumpVersion(labelChanged bool) {
	if labelChanged {
		s.version++
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
