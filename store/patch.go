package store

import (
	"fmt"
	"math"
)

// EntityPatch holds the entity fields to change. Nil fields are left alone.
type EntityPatch struct {
	X, Y          *float64
	Width, Height *float64
	Label         *string
	IsNew         *bool
}

// AttributePatch holds the attribute fields to change. Nil fields are left alone.
type AttributePatch struct {
	EntityID *string
	X, Y     *float64
	Label    *string
	IsNew    *bool
}

// RelationshipPatch holds the relationship fields to change. Nil fields are left alone.
type RelationshipPatch struct {
	X, Y  *float64
	Label *string
	IsNew *bool
	// Recursive can only be set while exactly one entity is connected.
	Recursive *bool
}

// Float returns a pointer to v, for building patches.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v, for building patches.
func String(v string) *string { return &v }

// Bool returns a pointer to v, for building patches.
func Bool(v bool) *bool { return &v }

func checkFinite(values ...*float64) error {
	for _, v := range values {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("%w: non-finite coordinate", ErrInvalidPatch)
		}
	}
	return nil
}

func (p EntityPatch) validate() error {
	if err := checkFinite(p.X, p.Y, p.Width, p.Height); err != nil {
		return err
	}
	if p.Width != nil && !(*p.Width > 0) || p.Height != nil && !(*p.Height > 0) {
		return fmt.Errorf("%w: entity size must be positive", ErrInvalidPatch)
	}
	return nil
}

func (p EntityPatch) setsLabel() bool       { return p.Label != nil }
func (p AttributePatch) setsLabel() bool    { return p.Label != nil }
func (p RelationshipPatch) setsLabel() bool { return p.Label != nil }
