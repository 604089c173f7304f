package diagram

import "fmt"

// Cardinality is the multiplicity of an entity's participation in a relationship.
type Cardinality string

const (
	CardinalityOne       Cardinality = "1"
	CardinalityMany      Cardinality = "*"
	CardinalityZeroOrOne Cardinality = "0..1"
	CardinalityOneOrMany Cardinality = "1..*"
)

// DefaultCardinality applies to connections without a recorded cardinality.
const DefaultCardinality = CardinalityOne

// Cardinalities lists every valid cardinality in picker order.
func Cardinalities() []Cardinality {
	return []Cardinality{
		CardinalityOne,
		CardinalityMany,
		CardinalityZeroOrOne,
		CardinalityOneOrMany,
	}
}

// Valid reports whether c is one of the known cardinalities.
func (c Cardinality) Valid() bool {
	switch c {
	case CardinalityOne, CardinalityMany, CardinalityZeroOrOne, CardinalityOneOrMany:
		return true
	default:
		return false
	}
}

// String returns the label drawn next to a connector.
func (c Cardinality) String() string {
	return string(c)
}

// ParseCardinality converts a string to a Cardinality
func ParseCardinality(s string) (Cardinality, error) {
	c := Cardinality(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown cardinality: %q", s)
	}
	return c, nil
}
