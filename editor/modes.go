package editor

// PendingAction is the placement the next canvas click completes.
type PendingAction int

const (
	ActionNone              PendingAction = iota // Clicks select and deselect
	ActionPlaceEntity                            // Next empty-canvas click adds an entity
	ActionPlaceAttribute                         // Next click near or on an entity adds an attribute
	ActionPlaceRelationship                      // Next empty-canvas click adds a relationship
)

// String returns the action name for display
func (a PendingAction) String() string {
	switch a {
	case ActionNone:
		return "SELECT"
	case ActionPlaceEntity:
		return "PLACE ENTITY"
	case ActionPlaceAttribute:
		return "PLACE ATTRIBUTE"
	case ActionPlaceRelationship:
		return "PLACE RELATIONSHIP"
	default:
		return "UNKNOWN"
	}
}

// Focus says which text input receives keys.
type Focus int

const (
	FocusCanvas  Focus = iota // Keys are commands
	FocusInline               // Keys edit the label drawn inside a shape
	FocusSidebar              // Keys edit the sidebar label input
)

// String returns the focus name for display
func (f Focus) String() string {
	switch f {
	case FocusCanvas:
		return "CANVAS"
	case FocusInline:
		return "EDIT"
	case FocusSidebar:
		return "SIDEBAR"
	default:
		return "UNKNOWN"
	}
}
