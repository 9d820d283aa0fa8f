// Package model holds the small value types shared by the envelope packages.
package model

// Action is the kind of state change an instruction asks for. The set is open;
// the known actions are listed below.
type Action string

// Known actions.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// actionsWithoutDocumentID lists actions whose document may omit "id". Empty for now.
var actionsWithoutDocumentID = map[Action]struct{}{}

// RequiresDocumentID reports whether the document of an envelope for this action must carry an id.
func (a Action) RequiresDocumentID() bool {
	_, optional := actionsWithoutDocumentID[a]

	return !optional
}

// Known reports whether a is one of the predefined actions.
func (a Action) Known() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	default:
		return false
	}
}

func (a Action) String() string {
	return string(a)
}
