package users

import "fmt"

type (
	// Change describes a committed mutation of a record.
	Change struct {
		Op ChangeOp
		ID string
	}

	ChangeOp int
)

const (
	ChangeNone ChangeOp = iota
	ChangeCreate
	ChangeSave
	ChangeRemove
)

func (v ChangeOp) String() string {
	switch v {
	case ChangeNone:
		return "none"
	case ChangeCreate:
		return "create"
	case ChangeSave:
		return "save"
	case ChangeRemove:
		return "remove"
	default:
		return fmt.Sprintf("invalid op %d", int(v))
	}
}
