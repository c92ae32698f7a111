package manager

// State is the lifecycle position of a Manager.
type State int

const (
	StateLoading State = iota
	StateIdle
	StateFormCreate
	StateFormEdit
	StateSubmitting
	StateDeleting
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateIdle:
		return "idle"
	case StateFormCreate:
		return "form-create"
	case StateFormEdit:
		return "form-edit"
	case StateSubmitting:
		return "submitting"
	case StateDeleting:
		return "deleting"
	default:
		return "unknown"
	}
}

// FormOpen reports whether s is one of the form states.
func (s State) FormOpen() bool {
	return s == StateFormCreate || s == StateFormEdit
}

// InFlight reports whether a mutation is running.
func (s State) InFlight() bool {
	return s == StateSubmitting || s == StateDeleting
}
