package plugin

// State is a plugin instance's lifecycle state.
//
//	Loading -> Ready -> Error
//	Ready <-> Disabled
//
// Error is terminal until the instance is removed and added again.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "Loading"
	case StateReady:
		return "Ready"
	case StateError:
		return "Error"
	case StateDisabled:
		return "Disabled"
	default:
		return "Unknown"
	}
}

// Status is a State plus the failure message for StateError.
type Status struct {
	State   State
	Message string
}

func Loading() Status  { return Status{State: StateLoading} }
func Ready() Status    { return Status{State: StateReady} }
func Disabled() Status { return Status{State: StateDisabled} }

func Failed(msg string) Status {
	return Status{State: StateError, Message: msg}
}

func (s Status) IsError() bool {
	return s.State == StateError
}

func (s Status) String() string {
	if s.State == StateError {
		return "Error(" + s.Message + ")"
	}
	return s.State.String()
}
