package draft

// State represents a stage in the lifecycle of one in-progress bill draft.
type State string

const (
	// StateIdle is the initial state: form displayed, no validated receipt.
	StateIdle State = "IDLE"

	// StateFileValidated means a receipt passed extension validation and was
	// sent to the store.
	StateFileValidated State = "FILE_VALIDATED"

	// StateFileRejected means the last selected receipt had a forbidden
	// extension; the file input was cleared.
	StateFileRejected State = "FILE_REJECTED"

	// StateSubmitted is terminal: the bill candidate has been handed to the
	// store and the user navigated away.
	StateSubmitted State = "SUBMITTED"
)

var validStates = map[State]bool{
	StateIdle:          true,
	StateFileValidated: true,
	StateFileRejected:  true,
	StateSubmitted:     true,
}

// IsValid returns true if the state is a known draft state.
func (s State) IsValid() bool {
	return validStates[s]
}

// IsTerminal returns true if no further transitions are allowed.
func (s State) IsTerminal() bool {
	return s == StateSubmitted
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}
