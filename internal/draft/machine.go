package draft

import "fmt"

// transitions is the fixed draft lifecycle. File selection can be repeated in
// either direction until submission; submit is allowed from any non-terminal
// state because the store, not the client, owns final validation.
var transitions = map[State]map[Trigger]State{
	StateIdle: {
		TriggerSelectValidFile:   StateFileValidated,
		TriggerSelectInvalidFile: StateFileRejected,
		TriggerSubmit:            StateSubmitted,
	},
	StateFileValidated: {
		TriggerSelectValidFile:   StateFileValidated,
		TriggerSelectInvalidFile: StateFileRejected,
		TriggerSubmit:            StateSubmitted,
	},
	StateFileRejected: {
		TriggerSelectValidFile:   StateFileValidated,
		TriggerSelectInvalidFile: StateFileRejected,
		TriggerSubmit:            StateSubmitted,
	},
}

// Machine tracks the state of one bill draft and validates transitions.
// A Machine is exclusively owned by one form controller instance and is not
// safe for concurrent use.
type Machine struct {
	current State
}

// NewMachine creates a draft machine in the initial Idle state.
func NewMachine() *Machine {
	return &Machine{current: StateIdle}
}

// State returns the current draft state.
func (m *Machine) State() State {
	return m.current
}

// CanFire returns true if the trigger is permitted in the current state.
func (m *Machine) CanFire(trigger Trigger) bool {
	_, ok := transitions[m.current][trigger]
	return ok
}

// Fire executes the trigger, transitioning to the new state if allowed.
func (m *Machine) Fire(trigger Trigger) error {
	next, ok := transitions[m.current][trigger]
	if !ok {
		return fmt.Errorf("%w: cannot fire %s from %s", ErrInvalidTransition, trigger, m.current)
	}
	m.current = next
	return nil
}

// PermittedTriggers returns all triggers that can be fired in the current
// state.
func (m *Machine) PermittedTriggers() []Trigger {
	perms := transitions[m.current]
	triggers := make([]Trigger, 0, len(perms))
	for trigger := range perms {
		triggers = append(triggers, trigger)
	}
	return triggers
}
