package draft

import "errors"

// ErrInvalidTransition is returned when a trigger is not permitted in the
// current draft state.
var ErrInvalidTransition = errors.New("invalid draft transition")
