package draft

// Trigger represents a form event that can cause a draft state transition.
type Trigger string

const (
	// TriggerSelectValidFile fires when a selected receipt passes extension
	// validation.
	TriggerSelectValidFile Trigger = "SELECT_VALID_FILE"

	// TriggerSelectInvalidFile fires when a selected receipt fails extension
	// validation.
	TriggerSelectInvalidFile Trigger = "SELECT_INVALID_FILE"

	// TriggerSubmit fires when the form is submitted.
	TriggerSubmit Trigger = "SUBMIT"
)

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	return string(t)
}
