package routes

// Symbolic route identifiers of the employee portal.
const (
	Login    = "/employee/login"
	Bills    = "/employee/bills"
	NewBill  = "/employee/bills/new"
	Export   = "/employee/bills/export"
	Receipts = "/receipts"
)

// NavigateFunc moves the user to another page of the portal.
type NavigateFunc func(path string)
