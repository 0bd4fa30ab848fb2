package entity

// Status is the review state of a bill.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

var validStatuses = map[Status]bool{
	StatusPending:  true,
	StatusAccepted: true,
	StatusRefused:  true,
}

// IsValid returns true if the status is a known review state.
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ExpenseTypes lists the expense categories offered by the new-bill form.
// Type is stored as free text; this list is what the form proposes.
var ExpenseTypes = []string{
	"Transports",
	"Restaurants et bars",
	"Hôtel et logement",
	"Services en ligne",
	"IT et électronique",
	"Equipement et matériel",
	"Fournitures de bureau",
}

// Bill represents one employee expense-reimbursement request.
//
// FileURL and FileName are nil until a receipt upload has been validated and
// stored; the validated-upload path always populates both together. Amount
// and Pct are whole numbers at the point of submission, never strings.
type Bill struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Amount     int     `json:"amount"`
	Date       string  `json:"date"` // ISO YYYY-MM-DD
	VAT        string  `json:"vat"`
	Pct        int     `json:"pct"`
	Commentary string  `json:"commentary"`
	FileURL    *string `json:"fileUrl"`
	FileName   *string `json:"fileName"`
	Status     Status  `json:"status"`
}
