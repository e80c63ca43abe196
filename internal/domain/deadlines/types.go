package deadlines

import (
	"errors"
	"time"
)

var ErrDeadlineNotFound = errors.New("payment deadline not found")

// Known tax type tags. Subscription interests match against these the same
// way they match document types.
const (
	TaxLicencePeche      = "Licence de pêche"
	TaxRedevanceAnnuelle = "Redevance annuelle"
	TaxDroitDebarquement = "Droit de débarquement"
)

// PaymentDeadline is immutable once fetched; the reminder workflow only
// reads it. DaysRemaining is computed by the query, not stored.
type PaymentDeadline struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone,omitempty"`
	TaxType       string    `json:"tax_type"`
	Amount        float64   `json:"amount"`
	DueDate       time.Time `json:"due_date"`
	DaysRemaining int       `json:"days_remaining"`
	CreatedAt     time.Time `json:"created_at"`
}
