package notify

import (
	"fmt"
	"time"
)

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsapp Channel = "whatsapp"
)

// Interest is a standing declaration of interest in one document type tag
// (Licences, Arretes, Rapports, ...).
type Interest struct {
	Type string `json:"type"`
}

// Subscription is read-only from the matcher's perspective; the admin CRUD
// surface owns its lifecycle. Channel order is kept as declared so fan-out
// output stays deterministic.
type Subscription struct {
	ID             int64      `json:"id"`
	Label          string     `json:"label"`
	Active         bool       `json:"active"`
	Interests      []Interest `json:"interests"`
	Channels       []Channel  `json:"channels"`
	Email          string     `json:"email"`
	Phone          *string    `json:"phone,omitempty"`
	WhatsappNumber *string    `json:"whatsapp_number,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Recipient resolves the address a message is sent to on the given channel.
// For sms and whatsapp the channel-specific field is preferred, then phone,
// then email, in that fixed order. Email has no fallback.
func (s Subscription) Recipient(ch Channel) string {
	switch ch {
	case ChannelSMS:
		if s.Phone != nil && *s.Phone != "" {
			return *s.Phone
		}
		return s.Email
	case ChannelWhatsapp:
		if s.WhatsappNumber != nil && *s.WhatsappNumber != "" {
			return *s.WhatsappNumber
		}
		if s.Phone != nil && *s.Phone != "" {
			return *s.Phone
		}
		return s.Email
	default:
		return s.Email
	}
}

// Event is anything the matcher can fan out: a published document or an
// approaching payment deadline. EventType is matched against subscription
// interests.
type Event interface {
	EventID() string
	EventType() string
	RenderMessage() string
}

// DocumentEvent is the matcher-facing view of a freshly published document.
type DocumentEvent struct {
	ID        string
	Title     string
	Reference string
	Type      string
}

func (e DocumentEvent) EventID() string   { return e.ID }
func (e DocumentEvent) EventType() string { return e.Type }

func (e DocumentEvent) RenderMessage() string {
	return fmt.Sprintf("Nouveau document publié : %s (réf. %s)", e.Title, e.Reference)
}

// DeadlineEvent is the matcher-facing view of an approaching payment
// deadline.
type DeadlineEvent struct {
	ID            string
	UserID        int64
	TaxType       string
	Amount        float64
	DueDate       time.Time
	DaysRemaining int
}

func (e DeadlineEvent) EventID() string   { return e.ID }
func (e DeadlineEvent) EventType() string { return e.TaxType }

func (e DeadlineEvent) RenderMessage() string {
	return fmt.Sprintf(
		"Rappel : paiement %s de %.0f FCFA attendu avant le %s (%d jours restants)",
		e.TaxType, e.Amount, e.DueDate.Format("02/01/2006"), e.DaysRemaining,
	)
}

const StatusSent = "sent"

// Record is the write-once history entry for one simulated send. Status is
// always "sent": nothing is dispatched for real in simulation mode.
type Record struct {
	ID             string    `json:"id"`
	SubscriptionID int64     `json:"subscription_id"`
	EventID        string    `json:"event_id"`
	Channel        Channel   `json:"channel"`
	Recipient      string    `json:"recipient"`
	Status         string    `json:"status"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}
