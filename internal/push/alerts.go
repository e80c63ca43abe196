package push

import (
	"context"
	"errors"
	"fmt"

	"sigpeche/internal/domain/storage"

	"github.com/9ssi7/exponent"
)

var ErrNoTokens = errors.New("no push tokens registered")

// SendDocumentPublished alerts every registered mobile device that a new
// official document is available. Separate from the subscription matcher:
// this is the app-badge channel for agents in the field, not the simulated
// email/sms/whatsapp fan-out.
func SendDocumentPublished(ctx context.Context, sender Sender, store *storage.Container, docID int64, title, docType string) error {
	tokens, err := store.PushTokens.GetAllTokens(ctx)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return ErrNoTokens
	}

	msgs := make([]*exponent.Message, 0, len(tokens))
	body := fmt.Sprintf("%s (%s)", title, docType)
	for _, t := range tokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: "Nouveau document publié",
			Body:  body,
			Data: map[string]string{
				"type":        "document_published",
				"document_id": fmt.Sprintf("%d", docID),
				"screen":      fmt.Sprintf("documents/%d", docID),
			},
		})
	}

	_, err = sender.Publish(ctx, msgs)
	return err
}

// SendDeadlineReminder alerts the devices of the user whose payment is due.
func SendDeadlineReminder(ctx context.Context, sender Sender, store *storage.Container, userID int64, taxType string, daysRemaining int) error {
	tokensMap, err := store.PushTokens.GetTokensByUserIDs(ctx, []int64{userID})
	if err != nil {
		return err
	}
	tokens := tokensMap[userID]
	if len(tokens) == 0 {
		return ErrNoTokens
	}

	msgs := make([]*exponent.Message, 0, len(tokens))
	body := fmt.Sprintf("Paiement %s attendu dans %d jours", taxType, daysRemaining)
	for _, t := range tokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: "Échéance de paiement",
			Body:  body,
			Data: map[string]string{
				"type":   "payment_deadline",
				"screen": "payments",
			},
		})
	}

	_, err = sender.Publish(ctx, msgs)
	return err
}
