package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrMissingEventType = errors.New("event has no type")

// HistoryStore is the matcher's only side effect: appending write-once
// records to the notification history log.
type HistoryStore interface {
	Append(ctx context.Context, rec *Record) error
}

// BatchResult reports what one matching pass produced. Recorded can be
// lower than Attempted when individual history appends fail; the batch
// itself still succeeds.
type BatchResult struct {
	Records   []Record `json:"records"`
	Attempted int      `json:"attempted"`
	Recorded  int      `json:"recorded"`
	Failed    int      `json:"failed"`
}

type Matcher struct {
	history HistoryStore
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewMatcher(history HistoryStore, logger *zap.SugaredLogger) *Matcher {
	return &Matcher{
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

// MatchAndRecord computes, for one event, which (subscription, channel)
// pairs get a simulated notification and appends each as a history record.
//
// A record is produced for a pair iff the subscription is active, at least
// one of its interests matches the event type, and the channel is enabled
// on it. Channels are walked in subscription-declared order.
//
// A malformed event (empty type) aborts the whole call. A single failing
// history append does not: it is logged, counted in Failed and the rest of
// the batch keeps going.
func (m *Matcher) MatchAndRecord(ctx context.Context, event Event, subs []Subscription) (BatchResult, error) {
	var res BatchResult

	if event.EventType() == "" {
		return res, ErrMissingEventType
	}

	for _, sub := range subs {
		if !sub.Active {
			continue
		}
		if !interested(sub, event.EventType()) {
			continue
		}

		for _, ch := range sub.Channels {
			rec := Record{
				ID:             uuid.NewString(),
				SubscriptionID: sub.ID,
				EventID:        event.EventID(),
				Channel:        ch,
				Recipient:      sub.Recipient(ch),
				Status:         StatusSent,
				Message:        event.RenderMessage(),
				CreatedAt:      m.now(),
			}
			res.Attempted++

			if err := m.history.Append(ctx, &rec); err != nil {
				res.Failed++
				m.logger.Errorw("failed to persist notification record",
					"subscription_id", sub.ID,
					"event_id", event.EventID(),
					"channel", ch,
					"error", err,
				)
				continue
			}

			res.Recorded++
			res.Records = append(res.Records, rec)
		}
	}

	return res, nil
}

func interested(sub Subscription, eventType string) bool {
	for _, in := range sub.Interests {
		if in.Type == eventType {
			return true
		}
	}
	return false
}
