package notifhistory

import (
	"context"
	"fmt"

	"sigpeche/internal/notify"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the notification history log. Records are write-once: there is
// no update or delete path.
type Store interface {
	Append(ctx context.Context, rec *notify.Record) error
	ListRecent(ctx context.Context, limit int) ([]notify.Record, error)
	ListBySubscription(ctx context.Context, subscriptionID int64, limit int) ([]notify.Record, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Append(ctx context.Context, rec *notify.Record) error {
	query := `
	  INSERT INTO notification_history (id, subscription_id, event_id, channel, recipient, status, message, created_at)
	  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.SubscriptionID, rec.EventID, string(rec.Channel),
		rec.Recipient, rec.Status, rec.Message, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append notification record: %w", err)
	}
	return nil
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]notify.Record, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `
	  SELECT id, subscription_id, event_id, channel, recipient, status, message, created_at
	  FROM notification_history
	  ORDER BY created_at DESC
	  LIMIT $1
	`
	return r.list(ctx, query, limit)
}

func (r *Repository) ListBySubscription(ctx context.Context, subscriptionID int64, limit int) ([]notify.Record, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `
	  SELECT id, subscription_id, event_id, channel, recipient, status, message, created_at
	  FROM notification_history
	  WHERE subscription_id = $1
	  ORDER BY created_at DESC
	  LIMIT $2
	`
	return r.list(ctx, query, subscriptionID, limit)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]notify.Record, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []notify.Record
	for rows.Next() {
		var rec notify.Record
		var channel string
		if err := rows.Scan(
			&rec.ID, &rec.SubscriptionID, &rec.EventID, &channel,
			&rec.Recipient, &rec.Status, &rec.Message, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.Channel = notify.Channel(channel)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
