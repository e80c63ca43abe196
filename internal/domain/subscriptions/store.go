package subscriptions

import (
	"context"
	"errors"
	"fmt"

	"sigpeche/internal/notify"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

// Store persists notify.Subscription rows. Interests and channels live in
// text[] columns; channel order is kept exactly as declared so the matcher's
// fan-out stays deterministic.
type Store interface {
	Create(ctx context.Context, sub *notify.Subscription) error
	Update(ctx context.Context, sub *notify.Subscription) error
	SetActive(ctx context.Context, id int64, active bool) error
	GetByID(ctx context.Context, id int64) (*notify.Subscription, error)
	List(ctx context.Context) ([]notify.Subscription, error)
	ListActive(ctx context.Context) ([]notify.Subscription, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const subColumns = `id, label, active, interest_types, channels, email, phone, whatsapp_number, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, sub *notify.Subscription) error {
	query := `
	  INSERT INTO subscriptions (label, active, interest_types, channels, email, phone, whatsapp_number)
	  VALUES ($1, $2, $3, $4, $5, $6, $7)
	  RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		sub.Label, sub.Active, interestTypes(sub.Interests), channelLabels(sub.Channels),
		sub.Email, sub.Phone, sub.WhatsappNumber,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, sub *notify.Subscription) error {
	query := `
	  UPDATE subscriptions
	  SET label = $1, active = $2, interest_types = $3, channels = $4,
	      email = $5, phone = $6, whatsapp_number = $7, updated_at = NOW()
	  WHERE id = $8
	  RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		sub.Label, sub.Active, interestTypes(sub.Interests), channelLabels(sub.Channels),
		sub.Email, sub.Phone, sub.WhatsappNumber, sub.ID,
	).Scan(&sub.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.Exec(ctx, `UPDATE subscriptions SET active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*notify.Subscription, error) {
	query := `SELECT ` + subColumns + ` FROM subscriptions WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (r *Repository) List(ctx context.Context) ([]notify.Subscription, error) {
	return r.list(ctx, `SELECT `+subColumns+` FROM subscriptions ORDER BY id`)
}

// ListActive is the matcher's read path.
func (r *Repository) ListActive(ctx context.Context) ([]notify.Subscription, error) {
	return r.list(ctx, `SELECT `+subColumns+` FROM subscriptions WHERE active = true ORDER BY id`)
}

func (r *Repository) list(ctx context.Context, query string) ([]notify.Subscription, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []notify.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func scanSubscription(row pgx.Row) (*notify.Subscription, error) {
	var (
		sub      notify.Subscription
		types    []string
		channels []string
	)

	err := row.Scan(
		&sub.ID, &sub.Label, &sub.Active, &types, &channels,
		&sub.Email, &sub.Phone, &sub.WhatsappNumber,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.Interests = make([]notify.Interest, 0, len(types))
	for _, t := range types {
		sub.Interests = append(sub.Interests, notify.Interest{Type: t})
	}
	sub.Channels = make([]notify.Channel, 0, len(channels))
	for _, c := range channels {
		sub.Channels = append(sub.Channels, notify.Channel(c))
	}
	return &sub, nil
}

func interestTypes(interests []notify.Interest) []string {
	out := make([]string, 0, len(interests))
	for _, in := range interests {
		out = append(out, in.Type)
	}
	return out
}

func channelLabels(channels []notify.Channel) []string {
	out := make([]string, 0, len(channels))
	for _, c := range channels {
		out = append(out, string(c))
	}
	return out
}
