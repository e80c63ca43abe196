package deadlines

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	Create(ctx context.Context, dl *PaymentDeadline) error
	GetByID(ctx context.Context, id int64) (*PaymentDeadline, error)
	ListUpcoming(ctx context.Context, withinDays int) ([]PaymentDeadline, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, dl *PaymentDeadline) error {
	query := `
	  INSERT INTO payment_deadlines (user_id, email, phone, tax_type, amount, due_date)
	  VALUES ($1, $2, $3, $4, $5, $6)
	  RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		dl.UserID, dl.Email, dl.Phone, dl.TaxType, dl.Amount, dl.DueDate,
	).Scan(&dl.ID, &dl.CreatedAt)
	if err != nil {
		return fmt.Errorf("create payment deadline: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*PaymentDeadline, error) {
	query := `
	  SELECT id, user_id, email, phone, tax_type, amount, due_date,
	         GREATEST(0, (due_date::date - CURRENT_DATE)) AS days_remaining,
	         created_at
	  FROM payment_deadlines
	  WHERE id = $1
	`

	var dl PaymentDeadline
	err := r.db.QueryRow(ctx, query, id).Scan(
		&dl.ID, &dl.UserID, &dl.Email, &dl.Phone, &dl.TaxType, &dl.Amount,
		&dl.DueDate, &dl.DaysRemaining, &dl.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDeadlineNotFound
		}
		return nil, err
	}
	return &dl, nil
}

// ListUpcoming returns deadlines due within the window, soonest first, with
// days-remaining computed against the current date.
func (r *Repository) ListUpcoming(ctx context.Context, withinDays int) ([]PaymentDeadline, error) {
	query := `
	  SELECT id, user_id, email, phone, tax_type, amount, due_date,
	         GREATEST(0, (due_date::date - CURRENT_DATE)) AS days_remaining,
	         created_at
	  FROM payment_deadlines
	  WHERE due_date::date >= CURRENT_DATE
	    AND due_date::date <= CURRENT_DATE + $1::int
	  ORDER BY due_date ASC
	`

	rows, err := r.db.Query(ctx, query, withinDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []PaymentDeadline
	for rows.Next() {
		var dl PaymentDeadline
		if err := rows.Scan(
			&dl.ID, &dl.UserID, &dl.Email, &dl.Phone, &dl.TaxType, &dl.Amount,
			&dl.DueDate, &dl.DaysRemaining, &dl.CreatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, dl)
	}
	return list, rows.Err()
}
