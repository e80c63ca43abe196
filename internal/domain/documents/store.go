package documents

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	Create(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, docID int64) (*Document, error)
	List(ctx context.Context, filter Filter) ([]Document, error)
	AttachFile(ctx context.Context, docID int64, fileURL string) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, doc *Document) error {
	query := `
	  INSERT INTO documents (title, reference, type, summary, published_by)
	  VALUES ($1, $2, $3, $4, $5)
	  RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		doc.Title, doc.Reference, doc.Type, doc.Summary, doc.PublishedBy,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, docID int64) (*Document, error) {
	query := `
	  SELECT id, title, reference, type, summary, file_url, published_by, created_at, updated_at
	  FROM documents
	  WHERE id = $1
	`

	var d Document
	err := r.db.QueryRow(ctx, query, docID).Scan(
		&d.ID, &d.Title, &d.Reference, &d.Type, &d.Summary, &d.FileURL,
		&d.PublishedBy, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *Repository) List(ctx context.Context, filter Filter) ([]Document, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	query := `
	  SELECT id, title, reference, type, summary, file_url, published_by, created_at, updated_at
	  FROM documents
	  WHERE ($1::text IS NULL OR type = $1)
	  ORDER BY created_at DESC
	  LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, filter.Type, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(
			&d.ID, &d.Title, &d.Reference, &d.Type, &d.Summary, &d.FileURL,
			&d.PublishedBy, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *Repository) AttachFile(ctx context.Context, docID int64, fileURL string) error {
	result, err := r.db.Exec(ctx, `UPDATE documents SET file_url = $1, updated_at = NOW() WHERE id = $2`, fileURL, docID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
