package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okhld/orderdesk/internal/domain/faq"
)

const (
	listFAQsSQL = `SELECT id, question, answer, position
		FROM faqs ORDER BY position, id`

	getFAQSQL = `SELECT id, question, answer, position
		FROM faqs WHERE id = $1`

	insertFAQSQL = `INSERT INTO faqs (id, question, answer, position)
		VALUES ($1, $2, $3, $4)`

	updateFAQSQL = `UPDATE faqs SET question = $2, answer = $3, position = $4
		WHERE id = $1`

	deleteFAQSQL = `DELETE FROM faqs WHERE id = $1`
)

var _ faq.Repository = (*FAQRepository)(nil)

// FAQRepository implements faq.Repository backed by PostgreSQL.
type FAQRepository struct {
	pool *pgxpool.Pool
}

// NewFAQRepository returns a FAQRepository that uses the given pool.
func NewFAQRepository(pool *pgxpool.Pool) *FAQRepository {
	return &FAQRepository{pool: pool}
}

// List returns all FAQ entries in display order.
func (r *FAQRepository) List(ctx context.Context) ([]faq.FAQ, error) {
	rows, err := r.pool.Query(ctx, listFAQsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing faqs: %w", err)
	}
	return pgx.CollectRows(rows, scanFAQ)
}

// GetByID returns a single FAQ entry.
func (r *FAQRepository) GetByID(ctx context.Context, id string) (*faq.FAQ, error) {
	rows, err := r.pool.Query(ctx, getFAQSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting faq %q: %w", id, err)
	}

	f, err := pgx.CollectExactlyOneRow(rows, scanFAQ)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, faq.ErrNotFound
		}
		return nil, fmt.Errorf("getting faq %q: %w", id, err)
	}
	return &f, nil
}

// Create inserts a new FAQ entry.
func (r *FAQRepository) Create(ctx context.Context, f *faq.FAQ) error {
	_, err := r.pool.Exec(ctx, insertFAQSQL, f.ID, f.Question, f.Answer, f.Position)
	if err != nil {
		return fmt.Errorf("creating faq %q: %w", f.ID, err)
	}
	return nil
}

// Update replaces the question, answer, and position of an entry.
func (r *FAQRepository) Update(ctx context.Context, f *faq.FAQ) error {
	tag, err := r.pool.Exec(ctx, updateFAQSQL, f.ID, f.Question, f.Answer, f.Position)
	if err != nil {
		return fmt.Errorf("updating faq %q: %w", f.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return faq.ErrNotFound
	}
	return nil
}

// Delete removes an FAQ entry.
func (r *FAQRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteFAQSQL, id)
	if err != nil {
		return fmt.Errorf("deleting faq %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return faq.ErrNotFound
	}
	return nil
}

func scanFAQ(row pgx.CollectableRow) (faq.FAQ, error) {
	var f faq.FAQ
	err := row.Scan(&f.ID, &f.Question, &f.Answer, &f.Position)
	return f, err
}
