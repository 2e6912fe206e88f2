package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hymn-fly/pm-po-newsletter/internal/domain"
)

// PageCountRepo stores per-link click counters.
type PageCountRepo struct{ db *sql.DB }

// NewPageCountRepo creates a Postgres-backed click counter repository.
func NewPageCountRepo(db *sql.DB) *PageCountRepo { return &PageCountRepo{db: db} }

// IncrementExisting adds one to an existing counter and returns the new
// value, or domain.ErrNotFound if href has no row yet.
func (r *PageCountRepo) IncrementExisting(ctx context.Context, href string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE page_counts SET count = count + 1 WHERE href = $1 RETURNING count`,
		href,
	).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, &domain.StoreError{Op: "increment page count", Err: err}
	}
	return n, nil
}

// Insert creates a counter starting at one. A concurrent insert of the
// same href is domain.ErrConflict.
func (r *PageCountRepo) Insert(ctx context.Context, href string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO page_counts (href, count) VALUES ($1, 1) RETURNING count`,
		href,
	).Scan(&n)
	if isUniqueViolation(err) {
		return 0, domain.ErrConflict
	}
	if err != nil {
		return 0, &domain.StoreError{Op: "insert page count", Err: err}
	}
	return n, nil
}

// All returns every counter ordered by href.
func (r *PageCountRepo) All(ctx context.Context) ([]domain.PageCount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT href, count FROM page_counts ORDER BY href`)
	if err != nil {
		return nil, &domain.StoreError{Op: "list page counts", Err: err}
	}
	defer rows.Close()

	var out []domain.PageCount
	for rows.Next() {
		var pc domain.PageCount
		if err := rows.Scan(&pc.Href, &pc.Count); err != nil {
			return nil, &domain.StoreError{Op: "list page counts", Err: err}
		}
		out = append(out, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StoreError{Op: "list page counts", Err: err}
	}
	return out, nil
}
