package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hymn-fly/pm-po-newsletter/internal/domain"
)

const subscriberColumns = `id, email, progress_day, last_sent_at, advanced_opt_in,
	advanced_opted_in_at, intro_completed_at, subscribed_at`

// SubscriberRepo implements the subscription store against PostgreSQL.
type SubscriberRepo struct{ db *sql.DB }

// NewSubscriberRepo creates a Postgres-backed subscriber repository.
func NewSubscriberRepo(db *sql.DB) *SubscriberRepo { return &SubscriberRepo{db: db} }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscriber(row rowScanner) (*domain.Subscriber, error) {
	var (
		s                            domain.Subscriber
		lastSent, optedIn, introDone sql.NullTime
	)
	if err := row.Scan(
		&s.ID, &s.Email, &s.ProgressDay, &lastSent, &s.AdvancedOptIn,
		&optedIn, &introDone, &s.SubscribedAt,
	); err != nil {
		return nil, err
	}
	s.LastSentAt = timePtr(lastSent)
	s.AdvancedOptedInAt = timePtr(optedIn)
	s.IntroCompletedAt = timePtr(introDone)
	s.SubscribedAt = s.SubscribedAt.UTC()
	return &s, nil
}

// ListAll returns every subscriber ordered by id.
func (r *SubscriberRepo) ListAll(ctx context.Context) ([]domain.Subscriber, error) {
	return r.list(ctx, "list subscribers",
		`SELECT `+subscriberColumns+` FROM subscriptions ORDER BY id`)
}

// ListBelowDay returns subscribers with progress_day < day, ordered by id.
func (r *SubscriberRepo) ListBelowDay(ctx context.Context, day int) ([]domain.Subscriber, error) {
	return r.list(ctx, "list subscribers below day",
		`SELECT `+subscriberColumns+` FROM subscriptions WHERE progress_day < $1 ORDER BY id`, day)
}

func (r *SubscriberRepo) list(ctx context.Context, op, q string, args ...any) ([]domain.Subscriber, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, &domain.StoreError{Op: op, Err: err}
	}
	defer rows.Close()

	var out []domain.Subscriber
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return nil, &domain.StoreError{Op: op, Err: fmt.Errorf("scan subscriber: %w", err)}
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StoreError{Op: op, Err: err}
	}
	return out, nil
}

// GetByEmail returns the subscriber with the given address.
func (r *SubscriberRepo) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	s, err := scanSubscriber(r.db.QueryRowContext(ctx,
		`SELECT `+subscriberColumns+` FROM subscriptions WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.StoreError{Op: "get subscriber", Err: err}
	}
	return s, nil
}

// Insert creates a subscription row. A duplicate email is domain.ErrConflict.
func (r *SubscriberRepo) Insert(ctx context.Context, n domain.NewSubscriber) (*domain.Subscriber, error) {
	s, err := scanSubscriber(r.db.QueryRowContext(ctx, `
		INSERT INTO subscriptions (email, progress_day, subscribed_at)
		VALUES ($1, $2, $3)
		RETURNING `+subscriberColumns,
		n.Email, n.ProgressDay, n.SubscribedAt.UTC(),
	))
	if isUniqueViolation(err) {
		return nil, domain.ErrConflict
	}
	if err != nil {
		return nil, &domain.StoreError{Op: "insert subscriber", Err: err}
	}
	return s, nil
}

// RecordSend stores the progress reached after a send. intro_completed_at
// is only ever set once.
func (r *SubscriberRepo) RecordSend(ctx context.Context, id int64, adv domain.Advancement) (*domain.Subscriber, error) {
	s, err := scanSubscriber(r.db.QueryRowContext(ctx, `
		UPDATE subscriptions
		SET progress_day = $2,
		    last_sent_at = $3,
		    intro_completed_at = COALESCE(intro_completed_at, $4)
		WHERE id = $1
		RETURNING `+subscriberColumns,
		id, adv.ProgressDay, adv.LastSentAt.UTC(), nullTime(adv.IntroCompletedAt),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.StoreError{Op: "record send", Err: err}
	}
	return s, nil
}

// SetAdvancedOptIn flags the subscriber for the advanced track. The opt-in
// timestamp is kept if it was already set.
func (r *SubscriberRepo) SetAdvancedOptIn(ctx context.Context, id int64, at time.Time) (*domain.Subscriber, error) {
	s, err := scanSubscriber(r.db.QueryRowContext(ctx, `
		UPDATE subscriptions
		SET advanced_opt_in = true,
		    advanced_opted_in_at = COALESCE(advanced_opted_in_at, $2)
		WHERE id = $1
		RETURNING `+subscriberColumns,
		id, at.UTC(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.StoreError{Op: "set advanced opt-in", Err: err}
	}
	return s, nil
}
