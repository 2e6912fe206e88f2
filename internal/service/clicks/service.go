package clicks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hymn-fly/pm-po-newsletter/internal/domain"
)

// maxConflictRetries bounds how often Increment goes back to the update
// path after losing an insert race.
const maxConflictRetries = 3

// ErrEmptyHref is returned for a blank link.
var ErrEmptyHref = errors.New("href is required")

// Store is the persistence contract for click counters.
type Store interface {
	IncrementExisting(ctx context.Context, href string) (int64, error)
	Insert(ctx context.Context, href string) (int64, error)
	All(ctx context.Context) ([]domain.PageCount, error)
}

// ClickEvent is the tracking request body.
type ClickEvent struct {
	Href string `json:"href" validate:"required,max=2048"`
}

// Service implements click counting.
type Service struct {
	store Store
}

// NewService creates a click counting service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Increment adds one click for href and returns the new count.
func (s *Service) Increment(ctx context.Context, href string) (int64, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return 0, ErrEmptyHref
	}

	for attempt := 0; ; attempt++ {
		n, err := s.store.IncrementExisting(ctx, href)
		if err == nil {
			return n, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return 0, err
		}

		n, err = s.store.Insert(ctx, href)
		if err == nil {
			return n, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return 0, err
		}
		if attempt >= maxConflictRetries {
			return 0, fmt.Errorf("increment %q: gave up after %d insert conflicts: %w", href, attempt+1, err)
		}
	}
}

// Counts returns every counter keyed by href.
func (s *Service) Counts(ctx context.Context) (map[string]int64, error) {
	rows, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, pc := range rows {
		out[pc.Href] = pc.Count
	}
	return out, nil
}
