package progress

import (
	"context"

	"github.com/hymn-fly/pm-po-newsletter/internal/domain"
)

// Store is the subscriber persistence the job needs.
type Store interface {
	// ListAll returns every subscriber ordered by id.
	ListAll(ctx context.Context) ([]domain.Subscriber, error)

	// RecordSend persists the progress reached after a successful send.
	RecordSend(ctx context.Context, id int64, adv domain.Advancement) (*domain.Subscriber, error)
}

// EmailClient resolves and fires the provider trigger for a course day.
type EmailClient interface {
	LookupTrigger(ctx context.Context, progressDay int) (domain.TriggerMapping, error)
	Trigger(ctx context.Context, email string, mapping domain.TriggerMapping) error
}
