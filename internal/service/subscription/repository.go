package subscription

import (
	"context"
	"time"

	"github.com/hymn-fly/pm-po-newsletter/internal/domain"
	"github.com/hymn-fly/pm-po-newsletter/internal/mailie"
)

// Store is the persistence contract for subscriptions.
type Store interface {
	GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	Insert(ctx context.Context, n domain.NewSubscriber) (*domain.Subscriber, error)
	SetAdvancedOptIn(ctx context.Context, id int64, at time.Time) (*domain.Subscriber, error)
}

// Registrar registers new contacts with the email provider.
type Registrar interface {
	CreateSubscription(ctx context.Context, in mailie.CreateSubscriptionRequest) (*mailie.ProviderRecord, error)
}
