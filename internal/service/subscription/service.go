package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hymn-fly/pm-po-newsletter/internal/domain"
	"github.com/hymn-fly/pm-po-newsletter/internal/mailie"
	"github.com/hymn-fly/pm-po-newsletter/internal/pkg/logger"
	"go.uber.org/zap"
)

// CreateInput is the sign-up request.
type CreateInput struct {
	Email string `json:"email" validate:"required,email,max=320"`
}

// OptInInput is the advanced track opt-in request.
type OptInInput struct {
	Email string `json:"email" validate:"required,email,max=320"`
}

// Service implements subscription business logic. It is safe for concurrent use.
type Service struct {
	store     Store
	registrar Registrar
	log       *zap.Logger
	now       func() time.Time
}

// NewService creates a subscription service. registrar may be nil, in which
// case new subscribers are not registered with the provider.
func NewService(store Store, registrar Registrar, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, registrar: registrar, log: log, now: time.Now}
}

// SetClock overrides the time source. Used in tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create subscribes a new address at day one of the intro course. An
// address that is already subscribed is domain.ErrConflict.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Subscriber, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, ErrInvalidEmail
	}

	_, err := s.store.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrConflict
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("check existing subscription: %w", err)
	}

	now := s.now().UTC()
	sub, err := s.store.Insert(ctx, domain.NewSubscriber{
		Email:        email,
		ProgressDay:  domain.InitialProgressDay,
		SubscribedAt: now,
	})
	if err != nil {
		return nil, err
	}

	// Provider registration never fails the sign-up.
	if err := s.register(ctx, email, now); err != nil {
		s.log.Warn("provider registration failed",
			logger.Email("email", email), zap.Error(err))
	}

	s.log.Info("subscription created",
		zap.Int64("subscriber_id", sub.ID), logger.Email("email", email))
	return sub, nil
}

func (s *Service) register(ctx context.Context, email string, at time.Time) error {
	if s.registrar == nil {
		return nil
	}
	_, err := s.registrar.CreateSubscription(ctx, mailie.CreateSubscriptionRequest{
		Email:              email,
		MarketingAgreement: true,
		MarketingAgreedAt:  at,
	})
	return err
}

// OptInAdvanced moves a subscriber who finished the intro onto the weekly
// advanced track. Opting in twice returns the subscriber unchanged.
func (s *Service) OptInAdvanced(ctx context.Context, in OptInInput) (*domain.Subscriber, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, ErrInvalidEmail
	}

	sub, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !sub.IntroCompleted() {
		return nil, ErrIntroIncomplete
	}
	if sub.AdvancedOptIn {
		return sub, nil
	}

	updated, err := s.store.SetAdvancedOptIn(ctx, sub.ID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.log.Info("advanced track opt-in",
		zap.Int64("subscriber_id", updated.ID), logger.Email("email", email))
	return updated, nil
}
