package api

import (
	"context"
	"net/http"

	"github.com/hymn-fly/pm-po-newsletter/internal/domain"
	"github.com/hymn-fly/pm-po-newsletter/internal/pkg/httputil"
	"github.com/hymn-fly/pm-po-newsletter/internal/service/clicks"
	"github.com/hymn-fly/pm-po-newsletter/internal/service/subscription"
	"go.uber.org/zap"
)

// SubscriptionService is the subscription behaviour the handlers need.
type SubscriptionService interface {
	Create(ctx context.Context, in subscription.CreateInput) (*domain.Subscriber, error)
	OptInAdvanced(ctx context.Context, in subscription.OptInInput) (*domain.Subscriber, error)
}

// ClickService is the click tracking behaviour the handlers need.
type ClickService interface {
	Increment(ctx context.Context, href string) (int64, error)
	Counts(ctx context.Context) (map[string]int64, error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	subscriptions SubscriptionService
	clicks        ClickService
	health        *HealthChecker
	log           *zap.Logger
}

// NewHandlers creates a new Handlers instance. health may be nil.
func NewHandlers(subs SubscriptionService, clk ClickService, health *HealthChecker, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{subscriptions: subs, clicks: clk, health: health, log: log}
}

// CreateSubscription handles POST /subscriptions.
func (h *Handlers) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	var in subscription.CreateInput
	if err := httputil.Bind(r, &in); err != nil {
		h.writeError(w, err)
		return
	}
	sub, err := h.subscriptions.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.Created(w, sub)
}

// OptInAdvanced handles POST /subscriptions/advanced-opt-in.
func (h *Handlers) OptInAdvanced(w http.ResponseWriter, r *http.Request) {
	var in subscription.OptInInput
	if err := httputil.Bind(r, &in); err != nil {
		h.writeError(w, err)
		return
	}
	sub, err := h.subscriptions.OptInAdvanced(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.OK(w, sub)
}

// TrackClick handles POST /track-click.
func (h *Handlers) TrackClick(w http.ResponseWriter, r *http.Request) {
	var ev clicks.ClickEvent
	if err := httputil.Bind(r, &ev); err != nil {
		h.writeError(w, err)
		return
	}
	if _, err := h.clicks.Increment(r.Context(), ev.Href); err != nil {
		h.writeError(w, err)
		return
	}
	httputil.NoContent(w)
}

// PageCounts handles GET /page-counts.
func (h *Handlers) PageCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.clicks.Counts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	httputil.OK(w, counts)
}
