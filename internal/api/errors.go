package api

import (
	"errors"
	"net/http"

	"github.com/hymn-fly/pm-po-newsletter/internal/domain"
	"github.com/hymn-fly/pm-po-newsletter/internal/pkg/httputil"
	"github.com/hymn-fly/pm-po-newsletter/internal/service/clicks"
	"github.com/hymn-fly/pm-po-newsletter/internal/service/subscription"
)

// writeError maps service errors to HTTP responses. Anything unrecognised
// is a 500 whose detail only goes to the log.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	var reqErr *httputil.RequestError
	switch {
	case errors.As(err, &reqErr):
		httputil.Error(w, http.StatusUnprocessableEntity, reqErr.Error())
	case errors.Is(err, subscription.ErrInvalidEmail), errors.Is(err, clicks.ErrEmptyHref):
		httputil.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.Error(w, http.StatusConflict, "this email is already subscribed")
	case errors.Is(err, domain.ErrNotFound):
		httputil.Error(w, http.StatusNotFound, "subscription not found")
	case errors.Is(err, subscription.ErrIntroIncomplete):
		httputil.Error(w, http.StatusBadRequest, "the advanced track opens after the day 5 email")
	default:
		httputil.InternalError(w, h.log, err)
	}
}
