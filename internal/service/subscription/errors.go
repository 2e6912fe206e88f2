package subscription

import "errors"

// Sentinel errors for the subscription service layer.
var (
	ErrIntroIncomplete = errors.New("intro course not completed")
	ErrInvalidEmail    = errors.New("email is required")
)
