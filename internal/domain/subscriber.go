package domain

import "time"

const (
	// IntroCourseDays is the length of the onboarding email sequence.
	IntroCourseDays = 5

	// InitialProgressDay is the progress a subscriber starts with.
	InitialProgressDay = 1

	// AdvancedCadenceDay is the only weekday the advanced track is sent on.
	AdvancedCadenceDay = time.Sunday
)

// Subscriber is one row of the subscriptions table together with the
// subscriber's course progress.
type Subscriber struct {
	ID                int64      `json:"id" db:"id"`
	Email             string     `json:"email" db:"email"`
	ProgressDay       int        `json:"progress_day" db:"progress_day"`
	LastSentAt        *time.Time `json:"last_sent_at" db:"last_sent_at"`
	AdvancedOptIn     bool       `json:"advanced_opt_in" db:"advanced_opt_in"`
	AdvancedOptedInAt *time.Time `json:"advanced_opted_in_at" db:"advanced_opted_in_at"`
	IntroCompletedAt  *time.Time `json:"intro_completed_at" db:"intro_completed_at"`
	SubscribedAt      time.Time  `json:"subscribed_at" db:"subscribed_at"`
}

// IntroExhausted reports whether every intro email has already been sent.
func (s Subscriber) IntroExhausted() bool {
	return s.ProgressDay > IntroCourseDays
}

// IntroCompleted reports whether the subscriber finished the intro course,
// either by timestamp or by progress.
func (s Subscriber) IntroCompleted() bool {
	return s.IntroCompletedAt != nil || s.IntroExhausted()
}

// NewSubscriber holds the fields for inserting a subscription row.
type NewSubscriber struct {
	Email        string
	ProgressDay  int
	SubscribedAt time.Time
}

// Advancement is the write-back recorded after a successful send.
// A nil IntroCompletedAt leaves the stored value unchanged.
type Advancement struct {
	ProgressDay      int
	LastSentAt       time.Time
	IntroCompletedAt *time.Time
}
