package domain

// TriggerMapping maps a course day to the provider's automated email and
// campaign trigger identifiers.
type TriggerMapping struct {
	ProgressDay         int    `json:"progress_day" db:"progress_day"`
	AutomatedEmailExtID string `json:"automated_email_ext_id" db:"automated_email_ext_id"`
	TriggerExtID        string `json:"automated_email_trigger_ext_id" db:"automated_email_trigger_ext_id"`
}
