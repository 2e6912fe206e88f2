package mailie

import "time"

// triggerRequest is the body of an automated email trigger call.
type triggerRequest struct {
	Email             string `json:"email"`
	CampaignTriggerID string `json:"campaignTriggerId"`
}

// CreateSubscriptionRequest registers a contact with the provider.
type CreateSubscriptionRequest struct {
	Email              string    `json:"email"`
	Name               string    `json:"name,omitempty"`
	MarketingAgreement bool      `json:"marketingAgreement"`
	MarketingAgreedAt  time.Time `json:"marketingAgreedAt"`
}

// ProviderRecord is the provider's view of a registered contact.
type ProviderRecord struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Status    string     `json:"status,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}
