// Package mailie is the client for the Mailie transactional email API. It
// resolves a course day to the provider's automated email identifiers and
// triggers the send for one recipient.
//
// The client never retries. A failed trigger leaves the subscriber's
// progress untouched, so the next scheduled run picks it up again.
package mailie

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hymn-fly/pm-po-newsletter/internal/config"
	"github.com/hymn-fly/pm-po-newsletter/internal/domain"
)

// Mappings resolves a progress day to its trigger identifiers. It returns
// an error wrapping domain.ErrNotFound when the day has no mapping.
type Mappings interface {
	Get(ctx context.Context, progressDay int) (domain.TriggerMapping, error)
}

// Client is a Mailie API client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	mappings   Mappings
}

// NewClient creates a new Mailie API client. mappings may be nil for
// callers that only register subscriptions.
func NewClient(cfg config.MailieConfig, mappings Mappings) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		mappings:   mappings,
	}
}

// Close releases idle provider connections held by the client.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// LookupTrigger resolves the trigger mapping for a course day.
func (c *Client) LookupTrigger(ctx context.Context, progressDay int) (domain.TriggerMapping, error) {
	if c.mappings == nil {
		return domain.TriggerMapping{}, errors.New("mailie: no trigger mappings configured")
	}
	m, err := c.mappings.Get(ctx, progressDay)
	if err != nil {
		return domain.TriggerMapping{}, fmt.Errorf("lookup trigger for day %d: %w", progressDay, err)
	}
	return m, nil
}

// Trigger fires the automated email described by mapping for one recipient.
func (c *Client) Trigger(ctx context.Context, email string, mapping domain.TriggerMapping) error {
	path := "/v1/automated-emails/" + url.PathEscape(mapping.AutomatedEmailExtID) + "/trigger"
	payload := triggerRequest{Email: email, CampaignTriggerID: mapping.TriggerExtID}

	if _, err := c.doRequest(ctx, http.MethodPost, path, payload, http.StatusOK); err != nil {
		return fmt.Errorf("trigger day %d: %w", mapping.ProgressDay, err)
	}
	return nil
}

// CreateSubscription registers a new contact with the provider.
func (c *Client) CreateSubscription(ctx context.Context, in CreateSubscriptionRequest) (*ProviderRecord, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/v1/subscriptions", in, http.StatusOK, http.StatusCreated)
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	var rec ProviderRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("parsing subscription response: %w", err)
	}
	return &rec, nil
}

// doRequest makes an HTTP request to the Mailie API. Any status outside ok
// is returned as a *domain.ProviderError carrying the response body.
func (c *Client) doRequest(ctx context.Context, method, path string, payload any, ok ...int) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	for _, code := range ok {
		if resp.StatusCode == code {
			return body, nil
		}
	}
	return nil, &domain.ProviderError{StatusCode: resp.StatusCode, Message: string(body)}
}
