package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HostedClient talks to the hosted-payment provider's session API over
// HTTPS. Each attempt carries a fresh idempotency key so a retried
// request cannot open two payment sessions for one order.
type HostedClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewHostedClient(baseURL, apiKey string) *HostedClient {
	return &HostedClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *HostedClient) CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session response: %w", err)
	}
	if session.RedirectURL == "" || session.SessionID == "" {
		return nil, fmt.Errorf("payment provider returned an incomplete session")
	}

	return &session, nil
}
