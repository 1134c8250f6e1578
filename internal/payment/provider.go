package payment

import "context"

// LineItem is one order line as presented to the hosted-payment provider.
type LineItem struct {
	Reference string  `json:"reference"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Session is what the provider hands back for one payment attempt: where
// to send the shopper, and the identifiers we persist on the order header
// before issuing the redirect.
type Session struct {
	RedirectURL     string `json:"redirect_url"`
	SessionID       string `json:"session_id"`
	PaymentIntentID string `json:"payment_intent_id"`
}

// CreateSessionParams carries the server-resolved total and line items.
// Client-supplied amounts never reach this struct.
type CreateSessionParams struct {
	OrderID    int64      `json:"order_id"`
	Total      float64    `json:"total"`
	Items      []LineItem `json:"items"`
	SuccessURL string     `json:"success_url"`
	CancelURL  string     `json:"cancel_url"`
}

// Provider is the hosted-payment capability. Any provider that can issue
// a redirect-based payment session against this contract is
// substitutable; the checkout orchestrator treats it as opaque.
type Provider interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error)
}
