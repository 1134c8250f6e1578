package models

import "time"

// OrderStatus is the lifecycle state of an order header.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// CanTransitionTo reports whether moving to 'next' is a legal transition.
// Approved orders are permanent: they never regress to pending and are
// never cancelled through the public contract.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusApproved || next == OrderStatusCancelled
	case OrderStatusApproved, OrderStatusCancelled:
		return next == s
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// PaymentStatus tracks the payment side of an order. Invoice-billed
// (company) accounts use 'delayed'; session-based accounts move from
// 'pending' to 'approved' when the hosted payment is confirmed.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
	PaymentStatusDelayed  PaymentStatus = "delayed"
)

func (s PaymentStatus) String() string {
	return string(s)
}

// OrderHeader is the model for the 'orders' table.
// The Ship* fields are a snapshot of the shopper's billing profile taken
// once at checkout submission; later profile edits never alter a placed
// order.
type OrderHeader struct {
	ID            int64         `json:"id" db:"id"`
	UserID        int64         `json:"userId" db:"user_id"`
	Total         float64       `json:"total" db:"total"`
	OrderStatus   OrderStatus   `json:"orderStatus" db:"order_status"`
	PaymentStatus PaymentStatus `json:"paymentStatus" db:"payment_status"`

	// Hosted-payment session identifiers, set only on the payment branch.
	PaymentSessionID *string `json:"paymentSessionId,omitempty" db:"payment_session_id"`
	PaymentIntentID  *string `json:"paymentIntentId,omitempty" db:"payment_intent_id"`

	Tracking *string `json:"tracking,omitempty" db:"tracking"`

	// Billing/shipping snapshot.
	ShipName     string  `json:"shipName" db:"ship_name"`
	ShipPhone    string  `json:"shipPhone" db:"ship_phone"`
	ShipAddress1 string  `json:"shipAddress1" db:"ship_address1"`
	ShipAddress2 *string `json:"shipAddress2,omitempty" db:"ship_address2"`
	ShipCity     string  `json:"shipCity" db:"ship_city"`
	ShipState    string  `json:"shipState" db:"ship_state"`
	ShipPostcode string  `json:"shipPostcode" db:"ship_postcode"`

	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	ShippedAt *time.Time `json:"shippedAt,omitempty" db:"shipped_at"`
}

// OrderDetail is the model for the 'order_details' table. Title and unit
// price are snapshots taken at checkout time.
type OrderDetail struct {
	ID            int64     `json:"id" db:"id"`
	OrderHeaderID int64     `json:"orderHeaderId" db:"order_header_id"`
	ProductID     int64     `json:"productId" db:"product_id"`
	ProductTitle  string    `json:"productTitle" db:"product_title"`
	Quantity      int       `json:"quantity" db:"quantity"`
	UnitPrice     float64   `json:"unitPrice" db:"unit_price"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// LineTotal is the detail's contribution to the header total.
func (d *OrderDetail) LineTotal() float64 {
	return d.UnitPrice * float64(d.Quantity)
}
