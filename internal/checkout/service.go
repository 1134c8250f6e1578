package checkout

import (
	"context"

	"github.com/raihanm/shopline-golang/internal/models"
	"github.com/raihanm/shopline-golang/internal/payment"
)

// The orchestrator depends on narrow, typed store contracts rather than a
// generic query capability. The MySQL stores in internal/store satisfy
// all of them; tests swap in mocks.

// CartStore is the persisted per-user cart.
type CartStore interface {
	Lines(ctx context.Context, userID int64) ([]models.CartLine, error)
	Add(ctx context.Context, userID, productID int64, quantity int) error
	Clear(ctx context.Context, userID int64) error
}

// ProductSource reads live catalog products for pricing and merge checks.
type ProductSource interface {
	GetActive(ctx context.Context, productID int64) (*models.Product, error)
}

// StockReserver performs the confirmation-time, all-or-nothing stock
// decrement.
type StockReserver interface {
	Reserve(ctx context.Context, details []models.OrderDetail) error
}

// OrderStore owns order headers/details and their status transitions.
type OrderStore interface {
	Create(ctx context.Context, header *models.OrderHeader, details []models.OrderDetail) (int64, error)
	Get(ctx context.Context, orderID int64) (*models.OrderHeader, []models.OrderDetail, error)
	AttachPaymentSession(ctx context.Context, orderID int64, sessionID, paymentIntentID string) error
	UpdateStatus(ctx context.Context, orderID int64, status models.OrderStatus, paymentStatus models.PaymentStatus) error
	ClaimConfirmation(ctx context.Context, orderID int64, payment models.PaymentStatus) (bool, error)
	ReleaseConfirmation(ctx context.Context, orderID int64) error
}

// AccountSource supplies the current user and their billing profile; the
// rest of the identity subsystem stays outside the core.
type AccountSource interface {
	Get(ctx context.Context, userID int64) (*models.User, error)
}

// Service is the checkout orchestrator: it merges carts, resolves
// authoritative pricing, creates orders, branches on the account's
// billing type and drives payment confirmation.
type Service struct {
	carts    CartStore
	products ProductSource
	stock    StockReserver
	orders   OrderStore
	accounts AccountSource
	provider payment.Provider

	successURL string
	cancelURL  string
}

func NewService(carts CartStore, products ProductSource, stock StockReserver,
	orders OrderStore, accounts AccountSource, provider payment.Provider,
	successURL, cancelURL string) *Service {
	return &Service{
		carts:      carts,
		products:   products,
		stock:      stock,
		orders:     orders,
		accounts:   accounts,
		provider:   provider,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}
