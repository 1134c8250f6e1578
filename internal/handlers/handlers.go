package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/raihanm/shopline-golang/internal/checkout"
	"github.com/raihanm/shopline-golang/internal/models"
)

// CheckoutService is the slice of the checkout orchestrator the HTTP
// layer consumes.
type CheckoutService interface {
	Checkout(ctx context.Context, userID int64) (*checkout.Result, error)
	Confirm(ctx context.Context, orderID int64) (*models.OrderHeader, []models.OrderDetail, error)
	Cancel(ctx context.Context, orderID int64) (*models.OrderHeader, error)
	ViewCart(ctx context.Context, userID int64) (*checkout.CartView, error)
	ViewGuestCart(ctx context.Context, lines []models.CartLine) (*checkout.CartView, error)
	MergeGuestCart(ctx context.Context, userID int64, ephemeral []models.CartLine) error
}

// GuestCartStore is the session-scoped ephemeral cart.
type GuestCartStore interface {
	Add(ctx context.Context, sessionID string, productID int64, quantity int) error
	SetQuantity(ctx context.Context, sessionID string, productID int64, quantity int) error
	Remove(ctx context.Context, sessionID string, productID int64) error
	Lines(ctx context.Context, sessionID string) ([]models.CartLine, error)
	Clear(ctx context.Context, sessionID string) error
}

// ProductCatalog is the read-only catalog surface.
type ProductCatalog interface {
	GetActive(ctx context.Context, productID int64) (*models.Product, error)
	ListActive(ctx context.Context) ([]models.Product, error)
}

// CartLineStore is the persisted per-user cart.
type CartLineStore interface {
	Add(ctx context.Context, userID, productID int64, quantity int) error
	SetQuantity(ctx context.Context, userID, productID int64, quantity int) error
	Remove(ctx context.Context, userID, productID int64) error
}

// OrderReader reads placed orders for the shopper-facing endpoints.
type OrderReader interface {
	Get(ctx context.Context, orderID int64) (*models.OrderHeader, []models.OrderDetail, error)
	ListByUser(ctx context.Context, userID int64) ([]models.OrderHeader, error)
}

// AccountStore is the slice of the identity subsystem we consume.
type AccountStore interface {
	Get(ctx context.Context, userID int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) (int64, error)
}

// Handlers holds all dependencies for the HTTP layer.
type Handlers struct {
	Checkouts CheckoutService
	Guest     GuestCartStore
	Carts     CartLineStore
	Products  ProductCatalog
	Orders    OrderReader
	Users     AccountStore
}

// currentUserID returns the authenticated user ID placed on the context
// by the auth middleware.
func currentUserID(c *gin.Context) (int64, bool) {
	raw, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	userID, ok := raw.(int64)
	return userID, ok
}

// cartSessionID returns the guest cart session ID set by the session
// middleware, or "" when the route carries no session.
func cartSessionID(c *gin.Context) string {
	raw, ok := c.Get("cartSessionID")
	if !ok {
		return ""
	}
	sessionID, _ := raw.(string)
	return sessionID
}
