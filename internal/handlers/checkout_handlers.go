package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raihanm/shopline-golang/internal/checkout"
	"github.com/raihanm/shopline-golang/internal/store"
)

//
// --- Checkout Handler ---
//

// Checkout is the handler for POST /v1/checkout.
// The consolidated cart is re-priced server-side; any totals in the
// request body are ignored (there is no body to bind at all). Company
// accounts get a 201 with the finalized order reference; individual
// accounts get a 303 redirect to the hosted payment page.
func (h *Handlers) Checkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	result, err := h.Checkouts.Checkout(c.Request.Context(), userID)
	if err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	if result.RedirectURL != "" {
		// 303: the caller must forward the shopper, never render.
		c.Redirect(http.StatusSeeOther, result.RedirectURL)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// renderCheckoutError maps orchestrator failures onto HTTP statuses.
// A PendingOrderError means the order header was committed before the
// failure: the response names the order so it can be reconciled.
func (h *Handlers) renderCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
	case errors.Is(err, checkout.ErrIncompleteProfile):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Billing profile is incomplete"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	default:
		var pending *checkout.PendingOrderError
		if errors.As(err, &pending) {
			var conflict *store.StockConflictError
			if errors.As(err, &conflict) {
				c.JSON(http.StatusConflict, gin.H{
					"error":   conflict.Error(),
					"orderId": pending.OrderID,
				})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "Payment provider unavailable, order retained",
				"orderId": pending.OrderID,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
	}
}
