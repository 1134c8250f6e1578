package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/raihanm/shopline-golang/internal/models"
	"github.com/raihanm/shopline-golang/internal/store"
)

//
// --- Order Handlers ---
//

// GetMyOrders is the handler for GET /v1/orders.
func (h *Handlers) GetMyOrders(c *gin.Context) {
	userID, _ := currentUserID(c)

	orders, err := h.Orders.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	if orders == nil {
		orders = []models.OrderHeader{}
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrderDetails is the handler for GET /v1/orders/:id.
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	userID, _ := currentUserID(c)
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	header, details, err := h.Orders.Get(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	// Ownership check: someone else's order looks like no order at all.
	if header.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if details == nil {
		details = []models.OrderDetail{}
	}

	c.JSON(http.StatusOK, gin.H{"order": header, "items": details})
}

// ConfirmOrder is the handler for POST /v1/orders/:id/confirm, the
// return leg of the hosted payment redirect. This is the only route
// that triggers the stock decrement for session-paid orders; confirming
// an already-approved order just returns it.
func (h *Handlers) ConfirmOrder(c *gin.Context) {
	userID, _ := currentUserID(c)
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	// Verify ownership before any state change.
	header, _, err := h.Orders.Get(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	if header.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	header, details, err := h.Checkouts.Confirm(c.Request.Context(), orderID)
	if err != nil {
		var conflict *store.StockConflictError
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.As(err, &conflict):
			c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm order"})
		}
		return
	}
	if details == nil {
		details = []models.OrderDetail{}
	}

	c.JSON(http.StatusOK, gin.H{"order": header, "items": details})
}

// CancelOrder is the handler for POST /v1/orders/:id/cancel. Only orders
// still awaiting payment can be withdrawn; an approved order is past the
// point of no return and gets a 409.
func (h *Handlers) CancelOrder(c *gin.Context) {
	userID, _ := currentUserID(c)
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	header, _, err := h.Orders.Get(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	if header.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	header, err = h.Checkouts.Cancel(c.Request.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, store.ErrIllegalTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Order can no longer be cancelled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": header})
}
