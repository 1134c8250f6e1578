package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/raihanm/shopline-golang/internal/store"
)

//
// --- Cart Handlers (guest + authenticated) ---
//

// AddToCartInput defines the JSON for adding an item to the cart.
type AddToCartInput struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// AddToCart is the handler for POST /v1/cart/items.
// Guests get a session-scoped line; authenticated shoppers a persisted
// one. Either way quantities for an existing line are summed.
func (h *Handlers) AddToCart(c *gin.Context) {
	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	// The product must exist and be active. Stock is checked here only
	// as a courtesy; nothing is reserved until order confirmation.
	product, err := h.Products.GetActive(c.Request.Context(), input.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found or not active"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if product.StockQuantity < input.Quantity {
		c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock"})
		return
	}

	if userID, ok := currentUserID(c); ok {
		if err := h.Carts.Add(c.Request.Context(), userID, input.ProductID, input.Quantity); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
	} else {
		if err := h.Guest.Add(c.Request.Context(), cartSessionID(c), input.ProductID, input.Quantity); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Item added to cart"})
}

// GetCart is the handler for GET /v1/cart.
// For an authenticated shopper any leftover guest cart is merged into
// the persisted cart first (and the guest session cleared, so the merge
// runs once per session transition). Prices shown are resolved live.
func (h *Handlers) GetCart(c *gin.Context) {
	ctx := c.Request.Context()

	userID, authed := currentUserID(c)
	if !authed {
		lines, err := h.Guest.Lines(ctx, cartSessionID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart"})
			return
		}
		view, err := h.Checkouts.ViewGuestCart(ctx, lines)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve cart"})
			return
		}
		c.JSON(http.StatusOK, view)
		return
	}

	if sessionID := cartSessionID(c); sessionID != "" {
		ephemeral, err := h.Guest.Lines(ctx, sessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart"})
			return
		}
		if len(ephemeral) > 0 {
			if err := h.Checkouts.MergeGuestCart(ctx, userID, ephemeral); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to merge cart"})
				return
			}
			if err := h.Guest.Clear(ctx, sessionID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear session cart"})
				return
			}
		}
	}

	view, err := h.Checkouts.ViewCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve cart"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateCartItemInput defines the JSON for updating an item's quantity.
// A quantity of 0 removes the line.
type UpdateCartItemInput struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// UpdateCartItem is the handler for PUT /v1/cart/items/:product_id.
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Quantity == 0 {
		h.removeCartItem(c, productID)
		return
	}

	product, err := h.Products.GetActive(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check product"})
		return
	}
	if product.StockQuantity < input.Quantity {
		c.JSON(http.StatusConflict, gin.H{"error": "Not enough stock available for this quantity"})
		return
	}

	if userID, ok := currentUserID(c); ok {
		err = h.Carts.SetQuantity(c.Request.Context(), userID, productID, input.Quantity)
	} else {
		err = h.Guest.SetQuantity(c.Request.Context(), cartSessionID(c), productID, input.Quantity)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in cart"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart item quantity updated"})
}

// DeleteCartItem is the handler for DELETE /v1/cart/items/:product_id.
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}
	h.removeCartItem(c, productID)
}

// removeCartItem is a helper to DRY up the delete logic.
func (h *Handlers) removeCartItem(c *gin.Context, productID int64) {
	var err error
	if userID, ok := currentUserID(c); ok {
		err = h.Carts.Remove(c.Request.Context(), userID, productID)
	} else {
		err = h.Guest.Remove(c.Request.Context(), cartSessionID(c), productID)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in cart"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
}
