package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raihanm/shopline-golang/internal/auth"
	"github.com/raihanm/shopline-golang/internal/models"
	"github.com/raihanm/shopline-golang/internal/store"
)

//
// --- Account Handlers ---
//
// Only the slice of identity the storefront needs: register, login, and
// (through middleware) "who is the current user". Roles, verification
// and the rest of an identity provider stay outside this service.

// RegisterUserInput is the registration payload. CompanyID marks an
// invoice-billed account; shoppers leave it zero.
type RegisterUserInput struct {
	FullName     string  `json:"fullName" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=8"`
	PhoneNumber  string  `json:"phoneNumber" binding:"required"`
	CompanyID    int64   `json:"companyId"`
	AddressLine1 string  `json:"addressLine1" binding:"required"`
	AddressLine2 *string `json:"addressLine2"`
	City         string  `json:"city" binding:"required"`
	State        string  `json:"state" binding:"required"`
	Postcode     string  `json:"postcode" binding:"required"`
}

// Register is the handler for POST /v1/register.
func (h *Handlers) Register(c *gin.Context) {
	var input RegisterUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: password.Hash,
		CompanyID:    input.CompanyID,
		Profile: models.UserProfile{
			FullName:     input.FullName,
			PhoneNumber:  input.PhoneNumber,
			AddressLine1: input.AddressLine1,
			AddressLine2: input.AddressLine2,
			City:         input.City,
			State:        input.State,
			Postcode:     input.Postcode,
		},
	}

	userID, err := h.Users.Create(c.Request.Context(), user)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Account created", "userId": userID})
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/login.
// A successful login is a session transition: any guest cart held under
// the caller's session cookie is merged into the persisted cart here,
// exactly once, and the guest session cleared.
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.GetByEmail(c.Request.Context(), input.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	password := models.Password{Hash: user.PasswordHash}
	matches, err := password.Matches(input.Password)
	if err != nil || !matches {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	if sessionID := cartSessionID(c); sessionID != "" {
		ephemeral, err := h.Guest.Lines(c.Request.Context(), sessionID)
		if err == nil && len(ephemeral) > 0 {
			if err := h.Checkouts.MergeGuestCart(c.Request.Context(), user.ID, ephemeral); err == nil {
				_ = h.Guest.Clear(c.Request.Context(), sessionID)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
