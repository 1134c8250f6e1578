package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/raihanm/shopline-golang/internal/checkout"
	"github.com/raihanm/shopline-golang/internal/models"
	"github.com/raihanm/shopline-golang/internal/store"
	"github.com/stretchr/testify/assert"
)

type stubCheckoutService struct {
	CheckoutResult *checkout.Result
	CheckoutErr    error

	ConfirmHeader  *models.OrderHeader
	ConfirmDetails []models.OrderDetail
	ConfirmErr     error

	CancelHeader *models.OrderHeader
	CancelErr    error
}

func (s *stubCheckoutService) Checkout(_ context.Context, _ int64) (*checkout.Result, error) {
	return s.CheckoutResult, s.CheckoutErr
}

func (s *stubCheckoutService) Confirm(_ context.Context, _ int64) (*models.OrderHeader, []models.OrderDetail, error) {
	return s.ConfirmHeader, s.ConfirmDetails, s.ConfirmErr
}

func (s *stubCheckoutService) Cancel(_ context.Context, _ int64) (*models.OrderHeader, error) {
	return s.CancelHeader, s.CancelErr
}

func (s *stubCheckoutService) ViewCart(_ context.Context, _ int64) (*checkout.CartView, error) {
	return &checkout.CartView{}, nil
}

func (s *stubCheckoutService) ViewGuestCart(_ context.Context, _ []models.CartLine) (*checkout.CartView, error) {
	return &checkout.CartView{}, nil
}

func (s *stubCheckoutService) MergeGuestCart(_ context.Context, _ int64, _ []models.CartLine) error {
	return nil
}

type stubOrderReader struct {
	Header  *models.OrderHeader
	Details []models.OrderDetail
	Err     error
}

func (s *stubOrderReader) Get(_ context.Context, _ int64) (*models.OrderHeader, []models.OrderDetail, error) {
	return s.Header, s.Details, s.Err
}

func (s *stubOrderReader) ListByUser(_ context.Context, _ int64) ([]models.OrderHeader, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Header == nil {
		return nil, nil
	}
	return []models.OrderHeader{*s.Header}, nil
}

func checkoutTestRouter(h *Handlers, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set("userID", userID)
		}
		c.Next()
	})
	r.POST("/v1/checkout", h.Checkout)
	r.POST("/v1/orders/:id/confirm", h.ConfirmOrder)
	r.POST("/v1/orders/:id/cancel", h.CancelOrder)
	return r
}

func TestCheckoutRedirectsToHostedPaymentPage(t *testing.T) {
	svc := &stubCheckoutService{
		CheckoutResult: &checkout.Result{
			OrderID:       12,
			Total:         180,
			OrderStatus:   models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			RedirectURL:   "https://pay.example.com/s/abc",
		},
	}
	router := checkoutTestRouter(&Handlers{Checkouts: svc}, 42)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/checkout", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "https://pay.example.com/s/abc", w.Header().Get("Location"))
}

func TestCheckoutReturnsFinalizedInvoiceOrder(t *testing.T) {
	svc := &stubCheckoutService{
		CheckoutResult: &checkout.Result{
			OrderID:       15,
			Total:         270,
			OrderStatus:   models.OrderStatusApproved,
			PaymentStatus: models.PaymentStatusDelayed,
		},
	}
	router := checkoutTestRouter(&Handlers{Checkouts: svc}, 7)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/checkout", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"orderId":15`)
	assert.Contains(t, w.Body.String(), `"orderStatus":"approved"`)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := &stubCheckoutService{CheckoutErr: checkout.ErrEmptyCart}
	router := checkoutTestRouter(&Handlers{Checkouts: svc}, 42)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/checkout", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutRequiresAuth(t *testing.T) {
	router := checkoutTestRouter(&Handlers{Checkouts: &stubCheckoutService{}}, 0)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/checkout", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckoutProviderOutageNamesRetainedOrder(t *testing.T) {
	svc := &stubCheckoutService{
		CheckoutErr: &checkout.PendingOrderError{OrderID: 31, Err: errors.New("connection reset")},
	}
	router := checkoutTestRouter(&Handlers{Checkouts: svc}, 42)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/checkout", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"orderId":31`)
}

func TestCheckoutStockConflict(t *testing.T) {
	svc := &stubCheckoutService{
		CheckoutErr: &checkout.PendingOrderError{
			OrderID: 33,
			Err:     &store.StockConflictError{ProductID: 2, Requested: 4},
		},
	}
	router := checkoutTestRouter(&Handlers{Checkouts: svc}, 7)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/checkout", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"orderId":33`)
}

func TestConfirmOrderHidesOtherUsersOrders(t *testing.T) {
	orders := &stubOrderReader{
		Header: &models.OrderHeader{ID: 9, UserID: 99, OrderStatus: models.OrderStatusPending},
	}
	router := checkoutTestRouter(&Handlers{Checkouts: &stubCheckoutService{}, Orders: orders}, 42)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/orders/9/confirm", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfirmOrderApproves(t *testing.T) {
	header := &models.OrderHeader{ID: 9, UserID: 42, OrderStatus: models.OrderStatusPending}
	svc := &stubCheckoutService{
		ConfirmHeader: &models.OrderHeader{
			ID: 9, UserID: 42,
			OrderStatus:   models.OrderStatusApproved,
			PaymentStatus: models.PaymentStatusApproved,
		},
	}
	router := checkoutTestRouter(&Handlers{Checkouts: svc, Orders: &stubOrderReader{Header: header}}, 42)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/orders/9/confirm", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"orderStatus":"approved"`)
}

func TestCancelOrderWithdrawsPendingOrder(t *testing.T) {
	header := &models.OrderHeader{ID: 9, UserID: 42, OrderStatus: models.OrderStatusPending}
	svc := &stubCheckoutService{
		CancelHeader: &models.OrderHeader{
			ID: 9, UserID: 42,
			OrderStatus:   models.OrderStatusCancelled,
			PaymentStatus: models.PaymentStatusRejected,
		},
	}
	router := checkoutTestRouter(&Handlers{Checkouts: svc, Orders: &stubOrderReader{Header: header}}, 42)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/orders/9/cancel", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"orderStatus":"cancelled"`)
}

func TestCancelOrderRejectsApprovedOrder(t *testing.T) {
	header := &models.OrderHeader{ID: 9, UserID: 42, OrderStatus: models.OrderStatusApproved}
	svc := &stubCheckoutService{CancelErr: store.ErrIllegalTransition}
	router := checkoutTestRouter(&Handlers{Checkouts: svc, Orders: &stubOrderReader{Header: header}}, 42)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/orders/9/cancel", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelOrderHidesOtherUsersOrders(t *testing.T) {
	orders := &stubOrderReader{
		Header: &models.OrderHeader{ID: 9, UserID: 99, OrderStatus: models.OrderStatusPending},
	}
	router := checkoutTestRouter(&Handlers{Checkouts: &stubCheckoutService{}, Orders: orders}, 42)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/orders/9/cancel", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfirmOrderStockConflict(t *testing.T) {
	header := &models.OrderHeader{ID: 9, UserID: 42, OrderStatus: models.OrderStatusPending}
	svc := &stubCheckoutService{
		ConfirmErr: &store.StockConflictError{ProductID: 2, Requested: 3},
	}
	router := checkoutTestRouter(&Handlers{Checkouts: svc, Orders: &stubOrderReader{Header: header}}, 42)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/orders/9/confirm", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
