package checkout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gosimple/slug"
	"github.com/raihanm/shopline-golang/internal/models"
	"github.com/raihanm/shopline-golang/internal/payment"
)

// Result is the outcome of one checkout submission. A non-empty
// RedirectURL tells the caller to forward the shopper to the hosted
// payment page (303 semantics, no page render); an empty one means the
// invoice-billed branch already finalized the order.
type Result struct {
	OrderID       int64                `json:"orderId"`
	Total         float64              `json:"total"`
	OrderStatus   models.OrderStatus   `json:"orderStatus"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	RedirectURL   string               `json:"redirectUrl,omitempty"`
}

// Checkout turns the shopper's consolidated cart into an order.
//
// The cart is re-resolved against live product data at this point; any
// total the client may have sent is ignored. Header and details are
// committed atomically with status pending/pending before any payment
// work, so the payment capability always has a header to attach its
// identifiers to. Company accounts are invoice-billed and finalize
// immediately; individual accounts get a hosted payment session and a
// redirect.
func (s *Service) Checkout(ctx context.Context, userID int64) (*Result, error) {
	user, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Profile.FullName == "" || user.Profile.AddressLine1 == "" {
		return nil, ErrIncompleteProfile
	}

	lines, err := s.carts.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	details, total, err := s.resolveLines(ctx, lines)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrEmptyCart
	}

	// Billing snapshot: copied once, never a live reference to the
	// profile.
	header := &models.OrderHeader{
		UserID:        userID,
		Total:         total,
		OrderStatus:   models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		ShipName:      user.Profile.FullName,
		ShipPhone:     user.Profile.PhoneNumber,
		ShipAddress1:  user.Profile.AddressLine1,
		ShipAddress2:  user.Profile.AddressLine2,
		ShipCity:      user.Profile.City,
		ShipState:     user.Profile.State,
		ShipPostcode:  user.Profile.Postcode,
	}

	orderID, err := s.orders.Create(ctx, header, details)
	if err != nil {
		return nil, err
	}
	slog.Info("order created", "orderId", orderID, "userId", userID, "total", total)

	if user.CompanyID != 0 {
		return s.finalizeInvoiceOrder(ctx, orderID, userID, total, details)
	}

	items := make([]payment.LineItem, 0, len(details))
	for _, d := range details {
		items = append(items, payment.LineItem{
			Reference: slug.Make(d.ProductTitle),
			Title:     d.ProductTitle,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
		})
	}

	session, err := s.provider.CreateSession(ctx, payment.CreateSessionParams{
		OrderID:    orderID,
		Total:      total,
		Items:      items,
		SuccessURL: fmt.Sprintf("%s?order=%d", s.successURL, orderID),
		CancelURL:  s.cancelURL,
	})
	if err != nil {
		// The pending order is kept for later reconciliation; no retry
		// happens here.
		return nil, &PendingOrderError{OrderID: orderID, Err: err}
	}

	if err := s.orders.AttachPaymentSession(ctx, orderID, session.SessionID, session.PaymentIntentID); err != nil {
		return nil, &PendingOrderError{OrderID: orderID, Err: err}
	}
	slog.Info("payment session opened", "orderId", orderID, "sessionId", session.SessionID)

	return &Result{
		OrderID:       orderID,
		Total:         total,
		OrderStatus:   models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		RedirectURL:   session.RedirectURL,
	}, nil
}

// finalizeInvoiceOrder completes the company-billed branch: stock is
// reserved right away, payment is marked delayed (settled by invoice)
// and the cart is cleared. The hosted payment capability is never
// contacted on this path.
//
// The order is claimed before the stock decrement, with the same
// conditional pending-to-approved update the confirmation callback uses.
// Once the claim lands, the public confirm route sees an approved order
// and treats it as an idempotent read, so whatever fails after the
// reservation cannot lead to a second decrement.
func (s *Service) finalizeInvoiceOrder(ctx context.Context, orderID, userID int64, total float64, details []models.OrderDetail) (*Result, error) {
	won, err := s.orders.ClaimConfirmation(ctx, orderID, models.PaymentStatusDelayed)
	if err != nil {
		return nil, &PendingOrderError{OrderID: orderID, Err: err}
	}
	if !won {
		// Someone else finalized this order already; report what the
		// store holds instead of acting again.
		header, _, err := s.orders.Get(ctx, orderID)
		if err != nil {
			return nil, &PendingOrderError{OrderID: orderID, Err: err}
		}
		return &Result{
			OrderID:       orderID,
			Total:         header.Total,
			OrderStatus:   header.OrderStatus,
			PaymentStatus: header.PaymentStatus,
		}, nil
	}

	if err := s.stock.Reserve(ctx, details); err != nil {
		if relErr := s.orders.ReleaseConfirmation(ctx, orderID); relErr != nil {
			slog.Error("failed to release claimed invoice order", "orderId", orderID, "error", relErr)
		}
		return nil, &PendingOrderError{OrderID: orderID, Err: err}
	}

	// The order is placed at this point; a cart that failed to clear is
	// a nuisance for the shopper, not a reason to fail the checkout.
	if err := s.carts.Clear(ctx, userID); err != nil {
		slog.Warn("failed to clear cart after invoice finalize", "orderId", orderID, "userId", userID, "error", err)
	}
	slog.Info("invoice order finalized", "orderId", orderID, "userId", userID)

	return &Result{
		OrderID:       orderID,
		Total:         total,
		OrderStatus:   models.OrderStatusApproved,
		PaymentStatus: models.PaymentStatusDelayed,
	}, nil
}

// Confirm is the order-confirmation callback for the hosted-payment
// branch. It is the only point where stock is decremented and the
// shopper's cart cleared for a session-paid order. Confirming an order
// that is already approved is an idempotent read: the decrement ran
// exactly once. An order whose confirmation never arrives simply stays
// pending with its stock untouched.
func (s *Service) Confirm(ctx context.Context, orderID int64) (*models.OrderHeader, []models.OrderDetail, error) {
	header, details, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if header.OrderStatus == models.OrderStatusApproved {
		return header, details, nil
	}

	// Claim the confirmation first so two concurrent callbacks for the
	// same order cannot both reach the stock decrement.
	won, err := s.orders.ClaimConfirmation(ctx, orderID, models.PaymentStatusApproved)
	if err != nil {
		return nil, nil, err
	}
	if !won {
		return s.orders.Get(ctx, orderID)
	}

	if err := s.stock.Reserve(ctx, details); err != nil {
		// Compensate: hand the order back to pending so a later
		// confirmation can retry once stock allows.
		if relErr := s.orders.ReleaseConfirmation(ctx, orderID); relErr != nil {
			slog.Error("failed to release claimed confirmation", "orderId", orderID, "error", relErr)
		}
		return nil, nil, err
	}

	if err := s.carts.Clear(ctx, header.UserID); err != nil {
		return nil, nil, err
	}
	slog.Info("order confirmed", "orderId", orderID, "userId", header.UserID)

	return s.orders.Get(ctx, orderID)
}

// Cancel withdraws an order that is still awaiting payment. Stock is
// never reserved while an order is pending, so there is nothing to put
// back; the guarded transition in the order store rejects cancelling an
// order that was already approved.
func (s *Service) Cancel(ctx context.Context, orderID int64) (*models.OrderHeader, error) {
	if err := s.orders.UpdateStatus(ctx, orderID, models.OrderStatusCancelled, models.PaymentStatusRejected); err != nil {
		return nil, err
	}
	slog.Info("order cancelled", "orderId", orderID)

	header, _, err := s.orders.Get(ctx, orderID)
	return header, err
}
