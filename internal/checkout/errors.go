package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart rejects a checkout submission whose resolved cart has
	// no lines. Nothing is persisted in that case.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	// ErrIncompleteProfile rejects a submission when the billing profile
	// is missing required snapshot fields.
	ErrIncompleteProfile = errors.New("billing profile is missing required fields")
)

// PendingOrderError reports a failure that happened after the order
// header was committed: the pending order is retained for retry or
// reconciliation, never rolled back.
type PendingOrderError struct {
	OrderID int64
	Err     error
}

func (e *PendingOrderError) Error() string {
	return fmt.Sprintf("order %d left pending: %v", e.OrderID, e.Err)
}

func (e *PendingOrderError) Unwrap() error {
	return e.Err
}
