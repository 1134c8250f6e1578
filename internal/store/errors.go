package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a row the caller named does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrIllegalTransition is returned when a status update would move an
	// order backwards (e.g. approved back to pending).
	ErrIllegalTransition = errors.New("illegal order status transition")

	// ErrTotalMismatch is returned when an order header's total does not
	// equal the sum of its detail line totals at creation time.
	ErrTotalMismatch = errors.New("order total does not match detail line totals")

	// ErrDuplicateEmail is returned when registering an email that
	// already has an account.
	ErrDuplicateEmail = errors.New("email already registered")
)

// StockConflictError reports a conditional stock decrement that found
// fewer units than the order required. The whole reservation is rolled
// back when any line conflicts.
type StockConflictError struct {
	ProductID int64
	Requested int
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (requested %d)", e.ProductID, e.Requested)
}
