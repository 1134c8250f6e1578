package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/raihanm/shopline-golang/internal/models"
)

// OrderStore owns the orders and order_details tables. Headers and their
// details are created atomically and mutated only through the typed
// operations below; there is no path that edits a placed order's fields
// directly.
type OrderStore struct {
	DB *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{DB: db}
}

const headerColumns = `id, user_id, total, order_status, payment_status,
	payment_session_id, payment_intent_id, tracking,
	ship_name, ship_phone, ship_address1, ship_address2, ship_city, ship_state, ship_postcode,
	created_at, updated_at, shipped_at`

// Create persists the header and all details in one transaction and
// returns the new order ID. The header total must already equal the sum
// of the detail line totals; a mismatch is a caller defect and is
// rejected rather than silently recomputed.
func (s *OrderStore) Create(ctx context.Context, header *models.OrderHeader, details []models.OrderDetail) (int64, error) {
	var sum float64
	for i := range details {
		sum += details[i].LineTotal()
	}
	if math.Abs(sum-header.Total) > 1e-9 {
		return 0, ErrTotalMismatch
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start order transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO orders
			(user_id, total, order_status, payment_status,
			 ship_name, ship_phone, ship_address1, ship_address2,
			 ship_city, ship_state, ship_postcode, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		header.UserID, header.Total, header.OrderStatus, header.PaymentStatus,
		header.ShipName, header.ShipPhone, header.ShipAddress1, header.ShipAddress2,
		header.ShipCity, header.ShipState, header.ShipPostcode, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order header: %w", err)
	}

	orderID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get new order ID: %w", err)
	}

	for _, d := range details {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_details
				(order_header_id, product_id, product_title, quantity, unit_price, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			orderID, d.ProductID, d.ProductTitle, d.Quantity, d.UnitPrice, now)
		if err != nil {
			return 0, fmt.Errorf("failed to insert order detail: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit order: %w", err)
	}
	return orderID, nil
}

func scanHeader(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.OrderHeader, error) {
	var h models.OrderHeader
	err := scanner.Scan(
		&h.ID, &h.UserID, &h.Total, &h.OrderStatus, &h.PaymentStatus,
		&h.PaymentSessionID, &h.PaymentIntentID, &h.Tracking,
		&h.ShipName, &h.ShipPhone, &h.ShipAddress1, &h.ShipAddress2,
		&h.ShipCity, &h.ShipState, &h.ShipPostcode,
		&h.CreatedAt, &h.UpdatedAt, &h.ShippedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan order header: %w", err)
	}
	return &h, nil
}

// Get returns the header and its details.
func (s *OrderStore) Get(ctx context.Context, orderID int64) (*models.OrderHeader, []models.OrderDetail, error) {
	row := s.DB.QueryRowContext(ctx,
		"SELECT "+headerColumns+" FROM orders WHERE id = ?", orderID)
	header, err := scanHeader(row)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, order_header_id, product_id, product_title, quantity, unit_price, created_at
		FROM order_details WHERE order_header_id = ?`, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query order details: %w", err)
	}
	defer rows.Close()

	var details []models.OrderDetail
	for rows.Next() {
		var d models.OrderDetail
		if err := rows.Scan(&d.ID, &d.OrderHeaderID, &d.ProductID,
			&d.ProductTitle, &d.Quantity, &d.UnitPrice, &d.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan order detail: %w", err)
		}
		details = append(details, d)
	}
	return header, details, rows.Err()
}

// ListByUser returns every header for one shopper, newest first.
func (s *OrderStore) ListByUser(ctx context.Context, userID int64) ([]models.OrderHeader, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT "+headerColumns+" FROM orders WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var headers []models.OrderHeader
	for rows.Next() {
		header, err := scanHeader(rows)
		if err != nil {
			return nil, err
		}
		headers = append(headers, *header)
	}
	return headers, rows.Err()
}

// AttachPaymentSession stores the hosted-payment identifiers on the
// header. This happens before the shopper is redirected, so the returning
// confirmation always has a header to land on.
func (s *OrderStore) AttachPaymentSession(ctx context.Context, orderID int64, sessionID, paymentIntentID string) error {
	result, err := s.DB.ExecContext(ctx, `
		UPDATE orders SET payment_session_id = ?, payment_intent_id = ?, updated_at = ?
		WHERE id = ?`,
		sessionID, paymentIntentID, time.Now(), orderID)
	if err != nil {
		return fmt.Errorf("failed to attach payment session: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus moves the order to a new (order, payment) status pair.
// The current row is locked and the transition validated, so an approved
// order can never regress to pending no matter who calls.
func (s *OrderStore) UpdateStatus(ctx context.Context, orderID int64, status models.OrderStatus, payment models.PaymentStatus) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start status transaction: %w", err)
	}
	defer tx.Rollback()

	var current models.OrderStatus
	err = tx.QueryRowContext(ctx,
		"SELECT order_status FROM orders WHERE id = ? FOR UPDATE", orderID).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to lock order row: %w", err)
	}

	if !current.CanTransitionTo(status) {
		return ErrIllegalTransition
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders SET order_status = ?, payment_status = ?, updated_at = ?
		WHERE id = ?`,
		status, payment, time.Now(), orderID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}
	return nil
}

// ClaimConfirmation atomically moves a pending order to approved with
// the given payment status and reports whether this caller won the
// claim. The conditional UPDATE is the gate that keeps any two
// finalization attempts for the same order (concurrent confirmation
// callbacks, or a confirm racing an invoice finalize) from both
// decrementing stock.
func (s *OrderStore) ClaimConfirmation(ctx context.Context, orderID int64, payment models.PaymentStatus) (bool, error) {
	result, err := s.DB.ExecContext(ctx, `
		UPDATE orders SET order_status = ?, payment_status = ?, updated_at = ?
		WHERE id = ? AND order_status = ?`,
		models.OrderStatusApproved, payment, time.Now(),
		orderID, models.OrderStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to claim confirmation: %w", err)
	}
	affected, _ := result.RowsAffected()
	return affected == 1, nil
}

// ReleaseConfirmation is the internal compensation for a claim whose
// stock reservation failed: the order goes back to pending so a later
// confirmation can retry. It is not part of the public status contract.
func (s *OrderStore) ReleaseConfirmation(ctx context.Context, orderID int64) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE orders SET order_status = ?, payment_status = ?, updated_at = ?
		WHERE id = ?`,
		models.OrderStatusPending, models.PaymentStatusPending, time.Now(), orderID)
	if err != nil {
		return fmt.Errorf("failed to release confirmation: %w", err)
	}
	return nil
}

// CountStalePendingPayments counts orders still waiting on a hosted
// payment session older than the cutoff. The reconciliation sweep logs
// this for operators; abandoned sessions are a valid resting state and
// are never auto-cancelled here.
func (s *OrderStore) CountStalePendingPayments(ctx context.Context, olderThan time.Time) (int, error) {
	var count int
	err := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders
		WHERE order_status = ? AND payment_status = ?
		  AND payment_session_id IS NOT NULL AND created_at < ?`,
		models.OrderStatusPending, models.PaymentStatusPending, olderThan).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count stale orders: %w", err)
	}
	return count, nil
}
