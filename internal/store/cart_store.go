package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/raihanm/shopline-golang/internal/models"
)

// CartStore owns the persisted cart_lines rows. Lines are uniquely keyed
// by (user_id, product_id); Add merges by summing quantities so duplicate
// rows can never appear.
type CartStore struct {
	DB *sql.DB
}

func NewCartStore(db *sql.DB) *CartStore {
	return &CartStore{DB: db}
}

// Lines returns every persisted cart line for the user.
func (s *CartStore) Lines(ctx context.Context, userID int64) ([]models.CartLine, error) {
	query := "SELECT user_id, product_id, quantity FROM cart_lines WHERE user_id = ?"
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var line models.CartLine
		if err := rows.Scan(&line.UserID, &line.ProductID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// Add inserts a new line or, when one already exists for this product,
// adds the quantity to it.
func (s *CartStore) Add(ctx context.Context, userID, productID int64, quantity int) error {
	now := time.Now()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO cart_lines (user_id, product_id, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			quantity = quantity + VALUES(quantity),
			updated_at = VALUES(updated_at)`,
		userID, productID, quantity, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert cart line: %w", err)
	}
	return nil
}

// SetQuantity overwrites the quantity of an existing line.
func (s *CartStore) SetQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	result, err := s.DB.ExecContext(ctx, `
		UPDATE cart_lines SET quantity = ?, updated_at = ?
		WHERE user_id = ? AND product_id = ?`,
		quantity, time.Now(), userID, productID)
	if err != nil {
		return fmt.Errorf("failed to update cart line: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Remove deletes one line from the user's cart.
func (s *CartStore) Remove(ctx context.Context, userID, productID int64) error {
	result, err := s.DB.ExecContext(ctx,
		"DELETE FROM cart_lines WHERE user_id = ? AND product_id = ?", userID, productID)
	if err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes every line in the user's cart. Clearing an empty cart is
// a no-op, not an error.
func (s *CartStore) Clear(ctx context.Context, userID int64) error {
	if _, err := s.DB.ExecContext(ctx, "DELETE FROM cart_lines WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
