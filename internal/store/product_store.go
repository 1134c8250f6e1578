package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/raihanm/shopline-golang/internal/models"
)

// ProductStore reads catalog products and performs the confirmation-time
// stock reservation. Everything else about the catalog belongs to the
// catalog management surface, not here.
type ProductStore struct {
	DB *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{DB: db}
}

const productColumns = "id, title, price, discount_amount, stock_quantity, active, created_at, updated_at"

func scanProduct(row *sql.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Title, &p.Price, &p.DiscountAmount,
		&p.StockQuantity, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return &p, nil
}

// GetActive returns the product only when it exists and is active.
// Inactive and unknown products both surface as ErrNotFound so stale cart
// references can be dropped uniformly.
func (s *ProductStore) GetActive(ctx context.Context, productID int64) (*models.Product, error) {
	row := s.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = ? AND active = 1", productID)
	return scanProduct(row)
}

// ListActive returns the browsable catalog, newest first.
func (s *ProductStore) ListActive(ctx context.Context) ([]models.Product, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE active = 1 ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.DiscountAmount,
			&p.StockQuantity, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// sortedByProduct returns the details in ascending product order.
// Reservations always lock product rows in this order, so two concurrent
// multi-line reservations cannot deadlock each other by taking the same
// rows in opposite directions. The caller's slice is left untouched.
func sortedByProduct(details []models.OrderDetail) []models.OrderDetail {
	out := append([]models.OrderDetail(nil), details...)
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// Reserve decrements stock for every order line, all or nothing.
// Each decrement is a single conditional UPDATE guarded by the current
// stock level, so concurrent confirmations can never drive a product
// negative: the database applies the decrements one at a time and the
// guard re-checks under that serialization. Any line that finds too
// little stock rolls the whole reservation back.
func (s *ProductStore) Reserve(ctx context.Context, details []models.OrderDetail) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start reservation transaction: %w", err)
	}
	defer tx.Rollback()

	for _, d := range sortedByProduct(details) {
		result, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity - ?, updated_at = NOW()
			WHERE id = ? AND active = 1 AND stock_quantity >= ?`,
			d.Quantity, d.ProductID, d.Quantity)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		affected, _ := result.RowsAffected()
		if affected == 0 {
			return &StockConflictError{ProductID: d.ProductID, Requested: d.Quantity}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}
	return nil
}
