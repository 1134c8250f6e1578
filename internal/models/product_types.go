package models

import "time"

// Product is the model for the 'products' table.
// The checkout core treats products as read-only catalog data, except for
// the stock decrement performed at order confirmation.
type Product struct {
	ID             int64     `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	Price          float64   `json:"price" db:"price"`
	DiscountAmount float64   `json:"discountAmount" db:"discount_amount"`
	StockQuantity  int       `json:"stock" db:"stock_quantity"`
	Active         bool      `json:"active" db:"active"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// UnitPrice is the authoritative selling price: list price minus discount.
// Always derived from the live product record, never from client input.
func (p *Product) UnitPrice() float64 {
	return p.Price - p.DiscountAmount
}
