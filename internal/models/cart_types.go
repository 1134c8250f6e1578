package models

// CartLine is one row of the 'cart_lines' table, uniquely keyed by
// (user_id, product_id). A UserID of zero marks an ephemeral (guest) line
// that only lives in the session cart and has not been persisted.
type CartLine struct {
	UserID    int64 `json:"userId" db:"user_id"`
	ProductID int64 `json:"productId" db:"product_id"`
	Quantity  int   `json:"quantity" db:"quantity"`
}
