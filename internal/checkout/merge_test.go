package checkout

import (
	"context"
	"testing"

	"github.com/raihanm/shopline-golang/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mergeFixture() (*Service, *MockCartStore, *MockProductSource) {
	carts := NewMockCartStore()
	products := NewMockProductSource(
		&models.Product{ID: 1, Title: "Walnut Desk Organizer", Price: 100, DiscountAmount: 10, StockQuantity: 20, Active: true},
		&models.Product{ID: 2, Title: "Brass Bookend", Price: 50, StockQuantity: 10, Active: true},
		&models.Product{ID: 3, Title: "Retired Lamp", Price: 75, StockQuantity: 5, Active: false},
	)
	orders := NewMockOrderStore()
	accounts := NewMockAccountSource()
	svc := NewService(carts, products, products, orders, accounts, &MockProvider{}, "http://success", "http://cancel")
	return svc, carts, products
}

func TestMergeSumsQuantities(t *testing.T) {
	svc, carts, _ := mergeFixture()
	ctx := context.Background()

	// Pre-login cart already holds 2 of product 1.
	require.NoError(t, carts.Add(ctx, 42, 1, 2))

	ephemeral := []models.CartLine{
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 1},
	}
	require.NoError(t, svc.MergeGuestCart(ctx, 42, ephemeral))

	assert.Equal(t, 5, carts.Quantity(42, 1), "existing line should sum, not replace")
	assert.Equal(t, 1, carts.Quantity(42, 2), "new line should be inserted")
}

func TestMergeEmptyEphemeralIsNoOp(t *testing.T) {
	svc, carts, _ := mergeFixture()
	ctx := context.Background()

	require.NoError(t, carts.Add(ctx, 42, 1, 2))
	require.NoError(t, svc.MergeGuestCart(ctx, 42, nil))

	assert.Equal(t, 2, carts.Quantity(42, 1))
}

func TestMergeDropsMissingAndInactiveProducts(t *testing.T) {
	svc, carts, _ := mergeFixture()
	ctx := context.Background()

	ephemeral := []models.CartLine{
		{ProductID: 3, Quantity: 1},  // inactive
		{ProductID: 99, Quantity: 2}, // unknown
		{ProductID: 2, Quantity: 1},
	}
	require.NoError(t, svc.MergeGuestCart(ctx, 42, ephemeral))

	assert.Equal(t, 0, carts.Quantity(42, 3))
	assert.Equal(t, 0, carts.Quantity(42, 99))
	assert.Equal(t, 1, carts.Quantity(42, 2), "valid line survives its stale neighbours")
}

func TestMergeTwiceAfterClearingSessionIsIdempotent(t *testing.T) {
	svc, carts, _ := mergeFixture()
	ctx := context.Background()

	ephemeral := []models.CartLine{{ProductID: 1, Quantity: 3}}
	require.NoError(t, svc.MergeGuestCart(ctx, 42, ephemeral))
	// The session is cleared after a merge, so the second transition
	// hands the engine an empty snapshot.
	require.NoError(t, svc.MergeGuestCart(ctx, 42, nil))

	assert.Equal(t, 3, carts.Quantity(42, 1))
}
