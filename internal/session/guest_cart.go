package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/raihanm/shopline-golang/internal/models"
	"github.com/raihanm/shopline-golang/internal/store"
	"github.com/redis/go-redis/v9"
)

// GuestCarts holds the ephemeral, pre-authentication carts. Each cart is
// a redis hash of productID -> quantity keyed by the caller's session ID,
// expiring after the TTL. Nothing here is durable; the merge engine
// drains a guest cart into the persisted one at login or first
// authenticated cart view.
type GuestCarts struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGuestCarts(addr string, ttl time.Duration) *GuestCarts {
	return &GuestCarts{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func (g *GuestCarts) key(sessionID string) string {
	return fmt.Sprintf("guestcart:%s", sessionID)
}

// Add increments the quantity for a product, creating the line if needed.
func (g *GuestCarts) Add(ctx context.Context, sessionID string, productID int64, quantity int) error {
	key := g.key(sessionID)
	if err := g.client.HIncrBy(ctx, key, strconv.FormatInt(productID, 10), int64(quantity)).Err(); err != nil {
		return fmt.Errorf("failed to add guest cart line: %w", err)
	}
	return g.client.Expire(ctx, key, g.ttl).Err()
}

// SetQuantity overwrites the quantity of an existing line. A quantity of
// zero removes the line. A missing line is store.ErrNotFound, matching
// the persisted cart, so the cart routes behave the same for guests and
// authenticated shoppers.
func (g *GuestCarts) SetQuantity(ctx context.Context, sessionID string, productID int64, quantity int) error {
	if quantity == 0 {
		return g.Remove(ctx, sessionID, productID)
	}
	key := g.key(sessionID)
	field := strconv.FormatInt(productID, 10)

	exists, err := g.client.HExists(ctx, key, field).Result()
	if err != nil {
		return fmt.Errorf("failed to check guest cart line: %w", err)
	}
	if !exists {
		return store.ErrNotFound
	}

	if err := g.client.HSet(ctx, key, field, quantity).Err(); err != nil {
		return fmt.Errorf("failed to set guest cart quantity: %w", err)
	}
	return g.client.Expire(ctx, key, g.ttl).Err()
}

// Remove deletes one line from the guest cart. Removing a line that was
// never there is store.ErrNotFound, matching the persisted cart.
func (g *GuestCarts) Remove(ctx context.Context, sessionID string, productID int64) error {
	removed, err := g.client.HDel(ctx, g.key(sessionID), strconv.FormatInt(productID, 10)).Result()
	if err != nil {
		return fmt.Errorf("failed to remove guest cart line: %w", err)
	}
	if removed == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Lines returns a snapshot of the guest cart. The snapshot is what gets
// handed to the merge engine; the session itself is never read ambiently
// by checkout code.
func (g *GuestCarts) Lines(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	entries, err := g.client.HGetAll(ctx, g.key(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read guest cart: %w", err)
	}

	var lines []models.CartLine
	for field, value := range entries {
		productID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		quantity, err := strconv.Atoi(value)
		if err != nil || quantity < 1 {
			continue
		}
		lines = append(lines, models.CartLine{ProductID: productID, Quantity: quantity})
	}
	return lines, nil
}

// Clear drops the whole guest cart. Called exactly once per session
// transition, right after a successful merge.
func (g *GuestCarts) Clear(ctx context.Context, sessionID string) error {
	if err := g.client.Del(ctx, g.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear guest cart: %w", err)
	}
	return nil
}
