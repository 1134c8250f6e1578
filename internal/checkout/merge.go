package checkout

import (
	"context"
	"errors"
	"log/slog"

	"github.com/raihanm/shopline-golang/internal/models"
	"github.com/raihanm/shopline-golang/internal/store"
)

// MergeGuestCart folds an ephemeral (guest) cart into the user's
// persisted cart. Quantities for a product already in the persisted cart
// are summed, never replaced, so nothing accumulated before or after
// login is lost. Lines whose product has gone missing or inactive are
// dropped silently instead of failing the whole merge.
//
// The caller clears the guest session after a successful merge; that
// clearing is what makes the login/first-view transition invoke the
// merge exactly once. Merging an empty ephemeral cart is a no-op.
func (s *Service) MergeGuestCart(ctx context.Context, userID int64, ephemeral []models.CartLine) error {
	for _, line := range ephemeral {
		if line.Quantity < 1 {
			continue
		}
		if _, err := s.products.GetActive(ctx, line.ProductID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				slog.Debug("dropping stale guest cart line", "productId", line.ProductID)
				continue
			}
			return err
		}
		if err := s.carts.Add(ctx, userID, line.ProductID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}
