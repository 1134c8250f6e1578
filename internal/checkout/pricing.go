package checkout

import (
	"context"
	"errors"

	"github.com/raihanm/shopline-golang/internal/models"
	"github.com/raihanm/shopline-golang/internal/store"
)

// CartViewLine is one resolved line of the shopping cart view.
type CartViewLine struct {
	ProductID int64   `json:"productId"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
	Stock     int     `json:"stock"`
}

// CartView is the transient aggregate shown on the cart screen. It is
// computed on demand from live product data and never persisted.
type CartView struct {
	Lines      []CartViewLine `json:"items"`
	Subtotal   float64        `json:"subtotal"`
	TotalItems int            `json:"totalItems"`
}

// resolveLines computes the authoritative unit price for each cart line
// from the live product record: list price minus discount. Client-held
// prices never enter this computation. Lines whose product is gone or
// inactive are skipped. The returned details are ready-made order
// snapshots (title and unit price captured).
func (s *Service) resolveLines(ctx context.Context, lines []models.CartLine) ([]models.OrderDetail, float64, error) {
	var details []models.OrderDetail
	var total float64

	for _, line := range lines {
		if line.Quantity < 1 {
			continue
		}
		product, err := s.products.GetActive(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, 0, err
		}
		detail := models.OrderDetail{
			ProductID:    product.ID,
			ProductTitle: product.Title,
			Quantity:     line.Quantity,
			UnitPrice:    product.UnitPrice(),
		}
		total += detail.LineTotal()
		details = append(details, detail)
	}
	return details, total, nil
}

func (s *Service) buildView(ctx context.Context, lines []models.CartLine) (*CartView, error) {
	view := &CartView{Lines: []CartViewLine{}}
	for _, line := range lines {
		if line.Quantity < 1 {
			continue
		}
		product, err := s.products.GetActive(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		viewLine := CartViewLine{
			ProductID: product.ID,
			Title:     product.Title,
			Quantity:  line.Quantity,
			UnitPrice: product.UnitPrice(),
			Stock:     product.StockQuantity,
		}
		viewLine.LineTotal = viewLine.UnitPrice * float64(viewLine.Quantity)
		view.Subtotal += viewLine.LineTotal
		view.TotalItems += viewLine.Quantity
		view.Lines = append(view.Lines, viewLine)
	}
	return view, nil
}

// ViewCart returns the consolidated cart for an authenticated shopper
// with live-resolved prices. The numbers persisted on an order come only
// from the resolution done inside Checkout, which re-runs at submission.
func (s *Service) ViewCart(ctx context.Context, userID int64) (*CartView, error) {
	lines, err := s.carts.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, lines)
}

// ViewGuestCart resolves an ephemeral cart snapshot the same way.
func (s *Service) ViewGuestCart(ctx context.Context, lines []models.CartLine) (*CartView, error) {
	return s.buildView(ctx, lines)
}
