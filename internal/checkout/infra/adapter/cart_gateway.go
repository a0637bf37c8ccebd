package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/shoping-cart/internal/cart/app"
	checkoutapp "github.com/dwikikusuma/shoping-cart/internal/checkout/app"
)

type CartGateway struct {
	svc *cartapp.Service
}

func NewCartGateway(svc *cartapp.Service) *CartGateway {
	return &CartGateway{svc: svc}
}

func (g *CartGateway) ReadCart(ctx context.Context, userID string) (checkoutapp.Cart, error) {
	cart, err := g.svc.GetCart(ctx, userID)
	if err != nil {
		return checkoutapp.Cart{}, err
	}

	lines := make([]checkoutapp.CartLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, checkoutapp.CartLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			ImageURL:  l.ImageURL,
		})
	}

	return checkoutapp.Cart{
		Lines:          lines,
		TotalAmount:    cart.TotalAmount,
		TotalItemCount: cart.TotalItemCount,
	}, nil
}

// DeleteCart succeeds whether or not the cart still existed.
func (g *CartGateway) DeleteCart(ctx context.Context, userID string) error {
	_, err := g.svc.ClearCart(ctx, userID)
	return err
}
