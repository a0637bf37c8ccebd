package adapter

import (
	"context"
	"errors"

	cartapp "github.com/dwikikusuma/shoping-cart/internal/cart/app"
	catalogapp "github.com/dwikikusuma/shoping-cart/internal/catalog/app"
)

// CatalogGateway lets the cart engine resolve products through the catalog
// service without depending on its types.
type CatalogGateway struct {
	svc *catalogapp.Service
}

func NewCatalogGateway(svc *catalogapp.Service) *CatalogGateway {
	return &CatalogGateway{svc: svc}
}

func (g *CatalogGateway) Lookup(ctx context.Context, productID string) (cartapp.Product, error) {
	p, err := g.svc.GetProduct(ctx, productID)
	if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
		return cartapp.Product{}, cartapp.ErrProductNotFound
	}
	if err != nil {
		return cartapp.Product{}, err
	}

	return cartapp.Product{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		ImageURL: p.ImageURL,
	}, nil
}
