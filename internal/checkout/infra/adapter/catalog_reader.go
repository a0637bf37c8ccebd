package adapter

import (
	"context"
	"errors"

	catalogapp "github.com/dwikikusuma/shoping-cart/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/shoping-cart/internal/checkout/app"
	"github.com/shopspring/decimal"
)

type CatalogReader struct {
	svc *catalogapp.Service
}

func NewCatalogReader(svc *catalogapp.Service) *CatalogReader {
	return &CatalogReader{svc: svc}
}

func (r *CatalogReader) CurrentPrice(ctx context.Context, productID string) (decimal.Decimal, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
		return decimal.Decimal{}, checkoutapp.ErrProductUnavailable
	}
	if err != nil {
		return decimal.Decimal{}, err
	}
	return p.Price, nil
}
