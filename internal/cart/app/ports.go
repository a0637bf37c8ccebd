package app

import (
	"context"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"github.com/shopspring/decimal"
)

// CartStore persists at most one cart per user.
//
// FindByUser returns ErrNotFound when the user has no cart. Insert returns
// ErrDuplicate when a cart for the user already exists. ReplaceByID returns
// ErrNotFound when the cart id no longer exists.
type CartStore interface {
	FindByUser(ctx context.Context, userID string) (domain.Cart, error)
	Insert(ctx context.Context, cart domain.Cart) (domain.Cart, error)
	ReplaceByID(ctx context.Context, cart domain.Cart) (domain.Cart, error)
	DeleteByUser(ctx context.Context, userID string) (bool, error)
}

// CatalogGateway resolves a product id, returning ErrProductNotFound when
// the catalog does not know it.
type CatalogGateway interface {
	Lookup(ctx context.Context, productID string) (Product, error)
}

type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	ImageURL string
}
