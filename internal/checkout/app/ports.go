package app

import (
	"context"

	orderdomain "github.com/dwikikusuma/shoping-cart/internal/order/domain"
	"github.com/shopspring/decimal"
)

type CartLine struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	ImageURL  string
}

// Cart is the checkout view of a user's cart. An absent cart is returned
// as a Cart with no lines.
type Cart struct {
	Lines          []CartLine
	TotalAmount    decimal.Decimal
	TotalItemCount int
}

type CartGateway interface {
	ReadCart(ctx context.Context, userID string) (Cart, error)
	DeleteCart(ctx context.Context, userID string) error
}

// OrderWriter persists orders and emits their events.
type OrderWriter interface {
	PlaceOrder(ctx context.Context, order orderdomain.Order) (orderdomain.Order, error)
	Notify(ctx context.Context, event orderdomain.Event)
}

// CatalogReader returns ErrProductUnavailable for unknown products.
type CatalogReader interface {
	CurrentPrice(ctx context.Context, productID string) (decimal.Decimal, error)
}

// Transactor runs fn atomically when the backing store supports it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PassThrough runs fn directly. Writes inside fn are not atomic.
type PassThrough struct{}

func (PassThrough) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
