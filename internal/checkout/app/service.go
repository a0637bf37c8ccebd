package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/dwikikusuma/shoping-cart/internal/checkout/domain"
	orderdomain "github.com/dwikikusuma/shoping-cart/internal/order/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	MinShippingAddressLen = 10
	MaxShippingAddressLen = 500
	MaxNotesLen           = 1000
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrStoreFailure       = errors.New("store failure")
	ErrProductUnavailable = errors.New("product unavailable")
)

type Service struct {
	carts   CartGateway
	orders  OrderWriter
	catalog CatalogReader
	tx      Transactor
	log     *slog.Logger

	maxConcurrent int
}

type Deps struct {
	Carts   CartGateway
	Orders  OrderWriter
	Catalog CatalogReader
	Tx      Transactor
	Log     *slog.Logger
}

func NewService(d Deps, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	if d.Tx == nil {
		d.Tx = PassThrough{}
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}

	return &Service{
		carts:         d.Carts,
		orders:        d.Orders,
		catalog:       d.Catalog,
		tx:            d.Tx,
		log:           d.Log,
		maxConcurrent: maxConcurrent,
	}
}

// CreateOrderFromCart snapshots the user's cart into a PENDING order and
// deletes the cart. Both writes run inside the configured Transactor.
func (s *Service) CreateOrderFromCart(ctx context.Context, userID, shippingAddress, notes string) (orderdomain.Order, error) {
	shippingAddress = strings.TrimSpace(shippingAddress)
	notes = strings.TrimSpace(notes)
	if shippingAddress == "" {
		return orderdomain.Order{}, fmt.Errorf("%w: shipping address is required", ErrInvalidInput)
	}
	switch n := utf8.RuneCountInString(shippingAddress); {
	case n < MinShippingAddressLen:
		return orderdomain.Order{}, fmt.Errorf("%w: shipping address must be at least %d characters", ErrInvalidInput, MinShippingAddressLen)
	case n > MaxShippingAddressLen:
		return orderdomain.Order{}, fmt.Errorf("%w: shipping address exceeds %d characters", ErrInvalidInput, MaxShippingAddressLen)
	}
	if utf8.RuneCountInString(notes) > MaxNotesLen {
		return orderdomain.Order{}, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, MaxNotesLen)
	}

	cart, err := s.carts.ReadCart(ctx, userID)
	if err != nil {
		return orderdomain.Order{}, fmt.Errorf("%w: read cart: %w", ErrStoreFailure, err)
	}
	if len(cart.Lines) == 0 {
		return orderdomain.Order{}, ErrEmptyCart
	}

	draft := buildOrder(userID, shippingAddress, notes, cart)

	var placed orderdomain.Order
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		placed, err = s.orders.PlaceOrder(ctx, draft)
		if err != nil {
			return err
		}
		if err := s.carts.DeleteCart(ctx, userID); err != nil {
			s.log.WarnContext(ctx, "checkout: cart delete failed after order insert",
				slog.String("order_id", placed.ID),
				slog.String("user_id", userID),
				slog.Any("err", err),
			)
			return err
		}
		return nil
	})
	if err != nil {
		return orderdomain.Order{}, fmt.Errorf("%w: checkout: %w", ErrStoreFailure, err)
	}

	s.orders.Notify(ctx, orderdomain.NewEvent(orderdomain.EventOrderCreated, placed, placed.CreatedAt))
	return placed, nil
}

// buildOrder copies lines and totals verbatim; nothing is recomputed.
func buildOrder(userID, shippingAddress, notes string, cart Cart) orderdomain.Order {
	lines := make([]orderdomain.OrderLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, orderdomain.OrderLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			ImageURL:  l.ImageURL,
		})
	}

	return orderdomain.Order{
		UserID:          userID,
		Lines:           lines,
		TotalAmount:     cart.TotalAmount,
		TotalItemCount:  cart.TotalItemCount,
		ShippingAddress: shippingAddress,
		Notes:           notes,
		Status:          orderdomain.StatusPending,
	}
}

// Quote previews checkout against live catalog prices without changing
// anything.
func (s *Service) Quote(ctx context.Context, userID string) (domain.Quote, error) {
	cart, err := s.carts.ReadCart(ctx, userID)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("%w: read cart: %w", ErrStoreFailure, err)
	}
	if len(cart.Lines) == 0 {
		return domain.Quote{}, ErrEmptyCart
	}

	lines := make([]domain.QuoteLine, len(cart.Lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range cart.Lines {
		idx := idx
		g.Go(func() error {
			it := cart.Lines[idx]
			line := domain.QuoteLine{
				ProductID:     it.ProductID,
				Name:          it.Name,
				Quantity:      it.Quantity,
				SnapshotPrice: it.Price,
				LineTotal:     it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
			}

			current, err := s.catalog.CurrentPrice(gctx, it.ProductID)
			switch {
			case errors.Is(err, ErrProductUnavailable):
			case err != nil:
				return fmt.Errorf("price product %s: %w", it.ProductID, err)
			default:
				line.Available = true
				line.CurrentPrice = current
				line.PriceChanged = !current.Equal(it.Price)
			}

			lines[idx] = line
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Quote{}, err
	}

	q := domain.Quote{
		Lines:          lines,
		TotalAmount:    cart.TotalAmount,
		TotalItemCount: cart.TotalItemCount,
		AllAvailable:   true,
	}
	for _, l := range lines {
		q.PriceChanged = q.PriceChanged || l.PriceChanged
		q.AllAvailable = q.AllAvailable && l.Available
	}
	return q, nil
}
