package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
)

// Service is the cart engine. Mutations are read-modify-write against the
// store with no version check, so two concurrent writers to the same cart
// resolve as last-writer-wins.
type Service struct {
	store   CartStore
	catalog CatalogGateway
	now     func() time.Time
}

func NewService(store CartStore, catalog CatalogGateway) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// GetCart returns the user's cart, or an empty cart when none is stored.
func (s *Service) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	cart, err := s.store.FindByUser(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return domain.Empty(userID), nil
	}
	if err != nil {
		return domain.Cart{}, storeErr("find cart", err)
	}
	return cart, nil
}

const maxCreateAttempts = 2

func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error) {
	if err := validateLine(userID, productID, quantity); err != nil {
		return domain.Cart{}, err
	}

	product, err := s.catalog.Lookup(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return domain.Cart{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		return domain.Cart{}, fmt.Errorf("lookup product %s: %w", productID, err)
	}

	line := domain.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
		ImageURL:  product.ImageURL,
	}

	cart, err := s.store.FindByUser(ctx, userID)
	for attempt := 0; errors.Is(err, ErrNotFound); attempt++ {
		if attempt == maxCreateAttempts {
			return domain.Cart{}, fmt.Errorf("%w: add item: cart deleted while being created", ErrStoreFailure)
		}
		var created domain.Cart
		created, err = s.createWithLine(ctx, userID, line)
		if !errors.Is(err, ErrDuplicate) {
			return created, err
		}
		// A concurrent first add created the cart; apply ours to it. If it
		// is gone again (checkout, clear) the create is retried.
		cart, err = s.store.FindByUser(ctx, userID)
	}
	if err != nil {
		return domain.Cart{}, storeErr("find cart", err)
	}

	cart.AddLine(line)
	cart.Recompute(s.now())

	return s.replace(ctx, cart)
}

func (s *Service) createWithLine(ctx context.Context, userID string, line domain.CartLine) (domain.Cart, error) {
	now := s.now()
	cart := domain.Empty(userID)
	cart.CreatedAt = now
	cart.AddLine(line)
	cart.Recompute(now)

	created, err := s.store.Insert(ctx, cart)
	if errors.Is(err, ErrDuplicate) {
		return domain.Cart{}, err
	}
	if err != nil {
		return domain.Cart{}, storeErr("insert cart", err)
	}
	return created, nil
}

// UpdateItem sets a line's quantity. A product not in the cart leaves the
// cart untouched and is not an error.
func (s *Service) UpdateItem(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error) {
	if err := validateLine(userID, productID, quantity); err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		return domain.Cart{}, storeErr("find cart", err)
	}

	if !cart.SetQuantity(productID, quantity) {
		return cart, nil
	}
	cart.Recompute(s.now())

	return s.replace(ctx, cart)
}

// RemoveItem drops the product's line if present and always persists.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (domain.Cart, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Cart{}, invalid("user id is required")
	}

	cart, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		return domain.Cart{}, storeErr("find cart", err)
	}

	cart.RemoveLine(productID)
	cart.Recompute(s.now())

	return s.replace(ctx, cart)
}

// ClearCart deletes the cart and reports whether one existed.
func (s *Service) ClearCart(ctx context.Context, userID string) (bool, error) {
	existed, err := s.store.DeleteByUser(ctx, userID)
	if err != nil {
		return false, storeErr("delete cart", err)
	}
	return existed, nil
}

func (s *Service) replace(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	saved, err := s.store.ReplaceByID(ctx, cart)
	if err != nil {
		return domain.Cart{}, storeErr("replace cart", err)
	}
	return saved, nil
}

func validateLine(userID, productID string, quantity int) error {
	if strings.TrimSpace(userID) == "" {
		return invalid("user id is required")
	}
	if strings.TrimSpace(productID) == "" {
		return invalid("product id is required")
	}
	if quantity < 1 {
		return invalid("quantity must be at least 1")
	}
	return nil
}
