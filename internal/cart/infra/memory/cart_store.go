package memory

import (
	"context"
	"sync"

	"github.com/dwikikusuma/shoping-cart/internal/cart/app"
	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"github.com/google/uuid"
)

// CartStore keeps carts in process memory, one per user.
type CartStore struct {
	mu     sync.RWMutex
	byUser map[string]domain.Cart
}

func NewCartStore() *CartStore {
	return &CartStore{byUser: make(map[string]domain.Cart)}
}

func (s *CartStore) FindByUser(ctx context.Context, userID string) (domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.byUser[userID]
	if !ok {
		return domain.Cart{}, app.ErrNotFound
	}
	return cart.Clone(), nil
}

func (s *CartStore) Insert(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUser[cart.UserID]; ok {
		return domain.Cart{}, app.ErrDuplicate
	}
	cart = cart.Clone()
	cart.ID = uuid.NewString()
	s.byUser[cart.UserID] = cart
	return cart.Clone(), nil
}

func (s *CartStore) ReplaceByID(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byUser[cart.UserID]
	if !ok || current.ID != cart.ID {
		return domain.Cart{}, app.ErrNotFound
	}
	cart = cart.Clone()
	s.byUser[cart.UserID] = cart
	return cart.Clone(), nil
}

func (s *CartStore) DeleteByUser(ctx context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.byUser[userID]
	delete(s.byUser, userID)
	return ok, nil
}
