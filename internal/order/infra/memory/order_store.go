package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dwikikusuma/shoping-cart/internal/order/app"
	"github.com/dwikikusuma/shoping-cart/internal/order/domain"
	"github.com/google/uuid"
)

type entry struct {
	order domain.Order
	seq   int
}

type OrderStore struct {
	mu     sync.RWMutex
	byID   map[string]entry
	seq    int
	nowFor func() time.Time
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		byID:   make(map[string]entry),
		nowFor: func() time.Time { return time.Now().UTC() },
	}
}

func (s *OrderStore) Insert(ctx context.Context, order domain.Order) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order = cloneOrder(order)
	order.ID = uuid.NewString()
	s.seq++
	s.byID[order.ID] = entry{order: order, seq: s.seq}
	return cloneOrder(order), nil
}

func (s *OrderStore) FindByIDForUser(ctx context.Context, orderID, userID string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.byID[orderID]
	if !ok || e.order.UserID != userID {
		return domain.Order{}, app.ErrNotFound
	}
	return cloneOrder(e.order), nil
}

// FindByUser sorts newest first; orders created in the same instant keep
// reverse insertion order.
func (s *OrderStore) FindByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []entry
	for _, e := range s.byID {
		if e.order.UserID == userID {
			matched = append(matched, e)
		}
	}
	slices.SortFunc(matched, func(a, b entry) int {
		if c := b.order.CreatedAt.Compare(a.order.CreatedAt); c != 0 {
			return c
		}
		return b.seq - a.seq
	})

	out := make([]domain.Order, 0, len(matched))
	for _, e := range matched {
		out = append(out, cloneOrder(e.order))
	}
	return out, nil
}

func (s *OrderStore) UpdateStatusByID(ctx context.Context, orderID string, status domain.Status) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[orderID]
	if !ok {
		return domain.Order{}, app.ErrNotFound
	}
	e.order.Status = status
	e.order.UpdatedAt = s.nowFor()
	s.byID[orderID] = e
	return cloneOrder(e.order), nil
}

func cloneOrder(o domain.Order) domain.Order {
	o.Lines = slices.Clone(o.Lines)
	return o
}
