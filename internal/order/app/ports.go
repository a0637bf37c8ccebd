package app

import (
	"context"

	"github.com/dwikikusuma/shoping-cart/internal/order/domain"
)

// OrderStore persists orders. FindByIDForUser matches on id and owner in a
// single predicate so a foreign order is indistinguishable from a missing
// one. Lookups that match nothing return ErrNotFound.
type OrderStore interface {
	Insert(ctx context.Context, order domain.Order) (domain.Order, error)
	FindByIDForUser(ctx context.Context, orderID, userID string) (domain.Order, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatusByID(ctx context.Context, orderID string, status domain.Status) (domain.Order, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.Event) error { return nil }
