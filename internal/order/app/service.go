package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dwikikusuma/shoping-cart/internal/order/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("order not found")
	ErrStoreFailure = errors.New("store failure")
)

type Service struct {
	repo      OrderStore
	publisher EventPublisher
	log       *slog.Logger
	now       func() time.Time
}

func NewService(repo OrderStore, publisher EventPublisher, log *slog.Logger) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// PlaceOrder persists an already-built order. The order is stored as given;
// nothing is recomputed.
func (s *Service) PlaceOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	now := s.now()
	order.CreatedAt = now
	order.UpdatedAt = now

	created, err := s.repo.Insert(ctx, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: insert order: %w", ErrStoreFailure, err)
	}
	return created, nil
}

// GetOrder returns ErrNotFound both for unknown ids and for orders owned by
// someone else.
func (s *Service) GetOrder(ctx context.Context, orderID, userID string) (domain.Order, error) {
	if strings.TrimSpace(orderID) == "" || strings.TrimSpace(userID) == "" {
		return domain.Order{}, ErrNotFound
	}

	order, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if errors.Is(err, ErrNotFound) {
		return domain.Order{}, ErrNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: find order: %w", ErrStoreFailure, err)
	}
	return order, nil
}

// ListOrdersForUser returns the user's orders, newest first.
func (s *Service) ListOrdersForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %w", ErrStoreFailure, err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// UpdateStatus sets any known status from any status; there is no
// transition table.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status string) (domain.Order, error) {
	st, err := domain.ParseStatus(status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	order, err := s.repo.UpdateStatusByID(ctx, orderID, st)
	if errors.Is(err, ErrNotFound) {
		return domain.Order{}, ErrNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: update status: %w", ErrStoreFailure, err)
	}

	s.Notify(ctx, domain.NewEvent(domain.EventOrderStatusChanged, order, s.now()))
	return order, nil
}

// Notify publishes best-effort; failures are logged and swallowed.
func (s *Service) Notify(ctx context.Context, event domain.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("order event publish failed",
			slog.String("type", string(event.Type)),
			slog.String("order_id", event.OrderID),
			slog.Any("err", err),
		)
	}
}
