package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/dwikikusuma/shoping-cart/internal/order/app"
	"github.com/dwikikusuma/shoping-cart/internal/order/domain"
	"github.com/dwikikusuma/shoping-cart/internal/order/infra/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type brokenStore struct{ app.OrderStore }

func (brokenStore) FindByUser(context.Context, string) ([]domain.Order, error) {
	return nil, errors.New("connection reset")
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func sampleOrder(userID string) domain.Order {
	return domain.Order{
		UserID: userID,
		Lines: []domain.OrderLine{
			{ProductID: "P1", Name: "Coffee", Price: decimal.RequireFromString("10.00"), Quantity: 2},
		},
		TotalAmount:     decimal.RequireFromString("20.00"),
		TotalItemCount:  2,
		ShippingAddress: "1 Infinite Loop, Cupertino",
		Status:          domain.StatusPending,
	}
}

func TestPlaceOrderStoresAsGiven(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(memory.NewOrderStore(), nil, discard())

	o, err := svc.PlaceOrder(ctx, sampleOrder("u1"))
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("20.00")))
	assert.False(t, o.CreatedAt.IsZero())
	assert.Equal(t, o.CreatedAt, o.UpdatedAt)
}

func TestGetOrderOwnership(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(memory.NewOrderStore(), nil, discard())

	o, err := svc.PlaceOrder(ctx, sampleOrder("owner"))
	require.NoError(t, err)

	got, err := svc.GetOrder(ctx, o.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	_, foreignErr := svc.GetOrder(ctx, o.ID, "someone-else")
	_, missingErr := svc.GetOrder(ctx, "does-not-exist", "owner")
	assert.ErrorIs(t, foreignErr, app.ErrNotFound)
	assert.ErrorIs(t, missingErr, app.ErrNotFound)
	assert.Equal(t, missingErr.Error(), foreignErr.Error())
}

func TestListOrdersForUser(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(memory.NewOrderStore(), nil, discard())

	empty, err := svc.ListOrdersForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first, err := svc.PlaceOrder(ctx, sampleOrder("u1"))
	require.NoError(t, err)
	second, err := svc.PlaceOrder(ctx, sampleOrder("u1"))
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, sampleOrder("u2"))
	require.NoError(t, err)

	orders, err := svc.ListOrdersForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestListOrdersStoreFailure(t *testing.T) {
	svc := app.NewService(brokenStore{}, nil, discard())
	_, err := svc.ListOrdersForUser(context.Background(), "u1")
	assert.ErrorIs(t, err, app.ErrStoreFailure)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := app.NewService(memory.NewOrderStore(), pub, discard())

	o, err := svc.PlaceOrder(ctx, sampleOrder("u1"))
	require.NoError(t, err)

	t.Run("any known status from any status", func(t *testing.T) {
		got, err := svc.UpdateStatus(ctx, o.ID, "cancelled")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, got.Status)

		got, err = svc.UpdateStatus(ctx, o.ID, "PENDING")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, got.Status)
		assert.False(t, got.UpdatedAt.Before(o.UpdatedAt))
	})

	t.Run("publishes status change", func(t *testing.T) {
		require.Len(t, pub.events, 2)
		assert.Equal(t, domain.EventOrderStatusChanged, pub.events[1].Type)
		assert.Equal(t, o.ID, pub.events[1].OrderID)
		assert.Equal(t, domain.StatusPending, pub.events[1].Status)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, o.ID, "SHIPPED")
		assert.ErrorIs(t, err, app.ErrInvalidInput)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, "missing", "CONFIRMED")
		assert.ErrorIs(t, err, app.ErrNotFound)
	})
}

func TestPublishFailureDoesNotFailUpdate(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := app.NewService(memory.NewOrderStore(), pub, discard())

	o, err := svc.PlaceOrder(ctx, sampleOrder("u1"))
	require.NoError(t, err)

	got, err := svc.UpdateStatus(ctx, o.ID, "CONFIRMED")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Len(t, pub.events, 1)
}

func TestPublishFailureWithoutLogger(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(memory.NewOrderStore(), &recordingPublisher{err: errors.New("broker down")}, nil)

	o, err := svc.PlaceOrder(ctx, sampleOrder("u1"))
	require.NoError(t, err)

	require.NotPanics(t, func() {
		got, err := svc.UpdateStatus(ctx, o.ID, "CONFIRMED")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, got.Status)
	})
}
