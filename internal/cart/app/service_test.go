package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dwikikusuma/shoping-cart/internal/cart/app"
	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog map[string]app.Product

func (f fakeCatalog) Lookup(ctx context.Context, productID string) (app.Product, error) {
	p, ok := f[productID]
	if !ok {
		return app.Product{}, app.ErrProductNotFound
	}
	return p, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newCatalog() fakeCatalog {
	return fakeCatalog{
		"P1": {ID: "P1", Name: "Coffee", Price: dec("10.00"), ImageURL: "coffee.png"},
		"P2": {ID: "P2", Name: "Filter", Price: dec("5.50")},
	}
}

func assertTotalsConsistent(t *testing.T, c domain.Cart) {
	t.Helper()
	amount := decimal.Zero
	count := 0
	for _, l := range c.Lines {
		amount = amount.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		count += l.Quantity
	}
	assert.True(t, c.TotalAmount.Equal(amount), "total amount %s != %s", c.TotalAmount, amount)
	assert.Equal(t, count, c.TotalItemCount)
}

func TestGetCartAbsentIsEmpty(t *testing.T) {
	svc := app.NewService(memory.NewCartStore(), newCatalog())

	cart, err := svc.GetCart(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", cart.UserID)
	assert.Empty(t, cart.ID)
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.TotalAmount.IsZero())
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("creates cart with snapshot", func(t *testing.T) {
		svc := app.NewService(memory.NewCartStore(), newCatalog())

		cart, err := svc.AddItem(ctx, "u1", "P1", 2)
		require.NoError(t, err)
		require.NotEmpty(t, cart.ID)
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, "Coffee", cart.Lines[0].Name)
		assert.Equal(t, "coffee.png", cart.Lines[0].ImageURL)
		assert.True(t, cart.TotalAmount.Equal(dec("20.00")))
		assertTotalsConsistent(t, cart)
	})

	t.Run("same product twice merges quantities", func(t *testing.T) {
		svc := app.NewService(memory.NewCartStore(), newCatalog())

		_, err := svc.AddItem(ctx, "u1", "P1", 2)
		require.NoError(t, err)
		cart, err := svc.AddItem(ctx, "u1", "P1", 3)
		require.NoError(t, err)

		require.Len(t, cart.Lines, 1)
		assert.Equal(t, 5, cart.Lines[0].Quantity)
		assertTotalsConsistent(t, cart)
	})

	t.Run("repeat add keeps original price snapshot", func(t *testing.T) {
		catalog := newCatalog()
		svc := app.NewService(memory.NewCartStore(), catalog)

		_, err := svc.AddItem(ctx, "u1", "P1", 1)
		require.NoError(t, err)

		catalog["P1"] = app.Product{ID: "P1", Name: "Coffee v2", Price: dec("99.00")}
		cart, err := svc.AddItem(ctx, "u1", "P1", 1)
		require.NoError(t, err)

		assert.Equal(t, "Coffee", cart.Lines[0].Name)
		assert.True(t, cart.Lines[0].Price.Equal(dec("10.00")))
		assert.True(t, cart.TotalAmount.Equal(dec("20.00")))
	})

	t.Run("non-positive quantity rejected and cart untouched", func(t *testing.T) {
		store := memory.NewCartStore()
		svc := app.NewService(store, newCatalog())
		before, err := svc.AddItem(ctx, "u1", "P1", 1)
		require.NoError(t, err)

		for _, q := range []int{0, -3} {
			_, err := svc.AddItem(ctx, "u1", "P1", q)
			assert.ErrorIs(t, err, app.ErrInvalidInput)
		}

		after, err := svc.GetCart(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, before.Lines, after.Lines)
		assert.True(t, before.TotalAmount.Equal(after.TotalAmount))
	})

	t.Run("unknown product rejected, no cart created", func(t *testing.T) {
		store := memory.NewCartStore()
		svc := app.NewService(store, newCatalog())

		_, err := svc.AddItem(ctx, "u1", "missing", 1)
		assert.ErrorIs(t, err, app.ErrProductNotFound)

		_, err = store.FindByUser(ctx, "u1")
		assert.ErrorIs(t, err, app.ErrNotFound)
	})

	t.Run("missing product id rejected", func(t *testing.T) {
		svc := app.NewService(memory.NewCartStore(), newCatalog())
		_, err := svc.AddItem(ctx, "u1", " ", 1)
		assert.ErrorIs(t, err, app.ErrInvalidInput)
	})
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("no cart -> not found", func(t *testing.T) {
		svc := app.NewService(memory.NewCartStore(), newCatalog())
		_, err := svc.UpdateItem(ctx, "u1", "P1", 2)
		assert.ErrorIs(t, err, app.ErrNotFound)
	})

	t.Run("sets absolute quantity", func(t *testing.T) {
		svc := app.NewService(memory.NewCartStore(), newCatalog())
		_, err := svc.AddItem(ctx, "u1", "P1", 2)
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, "u1", "P2", 1)
		require.NoError(t, err)

		cart, err := svc.UpdateItem(ctx, "u1", "P1", 7)
		require.NoError(t, err)
		line, ok := cart.Line("P1")
		require.True(t, ok)
		assert.Equal(t, 7, line.Quantity)
		assert.True(t, cart.TotalAmount.Equal(dec("75.50")))
		assertTotalsConsistent(t, cart)
	})

	t.Run("line absent returns cart unchanged", func(t *testing.T) {
		svc := app.NewService(memory.NewCartStore(), newCatalog())
		before, err := svc.AddItem(ctx, "u1", "P1", 2)
		require.NoError(t, err)

		cart, err := svc.UpdateItem(ctx, "u1", "P2", 4)
		require.NoError(t, err)
		assert.Equal(t, before.Lines, cart.Lines)
		assert.Equal(t, before.UpdatedAt, cart.UpdatedAt)
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		svc := app.NewService(memory.NewCartStore(), newCatalog())
		_, err := svc.AddItem(ctx, "u1", "P1", 2)
		require.NoError(t, err)

		_, err = svc.UpdateItem(ctx, "u1", "P1", 0)
		assert.ErrorIs(t, err, app.ErrInvalidInput)
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("no cart -> not found", func(t *testing.T) {
		svc := app.NewService(memory.NewCartStore(), newCatalog())
		_, err := svc.RemoveItem(ctx, "u1", "P1")
		assert.ErrorIs(t, err, app.ErrNotFound)
	})

	t.Run("removes line and recomputes", func(t *testing.T) {
		svc := app.NewService(memory.NewCartStore(), newCatalog())
		_, err := svc.AddItem(ctx, "u1", "P1", 2)
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, "u1", "P2", 1)
		require.NoError(t, err)

		cart, err := svc.RemoveItem(ctx, "u1", "P1")
		require.NoError(t, err)
		require.Len(t, cart.Lines, 1)
		assert.True(t, cart.TotalAmount.Equal(dec("5.50")))
		assertTotalsConsistent(t, cart)
	})

	t.Run("idempotent on absent product", func(t *testing.T) {
		svc := app.NewService(memory.NewCartStore(), newCatalog())
		_, err := svc.AddItem(ctx, "u1", "P1", 2)
		require.NoError(t, err)

		first, err := svc.RemoveItem(ctx, "u1", "ghost")
		require.NoError(t, err)
		second, err := svc.RemoveItem(ctx, "u1", "ghost")
		require.NoError(t, err)

		assert.Equal(t, first.Lines, second.Lines)
		assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
		assert.Equal(t, first.TotalItemCount, second.TotalItemCount)
	})

	t.Run("removing last line leaves an empty cart", func(t *testing.T) {
		svc := app.NewService(memory.NewCartStore(), newCatalog())
		_, err := svc.AddItem(ctx, "u1", "P1", 2)
		require.NoError(t, err)

		cart, err := svc.RemoveItem(ctx, "u1", "P1")
		require.NoError(t, err)
		assert.True(t, cart.IsEmpty())
		assert.True(t, cart.TotalAmount.IsZero())
		assert.Equal(t, 0, cart.TotalItemCount)
	})
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(memory.NewCartStore(), newCatalog())
	_, err := svc.AddItem(ctx, "u1", "P1", 1)
	require.NoError(t, err)

	existed, err := svc.ClearCart(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = svc.ClearCart(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, existed)

	cart, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

// failingStore fails every write.
type failingStore struct {
	*memory.CartStore
}

var errDisk = errors.New("disk on fire")

func (failingStore) Insert(ctx context.Context, c domain.Cart) (domain.Cart, error) {
	return domain.Cart{}, errDisk
}

func (failingStore) ReplaceByID(ctx context.Context, c domain.Cart) (domain.Cart, error) {
	return domain.Cart{}, errDisk
}

func TestStoreFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(failingStore{memory.NewCartStore()}, newCatalog())

	_, err := svc.AddItem(ctx, "u1", "P1", 1)
	assert.ErrorIs(t, err, app.ErrStoreFailure)
	assert.ErrorIs(t, err, errDisk)
}

// racingStore hides the existing cart from the first lookup, as if another
// request created it between our read and our insert.
type racingStore struct {
	*memory.CartStore
	hidden bool
}

func (r *racingStore) FindByUser(ctx context.Context, userID string) (domain.Cart, error) {
	if !r.hidden {
		r.hidden = true
		return domain.Cart{}, app.ErrNotFound
	}
	return r.CartStore.FindByUser(ctx, userID)
}

func TestAddItemRecoversFromDuplicateInsert(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewCartStore()
	seed := app.NewService(inner, newCatalog())
	existing, err := seed.AddItem(ctx, "u1", "P1", 1)
	require.NoError(t, err)

	svc := app.NewService(&racingStore{CartStore: inner}, newCatalog())
	cart, err := svc.AddItem(ctx, "u1", "P1", 2)
	require.NoError(t, err)

	assert.Equal(t, existing.ID, cart.ID)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assertTotalsConsistent(t, cart)
}

// vanishingStore reports a duplicate on the first insert without keeping the
// cart, as if a concurrent add created it and a checkout deleted it again.
type vanishingStore struct {
	*memory.CartStore
	inserts int
}

func (v *vanishingStore) Insert(ctx context.Context, c domain.Cart) (domain.Cart, error) {
	v.inserts++
	if v.inserts == 1 {
		return domain.Cart{}, app.ErrDuplicate
	}
	return v.CartStore.Insert(ctx, c)
}

func TestAddItemRetriesCreateWhenCartVanishes(t *testing.T) {
	ctx := context.Background()
	store := &vanishingStore{CartStore: memory.NewCartStore()}
	svc := app.NewService(store, newCatalog())

	cart, err := svc.AddItem(ctx, "u1", "P1", 2)
	require.NoError(t, err)
	assert.NotEmpty(t, cart.ID)
	assert.Equal(t, 2, store.inserts)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assertTotalsConsistent(t, cart)
}

// alwaysDuplicate never lets a cart be created or found.
type alwaysDuplicate struct {
	*memory.CartStore
}

func (alwaysDuplicate) Insert(context.Context, domain.Cart) (domain.Cart, error) {
	return domain.Cart{}, app.ErrDuplicate
}

func TestAddItemGivesUpWithoutNotFound(t *testing.T) {
	svc := app.NewService(alwaysDuplicate{memory.NewCartStore()}, newCatalog())

	_, err := svc.AddItem(context.Background(), "u1", "P1", 1)
	assert.ErrorIs(t, err, app.ErrStoreFailure)
	assert.NotErrorIs(t, err, app.ErrNotFound)
}
