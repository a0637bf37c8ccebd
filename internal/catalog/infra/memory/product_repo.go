package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dwikikusuma/shoping-cart/internal/catalog/app"
	"github.com/dwikikusuma/shoping-cart/internal/catalog/domain"
	"github.com/google/uuid"
)

// ProductRepo is an in-process catalog used for local runs and tests.
type ProductRepo struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewProductRepo(seed ...domain.Product) *ProductRepo {
	r := &ProductRepo{products: make(map[string]domain.Product, len(seed))}
	for _, p := range seed {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		r.products[p.ID] = p
	}
	return r
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	r.mu.Lock()
	r.products[p.ID] = p
	r.mu.Unlock()

	return p, nil
}

// Put overwrites a product in place, standing in for an admin price change.
func (r *ProductRepo) Put(p domain.Product) {
	r.mu.Lock()
	r.products[p.ID] = p
	r.mu.Unlock()
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	return p, nil
}

func (r *ProductRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	r.mu.RLock()
	all := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			continue
		}
		if cursor != "" && p.ID <= cursor {
			continue
		}
		all = append(all, p)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if len(all) > limit {
		all = all[:limit]
	}
	var next string
	if len(all) == limit && limit > 0 {
		next = all[len(all)-1].ID
	}
	return all, next, nil
}
