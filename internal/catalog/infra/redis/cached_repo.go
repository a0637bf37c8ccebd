package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dwikikusuma/shoping-cart/internal/catalog/app"
	"github.com/dwikikusuma/shoping-cart/internal/catalog/domain"
	radix "github.com/mediocregopher/radix/v3"
)

const keyPrefix = "catalog:product:"

// CachedProductRepo is a read-through cache in front of another ProductRepo.
// Only Get is cached; cache errors fall through to the backing repo.
type CachedProductRepo struct {
	next   app.ProductRepo
	client radix.Client
	ttl    time.Duration
	log    *slog.Logger
}

func NewCachedProductRepo(next app.ProductRepo, client radix.Client, ttl time.Duration, log *slog.Logger) *CachedProductRepo {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedProductRepo{next: next, client: client, ttl: ttl, log: log}
}

func Dial(addr string) (radix.Client, error) {
	return radix.NewPool("tcp", addr, 10)
}

func (r *CachedProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	return r.next.Create(ctx, p)
}

func (r *CachedProductRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	return r.next.List(ctx, query, limit, cursor)
}

func (r *CachedProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	key := keyPrefix + id

	var raw []byte
	mn := radix.MaybeNil{Rcv: &raw}
	if err := r.client.Do(radix.Cmd(&mn, "GET", key)); err != nil {
		r.log.Warn("catalog cache get failed", slog.String("key", key), slog.Any("err", err))
	} else if !mn.Nil {
		var p domain.Product
		if err := json.Unmarshal(raw, &p); err == nil {
			return p, nil
		}
	}

	p, err := r.next.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	buf, err := json.Marshal(p)
	if err == nil {
		ttl := max(int(r.ttl/time.Second), 1)
		if err := r.client.Do(radix.FlatCmd(nil, "SET", key, buf, "EX", ttl)); err != nil {
			r.log.Warn("catalog cache set failed", slog.String("key", key), slog.Any("err", err))
		}
	}
	return p, nil
}
