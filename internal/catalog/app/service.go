package app

import (
	"context"
	"errors"
	"strings"

	"github.com/dwikikusuma/shoping-cart/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) CreateProduct(ctx context.Context, name, desc string, price decimal.Decimal, imageURL string) (domain.Product, error) {
	name = strings.TrimSpace(name)

	if name == "" || !price.IsPositive() {
		return domain.Product{}, ErrInvalidInput
	}

	p := domain.Product{
		Name:        name,
		Description: desc,
		Price:       price,
		ImageURL:    strings.TrimSpace(imageURL),
	}

	return s.repo.Create(ctx, p)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.List(ctx, strings.TrimSpace(query), limit, strings.TrimSpace(cursor))
}
