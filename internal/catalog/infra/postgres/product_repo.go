package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/dwikikusuma/shoping-cart/internal/catalog/app"
	"github.com/dwikikusuma/shoping-cart/internal/catalog/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type productRow struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"not null;index"`
	Description string          `gorm:"not null;default:''"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ImageURL    string          `gorm:"not null;default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const priceScale = 2

func (productRow) TableName() string { return "products" }

type ProductRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&productRow{})
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	row := newRow(p)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Product{}, err
	}
	return toDomain(row), nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	prodID, err := uuid.Parse(id)
	if err != nil {
		return domain.Product{}, app.ErrNotFound
	}

	var row productRow
	err = r.db.WithContext(ctx).First(&row, "id = ?", prodID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}

	return toDomain(row), nil
}

func (r *ProductRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	q := r.db.WithContext(ctx).Model(&productRow{})
	if query != "" {
		q = q.Where("name ILIKE ?", "%"+query+"%")
	}
	if cursor != "" {
		cur, err := uuid.Parse(cursor)
		if err != nil {
			return nil, "", app.ErrInvalidInput
		}
		q = q.Where("id > ?", cur)
	}

	var rows []productRow
	if err := q.Order("id ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	out := make([]domain.Product, 0, len(rows))
	var nextCursor string
	for _, row := range rows {
		out = append(out, toDomain(row))
		nextCursor = row.ID.String()
	}

	if len(out) < limit {
		nextCursor = ""
	}

	return out, nextCursor, nil
}

// newRow rounds the price to the column's scale so the returned product
// matches what Get reads back.
func newRow(p domain.Product) productRow {
	return productRow{
		ID:          uuid.New(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.Round(priceScale),
		ImageURL:    p.ImageURL,
	}
}

func toDomain(row productRow) domain.Product {
	return domain.Product{
		ID:          row.ID.String(),
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price,
		ImageURL:    row.ImageURL,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
