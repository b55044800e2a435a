package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/mfourati/ordersync/internal/models"
	"github.com/mfourati/ordersync/internal/repository/postgres"
)

const selectProductByIDQuery = `
						SELECT id, name, family, base_price, created_at FROM products
						WHERE id = $1
`

// ProductRepository implements ProductRepository interface
type ProductRepository struct {
	db *postgres.DB
}

// NewProductRepository creates new ProductRepository instance
func NewProductRepository(db *postgres.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetProductByID returns product by id
func (pr *ProductRepository) GetProductByID(ctx context.Context, id uint64) (*models.Product, error) {
	product := models.Product{}
	err := pr.db.QueryRow(ctx, selectProductByIDQuery, id).
		Scan(&product.ID, &product.Name, &product.Family, &product.BasePrice, &product.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &product, nil
}
