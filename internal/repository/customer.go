package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/mfourati/ordersync/internal/models"
	"github.com/mfourati/ordersync/internal/repository/postgres"
)

const (
	insertCustomerQuery = `
						INSERT INTO customers (name, email, phone)
						VALUES ($1, $2, $3)
						RETURNING id, name, email, phone, created_at
`
	selectCustomerByIDQuery = `
						SELECT id, name, email, phone, created_at FROM customers
						WHERE id = $1
`
)

// CustomerRepository implements CustomerRepository interface
type CustomerRepository struct {
	db *postgres.DB
}

// NewCustomerRepository creates new CustomerRepository instance
func NewCustomerRepository(db *postgres.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// CreateCustomer inserts new customer to database
func (cr *CustomerRepository) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	err := cr.db.QueryRow(ctx, insertCustomerQuery, customer.Name, customer.Email, customer.Phone).
		Scan(&customer.ID, &customer.Name, &customer.Email, &customer.Phone, &customer.CreatedAt)
	if err != nil {
		if errCode := cr.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return customer, nil
}

// GetCustomerByID returns customer by id
func (cr *CustomerRepository) GetCustomerByID(ctx context.Context, id uint64) (*models.Customer, error) {
	customer := models.Customer{}
	err := cr.db.QueryRow(ctx, selectCustomerByIDQuery, id).
		Scan(&customer.ID, &customer.Name, &customer.Email, &customer.Phone, &customer.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &customer, nil
}
