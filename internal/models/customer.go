package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is customer entity
type Customer struct {
	ID        uint64
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// ProductFamily scopes the closed set of sizes a product accepts.
type ProductFamily string

const (
	FamilyClassic ProductFamily = "classic"
	FamilyMini    ProductFamily = "mini"
)

// Product is the minimal catalog entry the pricing path needs.
type Product struct {
	ID        uint64
	Name      string
	Family    ProductFamily
	BasePrice decimal.Decimal
	CreatedAt time.Time
}
