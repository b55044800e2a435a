package models

import "errors"

var (
	ErrConflictData        = errors.New("data conflicts with existing data")
	ErrDataNotFound        = errors.New("data not found")
	ErrInvalidCredentials  = errors.New("invalid login or password")
	ErrOrderFinal          = errors.New("order is in a final status")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	ErrInvalidSize         = errors.New("size is not valid for this product")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrEmptyOrder          = errors.New("order has no items")
	ErrInvalidCustomer     = errors.New("customer name and phone are required")
	ErrInvalidStatus       = errors.New("unknown order status")
)
