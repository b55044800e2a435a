package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the authoritative lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusConfirmed      OrderStatus = "CONFIRMED"
	OrderStatusProcessing     OrderStatus = "PROCESSING"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
	OrderStatusRefunded       OrderStatus = "REFUNDED"
)

// statusPriority ranks the active statuses for reconciliation.
// CANCELLED and REFUNDED rank 0: they are overrides, not progress.
var statusPriority = map[OrderStatus]int{
	OrderStatusPending:        1,
	OrderStatusConfirmed:      2,
	OrderStatusProcessing:     3,
	OrderStatusShipped:        4,
	OrderStatusOutForDelivery: 5,
	OrderStatusDelivered:      6,
	OrderStatusCancelled:      0,
	OrderStatusRefunded:       0,
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	_, ok := statusPriority[s]
	return ok
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// Priority returns the monotonic rank of the status. A status may never
// be replaced by one of lower rank during reconciliation.
func (s OrderStatus) Priority() int {
	return statusPriority[s]
}

// IsFinal reports whether the order lifecycle has ended.
func (s OrderStatus) IsFinal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// IsCancellable reports whether a customer-grade cancellation is still possible.
func (s OrderStatus) IsCancellable() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing:
		return true
	}
	return false
}

// IsActive reports whether the order is in flight.
func (s OrderStatus) IsActive() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusOutForDelivery:
		return true
	}
	return false
}

// Order is order entity
type Order struct {
	ID              uint64
	Number          string
	TrackingCode    string
	CustomerID      uint64
	Status          OrderStatus
	Subtotal        decimal.Decimal
	ShippingFee     decimal.Decimal
	Total           decimal.Decimal
	ShippingAddress string
	ShippingCity    string
	Notes           string
	BoardItemID     *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Customer        *Customer
	Items           []OrderItem
}

// OrderItem is a single order line
type OrderItem struct {
	ID          uint64
	OrderID     uint64
	ProductID   uint64
	ProductName string
	Size        string
	Quantity    int32
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}
