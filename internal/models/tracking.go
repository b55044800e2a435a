package models

import (
	"time"

	"github.com/google/uuid"
)

// TrackingEventStatus is the vocabulary of the customer-facing tracking
// ledger and of the upstream board. It is richer than OrderStatus:
// several granular states collapse onto one internal status.
type TrackingEventStatus string

const (
	TrackingOrderPlaced       TrackingEventStatus = "ORDER_PLACED"
	TrackingConfirmed         TrackingEventStatus = "CONFIRMED"
	TrackingPacked            TrackingEventStatus = "PACKED"
	TrackingShipped           TrackingEventStatus = "SHIPPED"
	TrackingInTransit         TrackingEventStatus = "IN_TRANSIT"
	TrackingOutForDelivery    TrackingEventStatus = "OUT_FOR_DELIVERY"
	TrackingDeliveryAttempted TrackingEventStatus = "DELIVERY_ATTEMPTED"
	TrackingDelivered         TrackingEventStatus = "DELIVERED"
	TrackingReturned          TrackingEventStatus = "RETURNED"
	TrackingCancelled         TrackingEventStatus = "CANCELLED"
	TrackingRefunded          TrackingEventStatus = "REFUNDED"
)

// TrackingEvent is one entry of an order's append-only status history.
// Events are created once per accepted transition and never mutated.
type TrackingEvent struct {
	ID         uuid.UUID
	OrderID    uint64
	Status     TrackingEventStatus
	Location   string
	Carrier    string
	Notes      string
	OccurredAt time.Time
}
