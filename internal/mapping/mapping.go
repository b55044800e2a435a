// Package mapping translates the external status vocabularies (vendor
// labels from the board, tracking ledger statuses) into the internal
// OrderStatus vocabulary. All lookups are comma-ok: an unknown label is
// ordinary data to be logged and skipped, never an error.
package mapping

import (
	"strings"

	"github.com/mfourati/ordersync/internal/board"
	"github.com/mfourati/ordersync/internal/models"
)

// indexLabels resolves the board's numeric status index to a label.
// An unknown index falls back to "pending" rather than failing.
var indexLabels = map[int]string{
	1: "pending",
	2: "confirmed",
	3: "processing",
	4: "shipped",
	5: "delivered",
	6: "cancelled",
}

const fallbackIndexLabel = "pending"

// labelStatuses is the bilingual synonym table. Keys are case-folded
// and trimmed before lookup. REFUNDED is deliberately absent: a refund
// is only ever an explicit administrative action, never a board event.
var labelStatuses = map[string]models.OrderStatus{
	"pending":           models.OrderStatusPending,
	"en attente":        models.OrderStatusPending,
	"confirmed":         models.OrderStatusConfirmed,
	"confirmé":          models.OrderStatusConfirmed,
	"confirmée":         models.OrderStatusConfirmed,
	"processing":        models.OrderStatusProcessing,
	"en traitement":     models.OrderStatusProcessing,
	"en préparation":    models.OrderStatusProcessing,
	"shipped":           models.OrderStatusShipped,
	"expédié":           models.OrderStatusShipped,
	"expédiée":          models.OrderStatusShipped,
	"out for delivery":  models.OrderStatusOutForDelivery,
	"en livraison":      models.OrderStatusOutForDelivery,
	"delivered":         models.OrderStatusDelivered,
	"livré":             models.OrderStatusDelivered,
	"livrée":            models.OrderStatusDelivered,
	"cancelled":         models.OrderStatusCancelled,
	"canceled":          models.OrderStatusCancelled,
	"annulé":            models.OrderStatusCancelled,
	"annulée":           models.OrderStatusCancelled,
}

// trackingStatuses collapses the richer ledger vocabulary onto the
// internal one.
var trackingStatuses = map[models.TrackingEventStatus]models.OrderStatus{
	models.TrackingOrderPlaced:       models.OrderStatusPending,
	models.TrackingConfirmed:         models.OrderStatusConfirmed,
	models.TrackingPacked:            models.OrderStatusProcessing,
	models.TrackingShipped:           models.OrderStatusShipped,
	models.TrackingInTransit:         models.OrderStatusShipped,
	models.TrackingOutForDelivery:    models.OrderStatusOutForDelivery,
	models.TrackingDeliveryAttempted: models.OrderStatusOutForDelivery,
	models.TrackingDelivered:         models.OrderStatusDelivered,
	models.TrackingReturned:          models.OrderStatusCancelled,
	models.TrackingCancelled:         models.OrderStatusCancelled,
	models.TrackingRefunded:          models.OrderStatusRefunded,
}

// eventStatuses is the ledger entry written when the internal status
// changes.
var eventStatuses = map[models.OrderStatus]models.TrackingEventStatus{
	models.OrderStatusPending:        models.TrackingOrderPlaced,
	models.OrderStatusConfirmed:      models.TrackingConfirmed,
	models.OrderStatusProcessing:     models.TrackingPacked,
	models.OrderStatusShipped:        models.TrackingShipped,
	models.OrderStatusOutForDelivery: models.TrackingOutForDelivery,
	models.OrderStatusDelivered:      models.TrackingDelivered,
	models.OrderStatusCancelled:      models.TrackingCancelled,
	models.OrderStatusRefunded:       models.TrackingRefunded,
}

// vendorLabels is the label pushed back to the board when the internal
// status changes. The board is configured with the French labels.
var vendorLabels = map[models.OrderStatus]string{
	models.OrderStatusPending:        "en attente",
	models.OrderStatusConfirmed:      "confirmé",
	models.OrderStatusProcessing:     "en traitement",
	models.OrderStatusShipped:        "expédié",
	models.OrderStatusOutForDelivery: "en livraison",
	models.OrderStatusDelivered:      "livré",
	models.OrderStatusCancelled:      "annulé",
	models.OrderStatusRefunded:       "annulé",
}

// FromVendor maps a parsed vendor label value to an internal status.
func FromVendor(lv board.LabelValue) (models.OrderStatus, bool) {
	text := lv.Text
	if lv.Kind == board.KindIndex {
		var ok bool
		if text, ok = indexLabels[lv.Index]; !ok {
			text = fallbackIndexLabel
		}
	}

	status, ok := labelStatuses[strings.ToLower(strings.TrimSpace(text))]
	return status, ok
}

// FromTrackingStatus maps a tracking ledger status to an internal status.
func FromTrackingStatus(ts models.TrackingEventStatus) (models.OrderStatus, bool) {
	status, ok := trackingStatuses[ts]
	return status, ok
}

// EventStatusFor returns the ledger status recorded for a transition
// into the given internal status.
func EventStatusFor(s models.OrderStatus) models.TrackingEventStatus {
	return eventStatuses[s]
}

// VendorLabelFor returns the board label for an internal status.
func VendorLabelFor(s models.OrderStatus) string {
	return vendorLabels[s]
}
