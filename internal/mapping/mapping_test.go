package mapping

import (
	"encoding/json"
	"testing"

	"github.com/mfourati/ordersync/internal/board"
	"github.com/mfourati/ordersync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromVendor(t *testing.T) {
	tests := []struct {
		name   string
		value  board.LabelValue
		want   models.OrderStatus
		wantOK bool
	}{
		{"english_label", board.LabelValue{Kind: board.KindLabel, Text: "confirmed"}, models.OrderStatusConfirmed, true},
		{"french_label", board.LabelValue{Kind: board.KindLabel, Text: "Confirmé"}, models.OrderStatusConfirmed, true},
		{"french_processing", board.LabelValue{Kind: board.KindLabel, Text: "en traitement"}, models.OrderStatusProcessing, true},
		{"untrimmed_mixed_case", board.LabelValue{Kind: board.KindLabel, Text: "  Expédié  "}, models.OrderStatusShipped, true},
		{"index_confirmed", board.LabelValue{Kind: board.KindIndex, Index: 2}, models.OrderStatusConfirmed, true},
		{"index_cancelled", board.LabelValue{Kind: board.KindIndex, Index: 6}, models.OrderStatusCancelled, true},
		{"unknown_index_defaults_to_pending", board.LabelValue{Kind: board.KindIndex, Index: 99}, models.OrderStatusPending, true},
		{"unknown_label", board.LabelValue{Kind: board.KindLabel, Text: "on hold"}, "", false},
		{"empty_label", board.LabelValue{Kind: board.KindLabel, Text: ""}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromVendor(tt.value)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// The three encodings of one logical event all map to the same status.
func TestFromVendor_EncodingTotality(t *testing.T) {
	raws := []string{
		`{"label":"Confirmé"}`,
		`{"index":2}`,
		`"confirmed"`,
	}

	for _, raw := range raws {
		lv, err := board.ParseLabelValue(json.RawMessage(raw))
		require.NoError(t, err, raw)

		got, ok := FromVendor(lv)
		require.True(t, ok, raw)
		assert.Equal(t, models.OrderStatusConfirmed, got, raw)
	}
}

func TestFromTrackingStatus(t *testing.T) {
	tests := []struct {
		event models.TrackingEventStatus
		want  models.OrderStatus
	}{
		{models.TrackingOrderPlaced, models.OrderStatusPending},
		{models.TrackingConfirmed, models.OrderStatusConfirmed},
		{models.TrackingPacked, models.OrderStatusProcessing},
		{models.TrackingShipped, models.OrderStatusShipped},
		{models.TrackingInTransit, models.OrderStatusShipped},
		{models.TrackingOutForDelivery, models.OrderStatusOutForDelivery},
		{models.TrackingDeliveryAttempted, models.OrderStatusOutForDelivery},
		{models.TrackingDelivered, models.OrderStatusDelivered},
		{models.TrackingReturned, models.OrderStatusCancelled},
		{models.TrackingCancelled, models.OrderStatusCancelled},
		{models.TrackingRefunded, models.OrderStatusRefunded},
	}

	for _, tt := range tests {
		got, ok := FromTrackingStatus(tt.event)
		require.True(t, ok, tt.event)
		assert.Equal(t, tt.want, got, tt.event)
	}

	_, ok := FromTrackingStatus("BOGUS")
	assert.False(t, ok)
}

// A refund can only come from an explicit administrative action, so no
// vendor label may resolve to REFUNDED.
func TestFromVendor_NeverRefunded(t *testing.T) {
	for label := range labelStatuses {
		got, ok := FromVendor(board.LabelValue{Kind: board.KindLabel, Text: label})
		require.True(t, ok)
		assert.NotEqual(t, models.OrderStatusRefunded, got, label)
	}
}

func TestEventStatusFor_CoversAllStatuses(t *testing.T) {
	statuses := []models.OrderStatus{
		models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusProcessing,
		models.OrderStatusShipped, models.OrderStatusOutForDelivery, models.OrderStatusDelivered,
		models.OrderStatusCancelled, models.OrderStatusRefunded,
	}

	for _, s := range statuses {
		event := EventStatusFor(s)
		assert.NotEmpty(t, event, s)

		// the ledger entry must collapse back onto the status it records
		back, ok := FromTrackingStatus(event)
		require.True(t, ok, s)
		assert.Equal(t, s, back, s)
	}
}

func TestVendorLabelFor_RoundTrips(t *testing.T) {
	for _, s := range []models.OrderStatus{
		models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusProcessing,
		models.OrderStatusShipped, models.OrderStatusOutForDelivery, models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	} {
		got, ok := FromVendor(board.LabelValue{Kind: board.KindLabel, Text: VendorLabelFor(s)})
		require.True(t, ok, s)
		assert.Equal(t, s, got, s)
	}
}
