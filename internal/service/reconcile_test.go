package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mfourati/ordersync/internal/board"
	"github.com/mfourati/ordersync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusEvent(eventID, itemName, label string) board.WebhookEvent {
	return board.WebhookEvent{
		Type:        "update_column_value",
		TriggerUUID: eventID,
		PulseName:   itemName,
		ColumnID:    "status",
		Value:       json.RawMessage(`{"label":{"text":"` + label + `"}}`),
	}
}

func activeOrder(status models.OrderStatus) *models.Order {
	return &models.Order{
		ID:           42,
		Number:       "CMD042",
		TrackingCode: "TRK20240301ABCDEF",
		Status:       status,
		Customer:     &models.Customer{Name: "Leila Ben Salah", Phone: "22123456"},
	}
}

func TestProcessBoardEvent_UnwatchedColumn(t *testing.T) {
	env := newTestEnv(t, activeOrder(models.OrderStatusPending))

	ev := statusEvent("ev-1", "CMD042", "en traitement")
	ev.ColumnID = "date_livraison"

	outcome := env.svc.ProcessBoardEvent(context.Background(), ev)
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Empty(t, env.repo.Updates())
}

func TestProcessBoardEvent_Duplicate(t *testing.T) {
	env := newTestEnv(t, activeOrder(models.OrderStatusPending))
	ev := statusEvent("ev-1", "CMD042", "en traitement")

	outcome := env.svc.ProcessBoardEvent(context.Background(), ev)
	require.Equal(t, OutcomeApplied, outcome)

	outcome = env.svc.ProcessBoardEvent(context.Background(), ev)
	assert.Equal(t, OutcomeDuplicate, outcome)

	// replay must not touch the ledger or notify again
	assert.Len(t, env.repo.Updates(), 1)
	assert.Len(t, env.notifier.Calls(), 1)
}

func TestProcessBoardEvent_BlankEventID(t *testing.T) {
	env := newTestEnv(t, activeOrder(models.OrderStatusPending))

	// events without an id bypass deduplication entirely
	first := env.svc.ProcessBoardEvent(context.Background(), statusEvent("", "CMD042", "en traitement"))
	second := env.svc.ProcessBoardEvent(context.Background(), statusEvent("", "CMD042", "en traitement"))

	assert.Equal(t, OutcomeApplied, first)
	assert.Equal(t, OutcomeApplied, second)
	assert.Len(t, env.repo.Updates(), 2)
}

func TestProcessBoardEvent_UnmappedLabel(t *testing.T) {
	env := newTestEnv(t, activeOrder(models.OrderStatusPending))

	outcome := env.svc.ProcessBoardEvent(context.Background(),
		statusEvent("ev-1", "CMD042", "statut inconnu"))
	assert.Equal(t, OutcomeUnmapped, outcome)
	assert.Empty(t, env.repo.Updates())
}

func TestProcessBoardEvent_MalformedValue(t *testing.T) {
	env := newTestEnv(t, activeOrder(models.OrderStatusPending))

	ev := statusEvent("ev-1", "CMD042", "x")
	ev.Value = json.RawMessage(`{"no_label_here":true}`)

	outcome := env.svc.ProcessBoardEvent(context.Background(), ev)
	assert.Equal(t, OutcomeUnmapped, outcome)
}

func TestProcessBoardEvent_IndexValue(t *testing.T) {
	env := newTestEnv(t, activeOrder(models.OrderStatusPending))

	ev := statusEvent("ev-1", "CMD042", "")
	ev.Value = json.RawMessage(`{"index":3}`)

	outcome := env.svc.ProcessBoardEvent(context.Background(), ev)
	require.Equal(t, OutcomeApplied, outcome)

	updates := env.repo.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, models.OrderStatusProcessing, updates[0].status)
}

func TestProcessBoardEvent_OrderNotFound(t *testing.T) {
	env := newTestEnv(t)

	outcome := env.svc.ProcessBoardEvent(context.Background(),
		statusEvent("ev-1", "CMD999", "en traitement"))
	assert.Equal(t, OutcomeNotFound, outcome)
}

func TestProcessBoardEvent_NumberExtractedFromItemName(t *testing.T) {
	env := newTestEnv(t, activeOrder(models.OrderStatusPending))

	outcome := env.svc.ProcessBoardEvent(context.Background(),
		statusEvent("ev-1", "CMD042 - Leila Ben Salah", "en traitement"))
	require.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, models.OrderStatusProcessing, env.repo.Updates()[0].status)
}

func TestProcessBoardEvent_DashPrefixLookup(t *testing.T) {
	order := activeOrder(models.OrderStatusPending)
	order.Number = "SPECIAL01"
	env := newTestEnv(t, order)

	outcome := env.svc.ProcessBoardEvent(context.Background(),
		statusEvent("ev-1", "SPECIAL01 - retouche broderie", "confirmé"))
	assert.Equal(t, OutcomeApplied, outcome)
}

func TestProcessBoardEvent_FinalStatusGuard(t *testing.T) {
	for _, final := range []models.OrderStatus{
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
		models.OrderStatusRefunded,
	} {
		t.Run(final.String(), func(t *testing.T) {
			env := newTestEnv(t, activeOrder(final))

			outcome := env.svc.ProcessBoardEvent(context.Background(),
				statusEvent("ev-1", "CMD042", "en traitement"))
			assert.Equal(t, OutcomeRejected, outcome)
			assert.Empty(t, env.repo.Updates())
			assert.Empty(t, env.notifier.Calls())
		})
	}
}

func TestProcessBoardEvent_RegressionRejected(t *testing.T) {
	env := newTestEnv(t, activeOrder(models.OrderStatusShipped))

	// stale "en attente" arriving after the order already shipped
	outcome := env.svc.ProcessBoardEvent(context.Background(),
		statusEvent("ev-1", "CMD042", "en attente"))
	assert.Equal(t, OutcomeRejected, outcome)
	assert.Empty(t, env.repo.Updates())
}

func TestProcessBoardEvent_CancellationOverride(t *testing.T) {
	env := newTestEnv(t, activeOrder(models.OrderStatusShipped))

	outcome := env.svc.ProcessBoardEvent(context.Background(),
		statusEvent("ev-1", "CMD042", "annulé"))
	require.Equal(t, OutcomeApplied, outcome)

	updates := env.repo.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, models.OrderStatusCancelled, updates[0].status)
	assert.Equal(t, models.TrackingCancelled, updates[0].event.Status)

	calls := env.notifier.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, models.OrderStatusCancelled, calls[0].status)
}

func TestProcessBoardEvent_EqualStatusAppendsWithoutNotify(t *testing.T) {
	env := newTestEnv(t, activeOrder(models.OrderStatusProcessing))

	outcome := env.svc.ProcessBoardEvent(context.Background(),
		statusEvent("ev-1", "CMD042", "en traitement"))
	assert.Equal(t, OutcomeApplied, outcome)

	// the ledger records the signal but the customer is not re-notified
	assert.Len(t, env.repo.Updates(), 1)
	assert.Empty(t, env.notifier.Calls())
}

func TestBoardEventLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order, err := env.svc.CreateOrder(ctx, CreateOrderInput{
		CustomerID:   1,
		Items:        []CreateOrderItemInput{{ProductID: 10, Size: "M", Quantity: 1}},
		ShippingCity: "Tunis",
	})
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPending, order.Status)

	// let the board mirror finish before the board starts talking back
	select {
	case <-env.repo.boardDone:
	case <-time.After(2 * time.Second):
		t.Fatal("board mirror never completed")
	}

	// board moves the order to "en traitement"
	outcome := env.svc.ProcessBoardEvent(ctx, statusEvent("ev-1", order.Number, "en traitement"))
	require.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)

	// the board retries the same delivery
	outcome = env.svc.ProcessBoardEvent(ctx, statusEvent("ev-1", order.Number, "en traitement"))
	assert.Equal(t, OutcomeDuplicate, outcome)

	// a stale lower-priority signal arrives out of order
	outcome = env.svc.ProcessBoardEvent(ctx, statusEvent("ev-2", order.Number, "confirmé"))
	assert.Equal(t, OutcomeRejected, outcome)

	// one transition means one ledger append and one status notification
	assert.Len(t, env.repo.Updates(), 1)
	calls := env.notifier.Calls()
	require.Len(t, calls, 2) // creation + transition
	assert.Equal(t, models.OrderStatusPending, calls[0].status)
	assert.Equal(t, models.OrderStatusProcessing, calls[1].status)

	// the admin can still cancel regardless of board history
	tr, err := env.svc.SetStatus(ctx, order.Number, models.OrderStatusCancelled, "demande client")
	require.NoError(t, err)
	assert.True(t, tr.Changed)
	assert.Equal(t, models.OrderStatusCancelled, tr.New)
}
