package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mfourati/ordersync/internal/board"
	"github.com/mfourati/ordersync/internal/logger"
	"github.com/mfourati/ordersync/internal/mapping"
	"github.com/mfourati/ordersync/internal/models"
	"go.uber.org/zap"
)

// Outcome values reported to the webhook boundary. The board always
// receives 200 with one of these; none of them is an error to the
// sender.
const (
	OutcomeApplied   = "applied"
	OutcomeRejected  = "rejected"
	OutcomeDuplicate = "duplicate"
	OutcomeIgnored   = "ignored"
	OutcomeUnmapped  = "unmapped"
	OutcomeNotFound  = "order_not_found"
	OutcomeError     = "error"
)

var orderNumberPattern = regexp.MustCompile(`^(CMD[0-9]+)`)

// ProcessBoardEvent ingests one webhook event from the board: dedup,
// label mapping, order lookup, then reconciliation against the order's
// current status. Every failure mode short of a storage error is
// ordinary data here, acknowledged and ignored.
func (os *OrderService) ProcessBoardEvent(ctx context.Context, ev board.WebhookEvent) string {
	if ev.ColumnID != os.statusColumn {
		logger.Log.Debug("event on unwatched column",
			zap.String("column", ev.ColumnID),
			zap.String("event_id", ev.TriggerUUID))
		return OutcomeIgnored
	}

	if os.seen.Seen(ev.TriggerUUID) {
		logger.Log.Info("duplicate event dropped", zap.String("event_id", ev.TriggerUUID))
		return OutcomeDuplicate
	}

	lv, err := board.ParseLabelValue(ev.Value)
	if err != nil {
		logger.Log.Warn("unparseable status value",
			zap.String("event_id", ev.TriggerUUID),
			zap.ByteString("value", ev.Value),
			zap.Error(err))
		return OutcomeUnmapped
	}

	status, ok := mapping.FromVendor(lv)
	if !ok {
		logger.Log.Warn("unknown status label",
			zap.String("event_id", ev.TriggerUUID),
			zap.String("label", lv.Text))
		return OutcomeUnmapped
	}

	order, err := os.findOrderForEvent(ctx, ev)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			logger.Log.Info("no order for event",
				zap.String("event_id", ev.TriggerUUID),
				zap.String("item", ev.Name()))
			return OutcomeNotFound
		}
		logger.Log.Error("order lookup failed",
			zap.String("event_id", ev.TriggerUUID),
			zap.Error(err))
		return OutcomeError
	}

	return os.reconcile(ctx, order, status, ev.TriggerUUID)
}

// reconcile decides whether the incoming status may replace the
// order's current one and, if so, applies it atomically with the
// ledger append.
func (os *OrderService) reconcile(ctx context.Context, order *models.Order, incoming models.OrderStatus, eventID string) string {
	prev := order.Status

	// a terminal order cannot be reopened by any external signal
	if prev.IsFinal() && incoming != prev {
		logger.Log.Info("transition out of final status rejected",
			zap.String("order", order.Number),
			zap.String("current", prev.String()),
			zap.String("incoming", incoming.String()))
		return OutcomeRejected
	}

	// cancellation always wins: it is an authoritative override, not a
	// delayed duplicate
	if incoming.Priority() < prev.Priority() && incoming != models.OrderStatusCancelled {
		logger.Log.Info("regressive transition rejected",
			zap.String("order", order.Number),
			zap.String("current", prev.String()),
			zap.String("incoming", incoming.String()))
		return OutcomeRejected
	}

	event := &models.TrackingEvent{
		ID:         uuid.New(),
		Status:     mapping.EventStatusFor(incoming),
		Notes:      "synchronisation board",
		OccurredAt: time.Now(),
	}

	if err := os.repo.UpdateStatusWithEvent(ctx, order.ID, incoming, event, ""); err != nil {
		logger.Log.Error("applying transition failed",
			zap.String("order", order.Number),
			zap.String("incoming", incoming.String()),
			zap.Error(err))
		return OutcomeError
	}

	order.Status = incoming

	logger.Log.Info("status transition applied",
		zap.String("order", order.Number),
		zap.String("previous", prev.String()),
		zap.String("new", incoming.String()),
		zap.String("event_id", eventID))

	if incoming != prev {
		os.notifier.Notify(order, incoming)
	}

	return OutcomeApplied
}

// findOrderForEvent resolves the board item to a local order: exact
// order-number match first, then best-effort extraction from the item
// name before giving up.
func (os *OrderService) findOrderForEvent(ctx context.Context, ev board.WebhookEvent) (*models.Order, error) {
	name := strings.TrimSpace(ev.Name())

	order, err := os.repo.GetOrderByNumber(ctx, name)
	if err == nil || !errors.Is(err, models.ErrDataNotFound) {
		return order, err
	}

	for _, candidate := range extractOrderNumbers(name) {
		order, err = os.repo.GetOrderByNumber(ctx, candidate)
		if err == nil || !errors.Is(err, models.ErrDataNotFound) {
			return order, err
		}
	}

	return nil, models.ErrDataNotFound
}

// extractOrderNumbers pulls order-number candidates out of a board item
// name, e.g. "CMD042 - Leila Ben Salah".
func extractOrderNumbers(name string) []string {
	var candidates []string

	if m := orderNumberPattern.FindString(name); m != "" {
		candidates = append(candidates, m)
	}

	if prefix, _, found := strings.Cut(name, "-"); found {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" && prefix != name {
			candidates = append(candidates, prefix)
		}
	}

	return candidates
}
