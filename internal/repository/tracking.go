package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/mfourati/ordersync/internal/models"
	"github.com/mfourati/ordersync/internal/repository/postgres"
)

const (
	insertTrackingEventQuery = `
						INSERT INTO tracking_events (id, order_id, status, location, carrier, notes, occurred_at)
						VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	selectTrackingHistoryQuery = `
						SELECT id, order_id, status, location, carrier, notes, occurred_at FROM tracking_events
						WHERE order_id = $1
						ORDER BY occurred_at DESC
`
	selectLatestTrackingEventQuery = `
						SELECT id, order_id, status, location, carrier, notes, occurred_at FROM tracking_events
						WHERE order_id = $1
						ORDER BY occurred_at DESC
						LIMIT 1
`
)

// TrackingRepository implements TrackingRepository interface
type TrackingRepository struct {
	db *postgres.DB
}

// NewTrackingRepository creates new TrackingRepository instance
func NewTrackingRepository(db *postgres.DB) *TrackingRepository {
	return &TrackingRepository{db: db}
}

// GetHistoryByOrderID returns the full ledger of an order, newest first
func (tr *TrackingRepository) GetHistoryByOrderID(ctx context.Context, orderID uint64) ([]models.TrackingEvent, error) {
	rows, err := tr.db.Query(ctx, selectTrackingHistoryQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.TrackingEvent{}

	for rows.Next() {
		event := models.TrackingEvent{}
		err = rows.Scan(&event.ID, &event.OrderID, &event.Status, &event.Location, &event.Carrier, &event.Notes, &event.OccurredAt)
		if err != nil {
			continue
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// GetLatestByOrderID returns the event with the greatest timestamp
func (tr *TrackingRepository) GetLatestByOrderID(ctx context.Context, orderID uint64) (*models.TrackingEvent, error) {
	event := models.TrackingEvent{}
	err := tr.db.QueryRow(ctx, selectLatestTrackingEventQuery, orderID).Scan(
		&event.ID, &event.OrderID, &event.Status, &event.Location, &event.Carrier, &event.Notes, &event.OccurredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &event, nil
}
