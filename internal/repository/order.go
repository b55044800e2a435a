package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/mfourati/ordersync/internal/models"
	"github.com/mfourati/ordersync/internal/repository/postgres"
)

const pgErrUniqueViolationCode = "23505"

const (
	nextOrderNumberQuery = `SELECT nextval('order_number_seq')`

	insertOrderQuery = `
						INSERT INTO orders (number, tracking_code, customer_id, status, subtotal, shipping_fee, total, shipping_address, shipping_city, notes)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
						RETURNING id, created_at, updated_at
`
	insertOrderItemQuery = `
						INSERT INTO order_items (order_id, product_id, product_name, size, quantity, unit_price, line_total)
						VALUES ($1, $2, $3, $4, $5, $6, $7)
						RETURNING id
`
	selectOrderQuery = `
						SELECT o.id, o.number, o.tracking_code, o.customer_id, o.status, o.subtotal, o.shipping_fee, o.total,
						       o.shipping_address, o.shipping_city, o.notes, o.board_item_id, o.created_at, o.updated_at,
						       c.id, c.name, c.email, c.phone, c.created_at
						FROM orders o
						JOIN customers c ON c.id = o.customer_id
`
	selectOrderByNumberQuery       = selectOrderQuery + ` WHERE o.number = $1`
	selectOrderByTrackingCodeQuery = selectOrderQuery + ` WHERE o.tracking_code = $1`

	selectOrderItemsQuery = `
						SELECT id, order_id, product_id, product_name, size, quantity, unit_price, line_total FROM order_items
						WHERE order_id = $1
						ORDER BY id
`
	updateOrderStatusQuery = `
						UPDATE orders
						SET status = $1, updated_at = now()
						WHERE id = $2
`
	appendOrderNotesQuery = `
						UPDATE orders
						SET notes = notes || $1, updated_at = now()
						WHERE id = $2
`
	updateBoardItemQuery = `
						UPDATE orders
						SET board_item_id = $1, updated_at = now()
						WHERE id = $2
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// NextOrderNumber returns the next value of the order number sequence.
func (or *OrderRepository) NextOrderNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := or.db.QueryRow(ctx, nextOrderNumberQuery).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CreateOrder inserts the order, its items and the initial tracking
// event in one transaction.
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order, event *models.TrackingEvent) (*models.Order, error) {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, insertOrderQuery,
		order.Number, order.TrackingCode, order.CustomerID, order.Status,
		order.Subtotal, order.ShippingFee, order.Total,
		order.ShippingAddress, order.ShippingCity, order.Notes,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = tx.QueryRow(ctx, insertOrderItemQuery,
			item.OrderID, item.ProductID, item.ProductName, item.Size,
			item.Quantity, item.UnitPrice, item.LineTotal,
		).Scan(&item.ID)
		if err != nil {
			return nil, err
		}
	}

	event.OrderID = order.ID
	_, err = tx.Exec(ctx, insertTrackingEventQuery,
		event.ID, event.OrderID, event.Status, event.Location, event.Carrier, event.Notes, event.OccurredAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrderByNumber returns order with its items by order number
func (or *OrderRepository) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	return or.getOrder(ctx, selectOrderByNumberQuery, number)
}

// GetOrderByTrackingCode returns order with its items by tracking code
func (or *OrderRepository) GetOrderByTrackingCode(ctx context.Context, code string) (*models.Order, error) {
	return or.getOrder(ctx, selectOrderByTrackingCodeQuery, code)
}

func (or *OrderRepository) getOrder(ctx context.Context, query, arg string) (*models.Order, error) {
	order := models.Order{Customer: &models.Customer{}}
	err := or.db.QueryRow(ctx, query, arg).Scan(
		&order.ID, &order.Number, &order.TrackingCode, &order.CustomerID, &order.Status,
		&order.Subtotal, &order.ShippingFee, &order.Total,
		&order.ShippingAddress, &order.ShippingCity, &order.Notes, &order.BoardItemID,
		&order.CreatedAt, &order.UpdatedAt,
		&order.Customer.ID, &order.Customer.Name, &order.Customer.Email, &order.Customer.Phone, &order.Customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	rows, err := or.db.Query(ctx, selectOrderItemsQuery, order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := models.OrderItem{}
		err = rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Size, &item.Quantity, &item.UnitPrice, &item.LineTotal)
		if err != nil {
			continue
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &order, nil
}

// UpdateStatusWithEvent updates the order's authoritative status and
// appends the tracking event in the same transaction. Both succeed or
// neither does; a ledger entry the order status does not reflect must
// never be committed.
func (or *OrderRepository) UpdateStatusWithEvent(ctx context.Context, orderID uint64, status models.OrderStatus, event *models.TrackingEvent, noteAppend string) error {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, updateOrderStatusQuery, status, orderID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	if noteAppend != "" {
		if _, err := tx.Exec(ctx, appendOrderNotesQuery, noteAppend, orderID); err != nil {
			return err
		}
	}

	event.OrderID = orderID
	_, err = tx.Exec(ctx, insertTrackingEventQuery,
		event.ID, event.OrderID, event.Status, event.Location, event.Carrier, event.Notes, event.OccurredAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SetBoardItemID records the board item mirroring the order.
func (or *OrderRepository) SetBoardItemID(ctx context.Context, orderID uint64, itemID string) error {
	cmd, err := or.db.Exec(ctx, updateBoardItemQuery, itemID, orderID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}
	return nil
}
