package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mfourati/ordersync/internal/dedup"
	"github.com/mfourati/ordersync/internal/logger"
	"github.com/mfourati/ordersync/internal/mapping"
	"github.com/mfourati/ordersync/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// NextOrderNumber returns the next value of the order number sequence
	NextOrderNumber(ctx context.Context) (int64, error)
	// CreateOrder inserts the order, its items and the initial tracking event atomically
	CreateOrder(ctx context.Context, order *models.Order, event *models.TrackingEvent) (*models.Order, error)
	// GetOrderByNumber returns order by number
	GetOrderByNumber(ctx context.Context, number string) (*models.Order, error)
	// GetOrderByTrackingCode returns order by tracking code
	GetOrderByTrackingCode(ctx context.Context, code string) (*models.Order, error)
	// UpdateStatusWithEvent updates the status and appends the ledger event atomically
	UpdateStatusWithEvent(ctx context.Context, orderID uint64, status models.OrderStatus, event *models.TrackingEvent, noteAppend string) error
	// SetBoardItemID records the board item mirroring the order
	SetBoardItemID(ctx context.Context, orderID uint64, itemID string) error
}

// CustomerRepository is interface for interacting with customer data
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	GetCustomerByID(ctx context.Context, id uint64) (*models.Customer, error)
}

// ProductRepository is interface for interacting with catalog data
type ProductRepository interface {
	GetProductByID(ctx context.Context, id uint64) (*models.Product, error)
}

// TrackingRepository is interface for reading the tracking ledger
type TrackingRepository interface {
	GetHistoryByOrderID(ctx context.Context, orderID uint64) ([]models.TrackingEvent, error)
	GetLatestByOrderID(ctx context.Context, orderID uint64) (*models.TrackingEvent, error)
}

// BoardClient mirrors orders into the external board
type BoardClient interface {
	CreateOrderItem(ctx context.Context, itemName string) (string, error)
	PushStatusLabel(ctx context.Context, itemID, columnID, label string) error
}

// Notifier fans a status change out to notification channels
type Notifier interface {
	Notify(order *models.Order, status models.OrderStatus)
}

// sizeMultipliers scales the catalog base price per size. Sizes are
// scoped to a product family; a size outside the family is a
// validation error, not a silent default.
var sizeMultipliers = map[models.ProductFamily]map[string]decimal.Decimal{
	models.FamilyClassic: {
		"S":  decimal.RequireFromString("0.8"),
		"M":  decimal.RequireFromString("1"),
		"L":  decimal.RequireFromString("1.25"),
		"XL": decimal.RequireFromString("1.5"),
	},
	models.FamilyMini: {
		"MINI":   decimal.RequireFromString("0.42"),
		"PETITE": decimal.RequireFromString("0.65"),
	},
}

const discountedCity = "tunis"

var (
	shippingFeeDiscounted = decimal.RequireFromString("5")
	shippingFeeStandard   = decimal.RequireFromString("8")
)

const boardCallTimeout = 10 * time.Second

// OrderService implements OrderService interface
type OrderService struct {
	repo         OrderRepository
	customers    CustomerRepository
	products     ProductRepository
	tracking     TrackingRepository
	board        BoardClient
	notifier     Notifier
	seen         *dedup.Cache
	statusColumn string
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, customers CustomerRepository, products ProductRepository,
	tracking TrackingRepository, board BoardClient, notifier Notifier, seen *dedup.Cache, statusColumn string) *OrderService {
	return &OrderService{
		repo:         repo,
		customers:    customers,
		products:     products,
		tracking:     tracking,
		board:        board,
		notifier:     notifier,
		seen:         seen,
		statusColumn: statusColumn,
	}
}

// CreateCustomerInput is the creation request for a customer.
type CreateCustomerInput struct {
	Name  string
	Email string
	Phone string
}

// CreateCustomer registers a new customer. Name and phone are required;
// the phone is what notifications are delivered to.
func (os *OrderService) CreateCustomer(ctx context.Context, in CreateCustomerInput) (*models.Customer, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, models.ErrInvalidCustomer
	}

	return os.customers.CreateCustomer(ctx, &models.Customer{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
		Phone: strings.TrimSpace(in.Phone),
	})
}

// CreateOrderInput is the creation request for an order.
type CreateOrderInput struct {
	CustomerID      uint64
	Items           []CreateOrderItemInput
	ShippingAddress string
	ShippingCity    string
	Notes           string
}

// CreateOrderItemInput is one requested order line.
type CreateOrderItemInput struct {
	ProductID uint64
	Size      string
	Quantity  int32
}

// CreateOrder prices and persists a new order, then mirrors it to the
// board and sends the confirmation message. The mirror and the message
// are best effort: their failure never rolls back the created order.
func (os *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, models.ErrEmptyOrder
	}

	customer, err := os.customers.GetCustomerByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	subtotal := decimal.Zero

	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, models.ErrInvalidQuantity
		}

		product, err := os.products.GetProductByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}

		multiplier, ok := sizeMultipliers[product.Family][line.Size]
		if !ok {
			return nil, fmt.Errorf("%w: size %q, product %q", models.ErrInvalidSize, line.Size, product.Name)
		}

		unitPrice := product.BasePrice.Mul(multiplier).Round(2)
		lineTotal := unitPrice.Mul(decimal.NewFromInt32(line.Quantity))

		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Size:        line.Size,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
			LineTotal:   lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	fee := shippingFee(in.ShippingCity)

	seq, err := os.repo.NextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		Number:          fmt.Sprintf("CMD%03d", seq),
		TrackingCode:    newTrackingCode(now),
		CustomerID:      customer.ID,
		Status:          models.OrderStatusPending,
		Subtotal:        subtotal,
		ShippingFee:     fee,
		Total:           subtotal.Add(fee),
		ShippingAddress: in.ShippingAddress,
		ShippingCity:    in.ShippingCity,
		Notes:           in.Notes,
		Customer:        customer,
		Items:           items,
	}

	event := &models.TrackingEvent{
		ID:         uuid.New(),
		Status:     models.TrackingOrderPlaced,
		Notes:      "commande créée",
		OccurredAt: now,
	}

	order, err = os.repo.CreateOrder(ctx, order, event)
	if err != nil {
		return nil, err
	}

	go os.mirrorToBoard(order)
	os.notifier.Notify(order, models.OrderStatusPending)

	return order, nil
}

// Transition reports the result of a status update.
type Transition struct {
	Order    *models.Order
	Previous models.OrderStatus
	New      models.OrderStatus
	Changed  bool
}

// SetStatus applies an administrative status update. An administrator
// may make any forward or corrective move except out of a final status;
// the reconciliation priority check does not apply.
func (os *OrderService) SetStatus(ctx context.Context, number string, status models.OrderStatus, note string) (*Transition, error) {
	if !status.IsValid() {
		return nil, models.ErrInvalidStatus
	}

	order, err := os.repo.GetOrderByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	prev := order.Status
	if status == prev {
		return &Transition{Order: order, Previous: prev, New: status}, nil
	}
	// Refunding a delivered order is the only allowed move out of a
	// final status.
	if prev.IsFinal() && !(prev == models.OrderStatusDelivered && status == models.OrderStatusRefunded) {
		return nil, models.ErrOrderFinal
	}

	event := &models.TrackingEvent{
		ID:         uuid.New(),
		Status:     mapping.EventStatusFor(status),
		Notes:      note,
		OccurredAt: time.Now(),
	}

	if err := os.repo.UpdateStatusWithEvent(ctx, order.ID, status, event, ""); err != nil {
		return nil, err
	}

	order.Status = status
	os.notifier.Notify(order, status)
	go os.pushBoardLabel(order, status)

	return &Transition{Order: order, Previous: prev, New: status, Changed: true}, nil
}

// Cancel performs a customer-grade cancellation, recording the reason
// in the order's notes log.
func (os *OrderService) Cancel(ctx context.Context, number, reason string) (*Transition, error) {
	order, err := os.repo.GetOrderByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	prev := order.Status
	if !prev.IsCancellable() {
		return nil, models.ErrOrderNotCancellable
	}

	now := time.Now()
	event := &models.TrackingEvent{
		ID:         uuid.New(),
		Status:     models.TrackingCancelled,
		Notes:      reason,
		OccurredAt: now,
	}
	noteAppend := fmt.Sprintf("\n[annulation %s] %s", now.Format("2006-01-02"), reason)

	if err := os.repo.UpdateStatusWithEvent(ctx, order.ID, models.OrderStatusCancelled, event, noteAppend); err != nil {
		return nil, err
	}

	order.Status = models.OrderStatusCancelled
	os.notifier.Notify(order, models.OrderStatusCancelled)
	go os.pushBoardLabel(order, models.OrderStatusCancelled)

	return &Transition{Order: order, Previous: prev, New: models.OrderStatusCancelled, Changed: true}, nil
}

// GetOrder returns an order and its full tracking history.
func (os *OrderService) GetOrder(ctx context.Context, number string) (*models.Order, []models.TrackingEvent, error) {
	order, err := os.repo.GetOrderByNumber(ctx, number)
	if err != nil {
		return nil, nil, err
	}

	history, err := os.tracking.GetHistoryByOrderID(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}

	return order, history, nil
}

// TrackingView is the public tracking projection of an order: its
// current status, the latest ledger event and the full history.
type TrackingView struct {
	Order   *models.Order
	Latest  *models.TrackingEvent
	History []models.TrackingEvent
}

// Track returns the order behind a public tracking code with its
// latest ledger event and history.
func (os *OrderService) Track(ctx context.Context, code string) (*TrackingView, error) {
	order, err := os.repo.GetOrderByTrackingCode(ctx, code)
	if err != nil {
		return nil, err
	}

	latest, err := os.tracking.GetLatestByOrderID(ctx, order.ID)
	if err != nil {
		// orders always carry the creation event, but a missing ledger
		// must not break the public view
		if !errors.Is(err, models.ErrDataNotFound) {
			return nil, err
		}
		latest = nil
	}

	history, err := os.tracking.GetHistoryByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return &TrackingView{Order: order, Latest: latest, History: history}, nil
}

// mirrorToBoard creates the board item representing the order and
// pushes its initial status label. Failures are logged, never surfaced.
func (os *OrderService) mirrorToBoard(order *models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), boardCallTimeout)
	defer cancel()

	itemName := fmt.Sprintf("%s - %s", order.Number, order.Customer.Name)
	itemID, err := os.board.CreateOrderItem(ctx, itemName)
	if err != nil {
		logger.Log.Error("board mirror failed", zap.String("order", order.Number), zap.Error(err))
		return
	}

	if err := os.repo.SetBoardItemID(ctx, order.ID, itemID); err != nil {
		logger.Log.Error("saving board item id failed", zap.String("order", order.Number), zap.Error(err))
	}

	if err := os.board.PushStatusLabel(ctx, itemID, os.statusColumn, mapping.VendorLabelFor(order.Status)); err != nil {
		logger.Log.Error("board status push failed", zap.String("order", order.Number), zap.Error(err))
	}
}

// pushBoardLabel mirrors a local status change onto the board item.
func (os *OrderService) pushBoardLabel(order *models.Order, status models.OrderStatus) {
	if order.BoardItemID == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), boardCallTimeout)
	defer cancel()

	if err := os.board.PushStatusLabel(ctx, *order.BoardItemID, os.statusColumn, mapping.VendorLabelFor(status)); err != nil {
		logger.Log.Error("board status push failed",
			zap.String("order", order.Number),
			zap.String("status", status.String()),
			zap.Error(err))
	}
}

func shippingFee(city string) decimal.Decimal {
	if strings.EqualFold(strings.TrimSpace(city), discountedCity) {
		return shippingFeeDiscounted
	}
	return shippingFeeStandard
}

// trackingAlphabet omits easily confused characters (0/O, 1/I/L).
const trackingAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const trackingSuffixLen = 6

// newTrackingCode builds the customer-facing tracking code: a fixed
// prefix, the creation date and a random suffix.
func newTrackingCode(now time.Time) string {
	suffix := make([]byte, trackingSuffixLen)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand failing is unrecoverable for code generation
		panic(err)
	}
	for i, b := range suffix {
		suffix[i] = trackingAlphabet[int(b)%len(trackingAlphabet)]
	}

	return "TRK" + now.Format("20060102") + string(suffix)
}
