package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mfourati/ordersync/internal/models"
	"github.com/mfourati/ordersync/internal/service"
)

// OrderService is interface for order-related operations
type OrderService interface {
	// CreateCustomer registers a new customer
	CreateCustomer(ctx context.Context, in service.CreateCustomerInput) (*models.Customer, error)
	// CreateOrder prices and persists a new order
	CreateOrder(ctx context.Context, in service.CreateOrderInput) (*models.Order, error)
	// GetOrder returns an order and its tracking history
	GetOrder(ctx context.Context, number string) (*models.Order, []models.TrackingEvent, error)
	// SetStatus applies an administrative status update
	SetStatus(ctx context.Context, number string, status models.OrderStatus, note string) (*service.Transition, error)
	// Cancel performs a customer-grade cancellation
	Cancel(ctx context.Context, number, reason string) (*service.Transition, error)
	// Track resolves a public tracking code
	Track(ctx context.Context, code string) (*service.TrackingView, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type createCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type customerResponse struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone"`
}

// CreateCustomer registers a new customer
func (oh *OrderHandler) CreateCustomer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		req := createCustomerRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		customer, err := oh.svc.CreateCustomer(r.Context(), service.CreateCustomerInput{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		})
		if err != nil {
			writeOrderError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, customerResponse{
			ID:    customer.ID,
			Name:  customer.Name,
			Email: customer.Email,
			Phone: customer.Phone,
		})
	}
}

type createOrderRequest struct {
	CustomerID      uint64                   `json:"customerId"`
	Items           []createOrderItemRequest `json:"items"`
	ShippingAddress string                   `json:"shippingAddress"`
	ShippingCity    string                   `json:"shippingCity"`
	Notes           string                   `json:"notes"`
}

type createOrderItemRequest struct {
	ProductID uint64 `json:"productId"`
	Size      string `json:"size"`
	Quantity  int32  `json:"quantity"`
}

type orderItemResponse struct {
	ProductID   uint64 `json:"productId"`
	ProductName string `json:"productName"`
	Size        string `json:"size"`
	Quantity    int32  `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	LineTotal   string `json:"lineTotal"`
}

type orderResponse struct {
	Number          string              `json:"number"`
	TrackingCode    string              `json:"trackingCode"`
	Status          string              `json:"status"`
	Subtotal        string              `json:"subtotal"`
	ShippingFee     string              `json:"shippingFee"`
	Total           string              `json:"total"`
	ShippingAddress string              `json:"shippingAddress"`
	ShippingCity    string              `json:"shippingCity"`
	Notes           string              `json:"notes,omitempty"`
	Items           []orderItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
}

type trackingEventResponse struct {
	Status     string    `json:"status"`
	Location   string    `json:"location,omitempty"`
	Carrier    string    `json:"carrier,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func newOrderResponse(order *models.Order) orderResponse {
	resp := orderResponse{
		Number:          order.Number,
		TrackingCode:    order.TrackingCode,
		Status:          order.Status.String(),
		Subtotal:        order.Subtotal.StringFixed(2),
		ShippingFee:     order.ShippingFee.StringFixed(2),
		Total:           order.Total.StringFixed(2),
		ShippingAddress: order.ShippingAddress,
		ShippingCity:    order.ShippingCity,
		Notes:           order.Notes,
		CreatedAt:       order.CreatedAt,
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Size:        item.Size,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			LineTotal:   item.LineTotal.StringFixed(2),
		})
	}
	return resp
}

func newTrackingEventResponses(events []models.TrackingEvent) []trackingEventResponse {
	resp := make([]trackingEventResponse, 0, len(events))
	for _, event := range events {
		resp = append(resp, trackingEventResponse{
			Status:     string(event.Status),
			Location:   event.Location,
			Carrier:    event.Carrier,
			Notes:      event.Notes,
			OccurredAt: event.OccurredAt,
		})
	}
	return resp
}

// CreateOrder creates a new order
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		req := createOrderRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		in := service.CreateOrderInput{
			CustomerID:      req.CustomerID,
			ShippingAddress: req.ShippingAddress,
			ShippingCity:    req.ShippingCity,
			Notes:           req.Notes,
		}
		for _, item := range req.Items {
			in.Items = append(in.Items, service.CreateOrderItemInput{
				ProductID: item.ProductID,
				Size:      item.Size,
				Quantity:  item.Quantity,
			})
		}

		order, err := oh.svc.CreateOrder(r.Context(), in)
		if err != nil {
			writeOrderError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newOrderResponse(order))
	}
}

// GetOrder returns an order with its items and ledger
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number := chi.URLParam(r, "number")

		order, history, err := oh.svc.GetOrder(r.Context(), number)
		if err != nil {
			writeOrderError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, struct {
			orderResponse
			History []trackingEventResponse `json:"history"`
		}{newOrderResponse(order), newTrackingEventResponses(history)})
	}
}

type statusUpdateRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type transitionResponse struct {
	Number   string `json:"number"`
	Previous string `json:"previous"`
	Status   string `json:"status"`
	Changed  bool   `json:"changed"`
}

// UpdateStatus applies an administrative status update
func (oh *OrderHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		number := chi.URLParam(r, "number")

		req := statusUpdateRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		tr, err := oh.svc.SetStatus(r.Context(), number, models.OrderStatus(req.Status), req.Note)
		if err != nil {
			writeOrderError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, transitionResponse{
			Number:   tr.Order.Number,
			Previous: tr.Previous.String(),
			Status:   tr.New.String(),
			Changed:  tr.Changed,
		})
	}
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder cancels an order while it is still cancellable
func (oh *OrderHandler) CancelOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		number := chi.URLParam(r, "number")

		req := cancelRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		tr, err := oh.svc.Cancel(r.Context(), number, req.Reason)
		if err != nil {
			writeOrderError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, transitionResponse{
			Number:   tr.Order.Number,
			Previous: tr.Previous.String(),
			Status:   tr.New.String(),
			Changed:  tr.Changed,
		})
	}
}

type trackResponse struct {
	TrackingCode string                  `json:"trackingCode"`
	Status       string                  `json:"status"`
	LastUpdate   *trackingEventResponse  `json:"lastUpdate,omitempty"`
	History      []trackingEventResponse `json:"history"`
}

// TrackOrder resolves a public tracking code
func (oh *OrderHandler) TrackOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		view, err := oh.svc.Track(r.Context(), code)
		if err != nil {
			writeOrderError(w, err)
			return
		}

		resp := trackResponse{
			TrackingCode: view.Order.TrackingCode,
			Status:       view.Order.Status.String(),
			History:      newTrackingEventResponses(view.History),
		}
		if view.Latest != nil {
			latest := newTrackingEventResponses([]models.TrackingEvent{*view.Latest})[0]
			resp.LastUpdate = &latest
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrDataNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, models.ErrConflictData),
		errors.Is(err, models.ErrOrderFinal),
		errors.Is(err, models.ErrOrderNotCancellable):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, models.ErrInvalidSize),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrEmptyOrder),
		errors.Is(err, models.ErrInvalidCustomer),
		errors.Is(err, models.ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return
	}
}
