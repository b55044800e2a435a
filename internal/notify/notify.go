// Package notify fans a committed status transition out to external
// channels. Dispatch is decoupled from the transaction that produced
// the transition: a failing or hanging channel can never undo a status
// change or block the webhook response.
package notify

import (
	"context"
	"time"

	"github.com/mfourati/ordersync/internal/logger"
	"github.com/mfourati/ordersync/internal/models"
	"go.uber.org/zap"
)

// Channel delivers one rendered notification. Implementations are
// independently fallible; an error or panic from one channel must not
// reach the others.
type Channel interface {
	Name() string
	Send(ctx context.Context, order *models.Order, status models.OrderStatus) error
}

type job struct {
	order  *models.Order
	status models.OrderStatus
}

// Dispatcher queues transitions and delivers them to every configured
// channel from a background loop.
type Dispatcher struct {
	channels []Channel
	jobs     chan job
	timeout  time.Duration
}

// NewDispatcher creates new Dispatcher instance with a per-send timeout.
func NewDispatcher(timeout time.Duration, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		jobs:     make(chan job, 64),
		timeout:  timeout,
	}
}

// Notify enqueues a transition for delivery. It never blocks the
// caller: when the queue is full the notification is dropped and
// logged, not retried.
func (d *Dispatcher) Notify(order *models.Order, status models.OrderStatus) {
	select {
	case d.jobs <- job{order: order, status: status}:
	default:
		logger.Log.Warn("notification queue full, dropping",
			zap.String("order", order.Number),
			zap.String("status", status.String()))
	}
}

// Run consumes the queue until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("notification dispatcher is done")
			return
		case j, ok := <-d.jobs:
			if !ok {
				return
			}
			for _, ch := range d.channels {
				d.send(ctx, ch, j)
			}
		}
	}
}

// send is the failure boundary around one channel delivery.
func (d *Dispatcher) send(ctx context.Context, ch Channel, j job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("notification channel panicked",
				zap.String("channel", ch.Name()),
				zap.String("order", j.order.Number),
				zap.Any("panic", r))
		}
	}()

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := ch.Send(sendCtx, j.order, j.status); err != nil {
		logger.Log.Error("notification channel failed",
			zap.String("channel", ch.Name()),
			zap.String("order", j.order.Number),
			zap.String("status", j.status.String()),
			zap.Error(err))
		return
	}

	logger.Log.Debug("notification sent",
		zap.String("channel", ch.Name()),
		zap.String("order", j.order.Number),
		zap.String("status", j.status.String()))
}
