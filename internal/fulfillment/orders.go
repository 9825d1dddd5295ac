package fulfillment

import (
	"context"
	"time"

	"github.com/jayjaytrn/grocemate/models"
	"go.uber.org/zap"
)

// Store is the part of the database the worker needs.
type Store interface {
	AdvanceDeliveryStatus(ctx context.Context, id string, from, to models.DeliveryStatus) (bool, error)
}

// QueuedOrder is an order id waiting for the processing delay to pass.
type QueuedOrder struct {
	ID       string
	Enqueued time.Time
}

// Manager moves freshly placed orders from pending to processing in the background.
type Manager struct {
	Database Store
	Orders   chan QueuedOrder
	Delay    time.Duration
	Logger   *zap.SugaredLogger
	Now      func() time.Time
}

func NewManager(database Store, queueSize int, delay time.Duration, logger *zap.SugaredLogger) *Manager {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Manager{
		Database: database,
		Orders:   make(chan QueuedOrder, queueSize),
		Delay:    delay,
		Logger:   logger,
		Now:      time.Now,
	}
}

// Enqueue never blocks the caller; a full queue drops the order and the
// order stays pending until an admin moves it.
func (m *Manager) Enqueue(orderID string) bool {
	select {
	case m.Orders <- QueuedOrder{ID: orderID, Enqueued: m.Now()}:
		return true
	default:
		m.Logger.Warnw("fulfillment queue is full, order skipped", "order", orderID)
		return false
	}
}

// StartOrderProcessing runs until ctx is cancelled or the queue is closed.
// Each order is processed Delay after it was enqueued; time spent behind
// earlier orders counts towards it.
func (m *Manager) StartOrderProcessing(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			m.Logger.Info("order processing stopped")
			return nil
		case queued, ok := <-m.Orders:
			if !ok {
				m.Logger.Info("order channel closed")
				return nil
			}
			if !m.wait(ctx, queued.Enqueued.Add(m.Delay)) {
				return nil
			}
			m.process(ctx, queued.ID)
		}
	}
}

func (m *Manager) wait(ctx context.Context, due time.Time) bool {
	remaining := due.Sub(m.Now())
	if remaining <= 0 {
		return true
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (m *Manager) process(ctx context.Context, orderID string) {
	moved, err := m.Database.AdvanceDeliveryStatus(ctx, orderID, models.DeliveryPending, models.DeliveryProcessing)
	if err != nil {
		m.Logger.Warnw("failed to advance order", "order", orderID, "error", err)
		return
	}
	if !moved {
		m.Logger.Debugw("order is no longer pending", "order", orderID)
		return
	}
	m.Logger.Infow("order is being processed", "order", orderID)
}
