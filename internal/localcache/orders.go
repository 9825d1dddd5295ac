package localcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jayjaytrn/grocemate/internal/orders"
	"github.com/jayjaytrn/grocemate/models"
	"go.uber.org/zap"
)

const OrdersKey = "orders"

var ErrNotFound = errors.New("order not found")

// storedOrder also reads records written with "_id" by older app versions.
type storedOrder struct {
	models.Order
	LegacyID string `json:"_id,omitempty"`
}

// OrderCache keeps the device's order list under a single storage key.
// Every mutation rewrites the whole list.
type OrderCache struct {
	mu      sync.Mutex
	storage Storage
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewOrderCache(storage Storage, logger *zap.SugaredLogger) *OrderCache {
	return &OrderCache{
		storage: storage,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// List returns all cached orders, newest first.
func (c *OrderCache) List(ctx context.Context) ([]models.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.load(ctx)
}

// Get finds an order by id or by order number.
func (c *OrderCache) Get(ctx context.Context, ref string) (models.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	list, err := c.load(ctx)
	if err != nil {
		return models.Order{}, err
	}

	i := find(list, ref)
	if i < 0 {
		return models.Order{}, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	return list[i], nil
}

// UpdateStatus changes the delivery status of the order matching ref.
// Invalid statuses and unknown orders leave storage untouched.
func (c *OrderCache) UpdateStatus(ctx context.Context, ref, deliveryStatus string) (models.Order, error) {
	status, err := orders.ParseDeliveryStatus(deliveryStatus)
	if err != nil {
		return models.Order{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	list, err := c.load(ctx)
	if err != nil {
		return models.Order{}, err
	}

	i := find(list, ref)
	if i < 0 {
		return models.Order{}, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}

	orders.ApplyDeliveryStatus(&list[i], status, c.now())
	if err = c.save(ctx, list); err != nil {
		return models.Order{}, err
	}

	c.logger.Debugw("cached order status updated", "order", list[i].OrderNumber, "status", status)
	return list[i], nil
}

// Place adds an order to the front of the list.
func (c *OrderCache) Place(ctx context.Context, order models.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	list, err := c.load(ctx)
	if err != nil {
		return err
	}

	list = append([]models.Order{orders.Normalize(order)}, list...)
	return c.save(ctx, list)
}

func (c *OrderCache) load(ctx context.Context) ([]models.Order, error) {
	raw, ok, err := c.storage.GetItem(ctx, OrdersKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []models.Order{}, nil
	}

	var stored []storedOrder
	if err = json.Unmarshal([]byte(raw), &stored); err != nil {
		c.logger.Warnw("cached orders are unreadable, starting empty", "error", err)
		return []models.Order{}, nil
	}

	list := make([]models.Order, 0, len(stored))
	for _, s := range stored {
		if s.UUID == "" {
			s.UUID = s.LegacyID
		}
		list = append(list, orders.Normalize(s.Order))
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (c *OrderCache) save(ctx context.Context, list []models.Order) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.storage.SetItem(ctx, OrdersKey, string(b))
}

func find(list []models.Order, ref string) int {
	if ref == "" {
		return -1
	}
	for i, o := range list {
		if o.UUID == ref || o.OrderNumber == ref {
			return i
		}
	}
	return -1
}
