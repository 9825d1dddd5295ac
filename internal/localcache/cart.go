package localcache

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jayjaytrn/grocemate/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const CartKey = "cart"

type Cart struct {
	mu      sync.Mutex
	storage Storage
	logger  *zap.SugaredLogger
}

func NewCart(storage Storage, logger *zap.SugaredLogger) *Cart {
	return &Cart{storage: storage, logger: logger}
}

func (c *Cart) Items(ctx context.Context) ([]models.CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.load(ctx)
}

// Add puts an item in the cart or increases the quantity of the same product.
func (c *Cart) Add(ctx context.Context, item models.CartItem) error {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	return c.update(ctx, func(items []models.CartItem) []models.CartItem {
		for i := range items {
			if items[i].ID == item.ID {
				items[i].Quantity += item.Quantity
				return items
			}
		}
		return append(items, item)
	})
}

func (c *Cart) Remove(ctx context.Context, id string) error {
	return c.update(ctx, func(items []models.CartItem) []models.CartItem {
		kept := items[:0]
		for _, it := range items {
			if it.ID != id {
				kept = append(kept, it)
			}
		}
		return kept
	})
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (c *Cart) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return c.Remove(ctx, id)
	}

	return c.update(ctx, func(items []models.CartItem) []models.CartItem {
		for i := range items {
			if items[i].ID == id {
				items[i].Quantity = quantity
			}
		}
		return items
	})
}

func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.storage.RemoveItem(ctx, CartKey)
}

func (c *Cart) TotalPrice(ctx context.Context) (float64, error) {
	items, err := c.Items(ctx)
	if err != nil {
		return 0, err
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Round(2).InexactFloat64(), nil
}

func (c *Cart) TotalItems(ctx context.Context) (int, error) {
	items, err := c.Items(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n, nil
}

func (c *Cart) update(ctx context.Context, fn func([]models.CartItem) []models.CartItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}

	b, err := json.Marshal(fn(items))
	if err != nil {
		return err
	}
	return c.storage.SetItem(ctx, CartKey, string(b))
}

func (c *Cart) load(ctx context.Context) ([]models.CartItem, error) {
	raw, ok, err := c.storage.GetItem(ctx, CartKey)
	if err != nil {
		return nil, err
	}

	items := []models.CartItem{}
	if !ok || raw == "" {
		return items, nil
	}
	if err = json.Unmarshal([]byte(raw), &items); err != nil {
		c.logger.Warnw("cached cart is unreadable, starting empty", "error", err)
		return []models.CartItem{}, nil
	}
	return items, nil
}
