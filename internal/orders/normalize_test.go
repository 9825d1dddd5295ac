package orders

import (
	"testing"
	"time"

	"github.com/jayjaytrn/grocemate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("ItemsKeptAsIs", func(t *testing.T) {
		order := models.Order{
			Items: []models.OrderItem{
				{ID: "p1", Name: "Milk", Quantity: 2, Price: 30},
			},
			Products: []models.LegacyLine{
				{ProductID: "p9", Quantity: 5},
			},
			DeliveryStatus: models.DeliveryShipped,
		}

		got := Normalize(order)

		assert.Equal(t, order.Items, got.Items)
		assert.Nil(t, got.Products)
		assert.Equal(t, "Shipped", got.Status)
	})

	t.Run("LegacyProductsWithFallbacks", func(t *testing.T) {
		order := models.Order{
			Products: []models.LegacyLine{
				{ProductID: "p1", Product: &models.Product{UUID: "p1", Name: "Bread", Price: 45, Image: "bread.png"}, Quantity: 3},
				{ProductID: "gone"},
				{Product: &models.Product{Price: 12}},
			},
		}

		got := Normalize(order)

		require.Len(t, got.Items, 3)
		assert.Equal(t, models.OrderItem{ID: "p1", Name: "Bread", Quantity: 3, Price: 45, Image: "bread.png"}, got.Items[0])

		assert.NotEmpty(t, got.Items[1].ID)
		assert.Equal(t, UnknownProductName, got.Items[1].Name)
		assert.Equal(t, 1, got.Items[1].Quantity)
		assert.Equal(t, 0.0, got.Items[1].Price)
		assert.Equal(t, "", got.Items[1].Image)

		assert.NotEmpty(t, got.Items[2].ID)
		assert.Equal(t, UnknownProductName, got.Items[2].Name)
		assert.Equal(t, 12.0, got.Items[2].Price)
		assert.NotEqual(t, got.Items[1].ID, got.Items[2].ID)
	})

	t.Run("NothingToNormalize", func(t *testing.T) {
		got := Normalize(models.Order{})

		assert.NotNil(t, got.Items)
		assert.Empty(t, got.Items)
		assert.Equal(t, models.DeliveryPending, got.DeliveryStatus)
		assert.Equal(t, "Pending", got.Status)
	})

	t.Run("StatusFromDisplayLabel", func(t *testing.T) {
		got := Normalize(models.Order{Status: "processing"})

		assert.Equal(t, models.DeliveryProcessing, got.DeliveryStatus)
		assert.Equal(t, "Processing", got.Status)
	})

	t.Run("DeliveryStatusWinsOverStaleLabel", func(t *testing.T) {
		got := Normalize(models.Order{Status: "Processing", DeliveryStatus: models.DeliveryDelivered})

		assert.Equal(t, "Delivered", got.Status)
	})
}

func TestNormalizeMissingProductIDIsStable(t *testing.T) {
	order := models.Order{
		UUID:     "3c7a4b1e-2d9f-4e8a-9b6c-5d4e3f2a1b00",
		Products: []models.LegacyLine{{ProductID: "gone"}, {ProductID: "gone"}},
	}

	first := Normalize(order)
	second := Normalize(order)

	require.Len(t, first.Items, 2)
	assert.Equal(t, first.Items, second.Items)
	assert.NotEqual(t, first.Items[0].ID, first.Items[1].ID)

	other := order
	other.UUID = "3c7a4b1e-2d9f-4e8a-9b6c-5d4e3f2a1b01"
	assert.NotEqual(t, first.Items[0].ID, Normalize(other).Items[0].ID)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	cases := map[string]models.Order{
		"snapshot": {
			UUID:      "o1",
			Items:     []models.OrderItem{{ID: "a", Name: "Rice", Quantity: 1, Price: 99}},
			CreatedAt: created,
		},
		"legacy": {
			UUID: "o2",
			Products: []models.LegacyLine{
				{ProductID: "x", Quantity: 2},
				{Product: &models.Product{UUID: "y", Name: "Eggs", Price: 6}},
			},
			Status:    "Shipped",
			CreatedAt: created,
		},
		"empty": {UUID: "o3", CreatedAt: created},
	}

	for name, order := range cases {
		t.Run(name, func(t *testing.T) {
			once := Normalize(order)
			twice := Normalize(once)
			assert.Equal(t, once, twice)
		})
	}
}

func TestNormalizeAll(t *testing.T) {
	got := NormalizeAll([]models.Order{{UUID: "a"}, {UUID: "b", DeliveryStatus: models.DeliveryCancelled}})

	require.Len(t, got, 2)
	assert.Equal(t, "Pending", got[0].Status)
	assert.Equal(t, "Cancelled", got[1].Status)
}
