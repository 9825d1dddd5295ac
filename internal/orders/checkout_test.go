package orders

import (
	"errors"
	"testing"
	"time"

	"github.com/jayjaytrn/grocemate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() models.Address {
	return models.Address{
		FullName:     "Asha Rao",
		Phone:        "9876543210",
		Email:        "asha@example.com",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "KA",
		Pincode:      "560001",
	}
}

func newTestCheckout(now time.Time) *Checkout {
	c := NewCheckout(DefaultPricing())
	c.Now = func() time.Time { return now }
	c.Numbers = NewNumberGenerator(c.Now)
	return c
}

func TestCheckoutNewOrder(t *testing.T) {
	now := time.Date(2025, 5, 10, 9, 30, 0, 0, time.UTC)
	c := newTestCheckout(now)

	req := models.CheckoutRequest{
		Items: []models.CartItem{
			{ID: "p1", Name: "Apples", Price: 80, Quantity: 2, Image: "apples.png"},
			{ID: "p2", Name: "Milk", Price: 50, Quantity: 1},
		},
		DeliveryAddress: validAddress(),
		PaymentMethod:   "cod",
		OrderNotes:      "  ring the bell ",
	}

	order, err := c.NewOrder(req, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, order.UUID)
	assert.Equal(t, "ORD1746869400000", order.OrderNumber)
	assert.Equal(t, 210.0, order.Subtotal)
	assert.Equal(t, 40.0, order.DeliveryFee)
	assert.Equal(t, 250.0, order.Total)
	assert.Equal(t, models.DeliveryPending, order.DeliveryStatus)
	assert.Equal(t, "Pending", order.Status)
	assert.Equal(t, PaymentCashOnDelivery, order.PaymentMethod)
	assert.Equal(t, "ring the bell", order.OrderNotes)
	assert.Equal(t, now, order.CreatedAt)
	require.NotNil(t, order.EstimatedDelivery)
	assert.Equal(t, now.Add(24*time.Hour), *order.EstimatedDelivery)
	assert.Equal(t, []models.OrderItem{
		{ID: "p1", Name: "Apples", Quantity: 2, Price: 80, Image: "apples.png"},
		{ID: "p2", Name: "Milk", Quantity: 1, Price: 50},
	}, order.Items)

	req.Items[0].Price = 999
	assert.Equal(t, 80.0, order.Items[0].Price, "snapshot must not share memory with the cart")
}

func TestCheckoutKeepsCallerOrderNumber(t *testing.T) {
	c := newTestCheckout(time.Now())

	order, err := c.NewOrder(models.CheckoutRequest{
		OrderNumber:     "ORD42",
		Items:           []models.CartItem{{ID: "p1", Name: "Tea", Price: 600, Quantity: 1}},
		DeliveryAddress: validAddress(),
		PaymentMethod:   "online",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "ORD42", order.OrderNumber)
	assert.Equal(t, 0.0, order.DeliveryFee)
	assert.Equal(t, 600.0, order.Total)
	assert.Equal(t, PaymentOnline, order.PaymentMethod)
}

func TestCheckoutLegacyProducts(t *testing.T) {
	c := newTestCheckout(time.Now())
	catalog := map[string]*models.Product{
		"p1": {UUID: "p1", Name: "Oil", Price: 150},
	}
	lookup := func(id string) (*models.Product, error) {
		return catalog[id], nil
	}

	order, err := c.NewOrder(models.CheckoutRequest{
		Products:        []models.LegacyLine{{ProductID: "p1", Quantity: 2}, {ProductID: "p1"}},
		DeliveryAddress: validAddress(),
	}, lookup)
	require.NoError(t, err)

	assert.Empty(t, order.Items)
	require.Len(t, order.Products, 2)
	assert.Equal(t, 2, order.Products[0].Quantity)
	assert.Equal(t, 1, order.Products[1].Quantity)
	assert.Equal(t, 450.0, order.Subtotal)
	assert.Equal(t, 490.0, order.Total)

	_, err = c.NewOrder(models.CheckoutRequest{
		Products:        []models.LegacyLine{{ProductID: "missing"}},
		DeliveryAddress: validAddress(),
	}, lookup)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = c.NewOrder(models.CheckoutRequest{
		Products:        []models.LegacyLine{{ProductID: "p1"}},
		DeliveryAddress: validAddress(),
	}, nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Products cannot be priced offline", err.Error())

	boom := errors.New("db down")
	_, err = c.NewOrder(models.CheckoutRequest{
		Products:        []models.LegacyLine{{ProductID: "p1"}},
		DeliveryAddress: validAddress(),
	}, func(string) (*models.Product, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestCheckoutValidation(t *testing.T) {
	c := newTestCheckout(time.Now())
	items := []models.CartItem{{ID: "p1", Name: "Salt", Price: 20, Quantity: 1}}

	tests := []struct {
		name    string
		mutate  func(r *models.CheckoutRequest)
		message string
	}{
		{"EmptyCart", func(r *models.CheckoutRequest) { r.Items = nil }, "Cart is empty"},
		{"MissingName", func(r *models.CheckoutRequest) { r.DeliveryAddress.FullName = "   " }, "Full name is required"},
		{"ShortPhone", func(r *models.CheckoutRequest) { r.DeliveryAddress.Phone = "98765" }, "Valid phone number is required"},
		{"LetterPhone", func(r *models.CheckoutRequest) { r.DeliveryAddress.Phone = "98765abcde" }, "Valid phone number is required"},
		{"MissingAddress", func(r *models.CheckoutRequest) { r.DeliveryAddress.AddressLine1 = "" }, "Address is required"},
		{"MissingCity", func(r *models.CheckoutRequest) { r.DeliveryAddress.City = "" }, "City is required"},
		{"SignedPhone", func(r *models.CheckoutRequest) { r.DeliveryAddress.Phone = "+987654321" }, "Valid phone number is required"},
		{"DecimalPhone", func(r *models.CheckoutRequest) { r.DeliveryAddress.Phone = "98765.4321" }, "Valid phone number is required"},
		{"DecimalPincode", func(r *models.CheckoutRequest) { r.DeliveryAddress.Pincode = "5600.1" }, "Valid pincode is required"},
		{"SignedPincode", func(r *models.CheckoutRequest) { r.DeliveryAddress.Pincode = "+56000" }, "Valid pincode is required"},
		{"BadPincode", func(r *models.CheckoutRequest) { r.DeliveryAddress.Pincode = "5600" }, "Valid pincode is required"},
		{"BadEmail", func(r *models.CheckoutRequest) { r.DeliveryAddress.Email = "nope" }, "Valid email is required"},
		{"ZeroQuantity", func(r *models.CheckoutRequest) { r.Items = []models.CartItem{{ID: "p1", Name: "Salt", Price: 20}} }, "Invalid value for items[0].quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := models.CheckoutRequest{Items: items, DeliveryAddress: validAddress()}
			tt.mutate(&req)

			_, err := c.NewOrder(req, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestPaymentLabel(t *testing.T) {
	assert.Equal(t, PaymentCashOnDelivery, PaymentLabel(""))
	assert.Equal(t, PaymentCashOnDelivery, PaymentLabel("COD"))
	assert.Equal(t, PaymentOnline, PaymentLabel("online"))
	assert.Equal(t, "UPI", PaymentLabel(" UPI "))
}
