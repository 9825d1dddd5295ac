package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jayjaytrn/grocemate/internal/localcache"
	"github.com/jayjaytrn/grocemate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const serverOrderID = "3c7a4b1e-2d9f-4e8a-9b6c-5d4e3f2a1b00"

func address() models.Address {
	return models.Address{
		FullName:     "Asha Rao",
		Phone:        "9876543210",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		Pincode:      "560001",
	}
}

func serverOrder(status models.DeliveryStatus) models.Order {
	return models.Order{
		UUID:           serverOrderID,
		OrderNumber:    "ORD1746869400000",
		Items:          []models.OrderItem{{ID: "p1", Name: "Apples", Quantity: 2, Price: 80}},
		DeliveryStatus: status,
		Status:         status.Display(),
		CreatedAt:      time.Now().UTC(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type fakeAPI struct {
	placed   []models.CheckoutRequest
	updated  []string
	lastAuth string
}

func (f *fakeAPI) router() http.Handler {
	r := chi.NewRouter()
	r.Head("/api/health", func(w http.ResponseWriter, r *http.Request) {})
	r.Post("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.AuthResponse{
			Token: "tok",
			User:  models.User{UUID: "u1", Name: "Asha", Email: "asha@example.com", Role: models.RoleAdmin},
		})
	})
	r.Post("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		var req models.CheckoutRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.placed = append(f.placed, req)
		writeJSON(w, http.StatusCreated, serverOrder(models.DeliveryPending))
	})
	r.Get("/api/admin/orders/find/{orderNumber}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "orderNumber") != "ORD1746869400000" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Order not found"})
			return
		}
		writeJSON(w, http.StatusOK, serverOrder(models.DeliveryPending))
	})
	r.Put("/api/admin/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		var req models.StatusUpdateRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.updated = append(f.updated, chi.URLParam(r, "id")+"="+req.DeliveryStatus)
		writeJSON(w, http.StatusOK, serverOrder(models.DeliveryStatus(req.DeliveryStatus)))
	})
	r.Put("/api/users/change-password", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Current password is incorrect"})
	})
	return r
}

func newOnlineClient(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api.router())
	t.Cleanup(srv.Close)
	return New(srv.URL, localcache.NewMemoryStorage(), zap.NewNop().Sugar()), api
}

func newOfflineClient(t *testing.T) *Client {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return New(url, localcache.NewMemoryStorage(), zap.NewNop().Sugar())
}

func TestHealth(t *testing.T) {
	c, _ := newOnlineClient(t)
	assert.True(t, c.Health(context.Background()))

	assert.False(t, newOfflineClient(t).Health(context.Background()))
}

func TestPlaceOrderOnline(t *testing.T) {
	ctx := context.Background()
	c, api := newOnlineClient(t)

	_, err := c.Login(ctx, "asha@example.com", "secret1", "")
	require.NoError(t, err)
	require.NoError(t, c.Cart.Add(ctx, models.CartItem{ID: "p1", Name: "Apples", Price: 80, Quantity: 2}))

	order, err := c.PlaceOrder(ctx, models.CheckoutRequest{DeliveryAddress: address(), PaymentMethod: "cod"})
	require.NoError(t, err)
	assert.Equal(t, "Pending", order.Status)

	require.Len(t, api.placed, 1)
	assert.Len(t, api.placed[0].Items, 1, "items default to the cart")
	assert.Equal(t, "Bearer tok", api.lastAuth)

	items, err := c.Cart.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	cached, err := c.Orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func TestPlaceOrderOffline(t *testing.T) {
	ctx := context.Background()
	c := newOfflineClient(t)
	require.NoError(t, c.Session.Save(ctx, "tok", models.User{UUID: "u1", Name: "Asha", Email: "asha@example.com"}))
	require.NoError(t, c.Cart.Add(ctx, models.CartItem{ID: "p1", Name: "Apples", Price: 80, Quantity: 2}))
	require.NoError(t, c.Cart.Add(ctx, models.CartItem{ID: "p2", Name: "Milk", Price: 50, Quantity: 1}))

	order, err := c.PlaceOrder(ctx, models.CheckoutRequest{DeliveryAddress: address()})
	require.NoError(t, err)
	assert.Equal(t, 210.0, order.Subtotal)
	assert.Equal(t, 40.0, order.DeliveryFee)
	assert.Equal(t, 250.0, order.Total)
	require.NotNil(t, order.User)
	assert.Equal(t, "u1", order.User.UUID)

	cached, err := c.Orders.Get(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.UUID, cached.UUID)

	items, _ := c.Cart.Items(ctx)
	assert.Empty(t, items)

	mine, err := c.MyOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestPlaceOrderOfflineValidationKeepsCart(t *testing.T) {
	ctx := context.Background()
	c := newOfflineClient(t)
	require.NoError(t, c.Cart.Add(ctx, models.CartItem{ID: "p1", Name: "Apples", Price: 80, Quantity: 1}))

	addr := address()
	addr.Pincode = "12"
	_, err := c.PlaceOrder(ctx, models.CheckoutRequest{DeliveryAddress: addr})
	require.Error(t, err)
	assert.Equal(t, "Valid pincode is required", err.Error())

	items, _ := c.Cart.Items(ctx)
	assert.Len(t, items, 1)
}

func TestAdminOrdersOnline(t *testing.T) {
	ctx := context.Background()
	c, api := newOnlineClient(t)

	source := c.AdminOrders(ctx)
	_, isCache := source.(*localcache.OrderCache)
	assert.False(t, isCache)

	order, err := source.UpdateStatus(ctx, "ORD1746869400000", "shipped")
	require.NoError(t, err)
	assert.Equal(t, "Shipped", order.Status)
	assert.Equal(t, []string{serverOrderID + "=shipped"}, api.updated)

	_, err = source.Get(ctx, "ORD404")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Order not found", apiErr.Message)
}

func TestAdminOrdersOffline(t *testing.T) {
	ctx := context.Background()
	c := newOfflineClient(t)
	require.NoError(t, c.Orders.Place(ctx, serverOrder(models.DeliveryPending)))

	source := c.AdminOrders(ctx)
	assert.Same(t, c.Orders, source)

	order, err := source.UpdateStatus(ctx, "ORD1746869400000", "cancelled")
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", order.Status)
}

func TestOfflineProfile(t *testing.T) {
	ctx := context.Background()
	c := newOfflineClient(t)

	_, err := c.Profile(ctx)
	assert.True(t, IsOffline(err))

	require.NoError(t, c.Session.SetUser(ctx, models.User{UUID: "u1", Name: "Asha", Email: "asha@example.com"}))

	user, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)

	user, err = c.UpdateProfile(ctx, "Asha Rao", "")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", user.Name)
	assert.Equal(t, "asha@example.com", user.Email)

	stored, err := c.Session.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", stored.Name)

	err = c.ChangePassword(ctx, "secret1", "secret2")
	require.Error(t, err)
	assert.Equal(t, "Cannot change password while offline", err.Error())
}

func TestAPIErrorJSON(t *testing.T) {
	c, _ := newOnlineClient(t)

	err := c.ChangePassword(context.Background(), "bad", "secret2")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.False(t, IsOffline(err))

	b, err := json.Marshal(apiErr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":true,"message":"Current password is incorrect"}`, string(b))
}
