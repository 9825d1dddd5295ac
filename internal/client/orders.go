package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/jayjaytrn/grocemate/internal/localcache"
	"github.com/jayjaytrn/grocemate/internal/orders"
	"github.com/jayjaytrn/grocemate/models"
)

// OrderSource is implemented by the admin API and by the device cache,
// so admin screens work the same online and offline.
type OrderSource interface {
	List(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, ref string) (models.Order, error)
	UpdateStatus(ctx context.Context, ref, deliveryStatus string) (models.Order, error)
}

var (
	_ OrderSource = (*localcache.OrderCache)(nil)
	_ OrderSource = (*apiOrders)(nil)
)

// PlaceOrder sends the order to the server, or keeps it on the device
// when the server is down. Items default to the cart contents. The cart
// is cleared after either succeeds.
func (c *Client) PlaceOrder(ctx context.Context, req models.CheckoutRequest) (models.Order, error) {
	if len(req.Items) == 0 && len(req.Products) == 0 {
		items, err := c.Cart.Items(ctx)
		if err != nil {
			return models.Order{}, err
		}
		req.Items = items
	}

	var (
		order models.Order
		err   error
	)
	if c.Health(ctx) {
		err = c.do(ctx, http.MethodPost, "/api/orders", req, &order)
	} else {
		order, err = c.placeOffline(ctx, req)
	}
	if err != nil {
		return models.Order{}, err
	}

	if err = c.Cart.Clear(ctx); err != nil {
		c.Logger.Warnw("failed to clear cart", "error", err)
	}
	return orders.Normalize(order), nil
}

func (c *Client) placeOffline(ctx context.Context, req models.CheckoutRequest) (models.Order, error) {
	order, err := c.Checkout.NewOrder(req, nil)
	if err != nil {
		return models.Order{}, err
	}

	if user, _ := c.Session.User(ctx); user != nil {
		order.User = &models.OrderUser{UUID: user.UUID, Name: user.Name, Email: user.Email}
	}

	if err = c.Orders.Place(ctx, order); err != nil {
		return models.Order{}, err
	}

	c.Logger.Infow("order stored on device", "order", order.OrderNumber)
	return order, nil
}

// MyOrders lists the signed-in user's orders, or the device's orders offline.
func (c *Client) MyOrders(ctx context.Context) ([]models.Order, error) {
	var list []models.Order
	err := c.do(ctx, http.MethodGet, "/api/orders", nil, &list)
	if err == nil {
		return orders.NormalizeAll(list), nil
	}
	if IsOffline(err) {
		return c.Orders.List(ctx)
	}
	return nil, err
}

// AdminOrders picks the API when the server is healthy and the device cache otherwise.
func (c *Client) AdminOrders(ctx context.Context) OrderSource {
	if c.Health(ctx) {
		return &apiOrders{client: c}
	}
	c.Logger.Infow("server unavailable, using cached orders")
	return c.Orders
}

type apiOrders struct {
	client *Client
}

func (a *apiOrders) List(ctx context.Context) ([]models.Order, error) {
	var list []models.Order
	if err := a.client.do(ctx, http.MethodGet, "/api/admin/orders", nil, &list); err != nil {
		return nil, err
	}
	return orders.NormalizeAll(list), nil
}

// Get accepts an order id or an order number.
func (a *apiOrders) Get(ctx context.Context, ref string) (models.Order, error) {
	path := "/api/admin/orders/find/" + url.PathEscape(ref)
	if _, err := uuid.Parse(ref); err == nil {
		path = "/api/admin/orders/" + ref
	}

	var order models.Order
	if err := a.client.do(ctx, http.MethodGet, path, nil, &order); err != nil {
		return order, err
	}
	return orders.Normalize(order), nil
}

func (a *apiOrders) UpdateStatus(ctx context.Context, ref, deliveryStatus string) (models.Order, error) {
	id := ref
	if _, err := uuid.Parse(ref); err != nil {
		order, err := a.Get(ctx, ref)
		if err != nil {
			return order, err
		}
		id = order.UUID
	}

	var order models.Order
	err := a.client.do(ctx, http.MethodPut, "/api/admin/orders/"+id+"/status",
		models.StatusUpdateRequest{DeliveryStatus: deliveryStatus}, &order)
	if err != nil {
		return order, err
	}
	return orders.Normalize(order), nil
}
