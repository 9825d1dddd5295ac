package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jayjaytrn/grocemate/internal/db"
	"github.com/jayjaytrn/grocemate/internal/orders"
	"github.com/jayjaytrn/grocemate/models"
)

// CreateOrder places an order for the authenticated user.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Checkout.Validate(req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.Database.GetUserByID(r.Context(), currentUser(r))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeMessage(w, http.StatusUnauthorized, "User not found")
			return
		}
		h.respondError(w, err, "User not found")
		return
	}

	lookup := func(id string) (*models.Product, error) {
		p, err := h.Database.GetProduct(r.Context(), id)
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &p, nil
	}

	order, err := h.Checkout.NewOrder(req, lookup)
	if err != nil {
		h.respondError(w, err, "Product not found")
		return
	}
	order.User = &models.OrderUser{UUID: user.UUID, Name: user.Name, Email: user.Email}

	if err = h.Database.PutOrder(r.Context(), order); err != nil {
		if errors.Is(err, db.ErrConflict) {
			writeMessage(w, http.StatusConflict, "Order number already exists")
			return
		}
		h.respondError(w, err, "Order not found")
		return
	}

	h.Logger.Infow("order placed", "order", order.OrderNumber, "uuid", user.UUID, "total", order.Total)
	if h.Fulfillment != nil {
		h.Fulfillment.Enqueue(order.UUID)
	}

	writeJSON(w, http.StatusCreated, orders.Normalize(order))
}

func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.Database.ListOrdersByUser(r.Context(), currentUser(r))
	if err != nil {
		h.respondError(w, err, "Order not found")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// MyOrder answers 404 for orders of other users.
func (h *Handler) MyOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Database.GetOrderByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err, "Order not found")
		return
	}

	if order.User == nil || order.User.UUID != currentUser(r) {
		writeMessage(w, http.StatusNotFound, "Order not found")
		return
	}

	writeJSON(w, http.StatusOK, order)
}
