package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jayjaytrn/grocemate/internal/orders"
	"github.com/jayjaytrn/grocemate/models"
)

func (h *Handler) AdminOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.Database.ListOrders(r.Context())
	if err != nil {
		h.respondError(w, err, "Order not found")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) AdminOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Database.GetOrderByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err, "Order not found")
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) AdminFindOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Database.GetOrderByNumber(r.Context(), chi.URLParam(r, "orderNumber"))
	if err != nil {
		h.respondError(w, err, "Order not found")
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// AdminUpdateOrderStatus validates the status before touching the store,
// so a bad value never changes the order.
func (h *Handler) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req models.StatusUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	status, err := orders.ParseDeliveryStatus(req.DeliveryStatus)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.Database.UpdateDeliveryStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		h.respondError(w, err, "Order not found")
		return
	}

	h.Logger.Infow("delivery status updated", "order", order.OrderNumber, "status", status, "by", currentUser(r))
	writeJSON(w, http.StatusOK, order)
}
