package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jayjaytrn/grocemate/config"
	"github.com/jayjaytrn/grocemate/internal/db"
	"github.com/jayjaytrn/grocemate/internal/fulfillment"
	"github.com/jayjaytrn/grocemate/internal/middleware"
	"github.com/jayjaytrn/grocemate/internal/orders"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

type Handler struct {
	Database    db.Database
	Config      *config.Config
	Logger      *zap.SugaredLogger
	Checkout    *orders.Checkout
	Fulfillment *fulfillment.Manager
}

func NewHandler(database db.Database, cfg *config.Config, logger *zap.SugaredLogger, fm *fulfillment.Manager) *Handler {
	return &Handler{
		Database: database,
		Config:   cfg,
		Logger:   logger,
		Checkout: orders.NewCheckout(orders.Pricing{
			DeliveryFee:           cfg.DeliveryFee,
			FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
		}),
		Fulfillment: fm,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Health answers GET and HEAD. The store is pinged so clients fall back
// to offline mode when the server cannot reach it.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "OK", Timestamp: time.Now().UTC()}
	status := http.StatusOK
	if err := h.Database.Ping(ctx); err != nil {
		h.Logger.Warnw("database ping failed", "error", err)
		resp.Status = "UNAVAILABLE"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// respondError maps store and validation errors to a response. Anything
// unexpected is logged and reported as a generic server error.
func (h *Handler) respondError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, orders.ErrValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, db.ErrNotFound):
		writeMessage(w, http.StatusNotFound, notFound)
	case errors.Is(err, db.ErrConflict):
		writeMessage(w, http.StatusConflict, "Resource already exists")
	case errors.Is(err, db.ErrInvalidReference):
		writeMessage(w, http.StatusBadRequest, "Referenced record does not exist")
	default:
		h.Logger.Errorw("request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
	}
}

// validationMessage returns the message for the first failing field.
func validationMessage(err error, messages map[string]string) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if msg, ok := messages[fieldErrs[0].Field()]; ok {
			return msg
		}
		return "Invalid value for " + fieldErrs[0].Field()
	}
	return "Invalid request"
}

func currentUser(r *http.Request) string {
	return r.Header.Get(middleware.HeaderUUID)
}
