package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jayjaytrn/grocemate/internal/db"
	"github.com/jayjaytrn/grocemate/models"
	"github.com/shopspring/decimal"
)

type categoryRequest struct {
	Name string `json:"name"`
}

// flexPrice accepts 12.5 as well as "12.50" from form-driven admin clients.
type flexPrice struct {
	Value decimal.Decimal
	Set   bool
}

func (p *flexPrice) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}

	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid price %q", raw)
	}
	p.Value = d
	p.Set = true
	return nil
}

// flexBool accepts JSON booleans, "true"/"false" strings and 0/1.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(b)), `"`)
	switch strings.ToLower(raw) {
	case "", "null":
		*f = false
		return nil
	case "on", "yes":
		*f = true
		return nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid boolean %q", raw)
	}
	*f = flexBool(v)
	return nil
}

type productRequest struct {
	Name     string    `json:"name"`
	Price    flexPrice `json:"price"`
	Image    string    `json:"image"`
	Category string    `json:"category"`
	Featured flexBool  `json:"featured"`
}

func (h *Handler) AdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeMessage(w, http.StatusBadRequest, "Category name is required")
		return
	}

	now := time.Now().UTC()
	category := models.Category{UUID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := h.Database.PutCategory(r.Context(), category); err != nil {
		if errors.Is(err, db.ErrConflict) {
			writeMessage(w, http.StatusConflict, "Category already exists")
			return
		}
		h.respondError(w, err, "Category not found")
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

func (h *Handler) AdminUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeMessage(w, http.StatusBadRequest, "Category name is required")
		return
	}

	category, err := h.Database.UpdateCategory(r.Context(), chi.URLParam(r, "id"), name)
	if err != nil {
		if errors.Is(err, db.ErrConflict) {
			writeMessage(w, http.StatusConflict, "Category already exists")
			return
		}
		h.respondError(w, err, "Category not found")
		return
	}

	writeJSON(w, http.StatusOK, category)
}

func (h *Handler) AdminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.Database.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err, "Category not found")
		return
	}

	writeMessage(w, http.StatusOK, "Category deleted successfully")
}

func (h *Handler) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.productFromRequest(w, r)
	if !ok {
		return
	}

	now := time.Now().UTC()
	product.UUID = uuid.New().String()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := h.Database.PutProduct(r.Context(), product); err != nil {
		h.respondError(w, err, "Product not found")
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.productFromRequest(w, r)
	if !ok {
		return
	}
	product.UUID = chi.URLParam(r, "id")

	updated, err := h.Database.UpdateProduct(r.Context(), product)
	if err != nil {
		h.respondError(w, err, "Product not found")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Database.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err, "Product not found")
		return
	}

	writeMessage(w, http.StatusOK, "Product deleted successfully")
}

// productFromRequest decodes and checks a product body, resolving its
// category. It writes the error response itself when it fails.
func (h *Handler) productFromRequest(w http.ResponseWriter, r *http.Request) (models.Product, bool) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return models.Product{}, false
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	switch {
	case req.Name == "":
		writeMessage(w, http.StatusBadRequest, "Product name is required")
		return models.Product{}, false
	case !req.Price.Set:
		writeMessage(w, http.StatusBadRequest, "Price is required")
		return models.Product{}, false
	case req.Price.Value.IsNegative():
		writeMessage(w, http.StatusBadRequest, "Price must not be negative")
		return models.Product{}, false
	case req.Category == "":
		writeMessage(w, http.StatusBadRequest, "Category is required")
		return models.Product{}, false
	}

	category, err := h.Database.GetCategory(r.Context(), req.Category)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeMessage(w, http.StatusBadRequest, "Category not found")
			return models.Product{}, false
		}
		h.respondError(w, err, "Category not found")
		return models.Product{}, false
	}

	return models.Product{
		Name:       req.Name,
		Price:      req.Price.Value.Round(2).InexactFloat64(),
		Image:      strings.TrimSpace(req.Image),
		CategoryID: category.UUID,
		Category:   &category,
		Featured:   bool(req.Featured),
	}, true
}
