package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jayjaytrn/grocemate/internal/db"
)

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Database.ListCategories(r.Context())
	if err != nil {
		h.respondError(w, err, "Category not found")
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) Category(w http.ResponseWriter, r *http.Request) {
	category, err := h.Database.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err, "Category not found")
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// Products lists the catalog. ?featured=true limits it to homepage picks
// and ?category=<id> to one category.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	featured, _ := strconv.ParseBool(query.Get("featured"))

	products, err := h.Database.ListProducts(r.Context(), db.ProductFilter{
		FeaturedOnly: featured,
		CategoryID:   query.Get("category"),
	})
	if err != nil {
		h.respondError(w, err, "Product not found")
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	product, err := h.Database.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err, "Product not found")
		return
	}

	writeJSON(w, http.StatusOK, product)
}
