package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jayjaytrn/grocemate/models"
)

func (c *Client) Products(ctx context.Context, featured bool, categoryID string) ([]models.Product, error) {
	query := url.Values{}
	if featured {
		query.Set("featured", "true")
	}
	if categoryID != "" {
		query.Set("category", categoryID)
	}

	path := "/api/products"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var products []models.Product
	err := c.do(ctx, http.MethodGet, path, nil, &products)
	return products, err
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories)
	return categories, err
}
