package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jayjaytrn/grocemate/models"
)

const categoryColumns = `uuid, name, created_at, updated_at`

func scanCategory(row scanner) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.UUID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (m *Manager) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := m.Db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, storeError("failed to list categories", err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, storeError("failed to scan category", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, storeError("failed to list categories", err)
	}

	return categories, nil
}

func (m *Manager) GetCategory(ctx context.Context, id string) (models.Category, error) {
	if !validID(id) {
		return models.Category{}, fmt.Errorf("category %q: %w", id, ErrNotFound)
	}

	c, err := scanCategory(m.Db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE uuid = $1`, id))
	if err != nil {
		return c, storeError("failed to get category", err)
	}

	return c, nil
}

func (m *Manager) PutCategory(ctx context.Context, c models.Category) error {
	_, err := m.Db.ExecContext(ctx, `
		INSERT INTO categories (uuid, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`, c.UUID, c.Name, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return storeError("failed to insert category", err)
	}

	return nil
}

func (m *Manager) UpdateCategory(ctx context.Context, id, name string) (models.Category, error) {
	if !validID(id) {
		return models.Category{}, fmt.Errorf("category %q: %w", id, ErrNotFound)
	}

	c, err := scanCategory(m.Db.QueryRowContext(ctx, `
		UPDATE categories SET name = $2, updated_at = $3
		WHERE uuid = $1
		RETURNING `+categoryColumns,
		id, name, time.Now().UTC()))
	if err != nil {
		return c, storeError("failed to update category", err)
	}

	return c, nil
}

func (m *Manager) DeleteCategory(ctx context.Context, id string) error {
	return m.deleteByID(ctx, "categories", id)
}

const productSelect = `
	SELECT p.uuid, p.name, p.price, p.image, COALESCE(p.category_uuid::text, ''), p.featured,
	       p.created_at, p.updated_at, c.name, c.created_at, c.updated_at
	FROM products p
	LEFT JOIN categories c ON c.uuid = p.category_uuid`

func scanProduct(row scanner) (models.Product, error) {
	var (
		p            models.Product
		categoryName sql.NullString
		catCreated   sql.NullTime
		catUpdated   sql.NullTime
	)

	err := row.Scan(&p.UUID, &p.Name, &p.Price, &p.Image, &p.CategoryID, &p.Featured,
		&p.CreatedAt, &p.UpdatedAt, &categoryName, &catCreated, &catUpdated)
	if err != nil {
		return p, err
	}

	if p.CategoryID != "" && categoryName.Valid {
		p.Category = &models.Category{
			UUID:      p.CategoryID,
			Name:      categoryName.String,
			CreatedAt: catCreated.Time,
			UpdatedAt: catUpdated.Time,
		}
	}

	return p, nil
}

func (m *Manager) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.FeaturedOnly {
		conditions = append(conditions, "p.featured")
	}
	if filter.CategoryID != "" {
		if !validID(filter.CategoryID) {
			return []models.Product{}, nil
		}
		args = append(args, filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("p.category_uuid = $%d", len(args)))
	}

	query := productSelect
	if len(conditions) > 0 {
		query += "\n\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\tORDER BY p.created_at DESC"

	rows, err := m.Db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("failed to list products", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, storeError("failed to scan product", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, storeError("failed to list products", err)
	}

	return products, nil
}

func (m *Manager) GetProduct(ctx context.Context, id string) (models.Product, error) {
	if !validID(id) {
		return models.Product{}, fmt.Errorf("product %q: %w", id, ErrNotFound)
	}

	p, err := scanProduct(m.Db.QueryRowContext(ctx, productSelect+"\n\tWHERE p.uuid = $1", id))
	if err != nil {
		return p, storeError("failed to get product", err)
	}

	return p, nil
}

func (m *Manager) PutProduct(ctx context.Context, p models.Product) error {
	_, err := m.Db.ExecContext(ctx, `
		INSERT INTO products (uuid, name, price, image, category_uuid, featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6, $7, $8)
	`, p.UUID, p.Name, p.Price, p.Image, p.CategoryID, p.Featured, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return storeError("failed to insert product", err)
	}

	return nil
}

// UpdateProduct replaces every editable field of the product.
func (m *Manager) UpdateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if !validID(p.UUID) {
		return models.Product{}, fmt.Errorf("product %q: %w", p.UUID, ErrNotFound)
	}

	res, err := m.Db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, price = $3, image = $4, category_uuid = NULLIF($5, '')::uuid,
		    featured = $6, updated_at = $7
		WHERE uuid = $1
	`, p.UUID, p.Name, p.Price, p.Image, p.CategoryID, p.Featured, time.Now().UTC())
	if err != nil {
		return models.Product{}, storeError("failed to update product", err)
	}
	if err = checkAffected("failed to update product", res); err != nil {
		return models.Product{}, err
	}

	return m.GetProduct(ctx, p.UUID)
}

func (m *Manager) DeleteProduct(ctx context.Context, id string) error {
	return m.deleteByID(ctx, "products", id)
}

// MarkFeatured flags the oldest count products for the homepage.
func (m *Manager) MarkFeatured(ctx context.Context, count int) (int64, error) {
	res, err := m.Db.ExecContext(ctx, `
		UPDATE products SET featured = TRUE, updated_at = $2
		WHERE uuid IN (SELECT uuid FROM products ORDER BY created_at LIMIT $1)
	`, count, time.Now().UTC())
	if err != nil {
		return 0, storeError("failed to mark featured products", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeError("failed to mark featured products", err)
	}
	return n, nil
}
