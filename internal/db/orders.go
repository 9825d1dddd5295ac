package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jayjaytrn/grocemate/internal/orders"
	"github.com/jayjaytrn/grocemate/models"
)

func (m *Manager) PutOrder(ctx context.Context, order models.Order) error {
	var userID any
	if order.User != nil && order.User.UUID != "" {
		userID = order.User.UUID
	}

	return m.execTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO orders (uuid, order_number, user_uuid, subtotal, delivery_fee, total,
			                    delivery_status, delivery_address, payment_method, order_notes,
			                    estimated_delivery, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`, order.UUID, order.OrderNumber, userID, order.Subtotal, order.DeliveryFee, order.Total,
			string(order.DeliveryStatus), order.DeliveryAddress, order.PaymentMethod, order.OrderNotes,
			order.EstimatedDelivery, order.CreatedAt, order.UpdatedAt)
		if err != nil {
			return storeError("failed to insert order", err)
		}

		for i, item := range order.Items {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO order_items (order_uuid, position, item_id, name, quantity, price, image)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, order.UUID, i, item.ID, item.Name, item.Quantity, item.Price, item.Image)
			if err != nil {
				return storeError("failed to insert order item", err)
			}
		}

		for i, line := range order.Products {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO order_products (order_uuid, position, product_uuid, quantity)
				VALUES ($1, $2, $3, $4)
			`, order.UUID, i, line.ProductID, line.Quantity)
			if err != nil {
				return storeError("failed to insert order product", err)
			}
		}

		return nil
	})
}

func (m *Manager) ListOrders(ctx context.Context) ([]models.Order, error) {
	return m.selectOrders(ctx, "TRUE")
}

func (m *Manager) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	if !validID(userID) {
		return []models.Order{}, nil
	}
	return m.selectOrders(ctx, "o.user_uuid = $1", userID)
}

func (m *Manager) GetOrderByID(ctx context.Context, id string) (models.Order, error) {
	if !validID(id) {
		return models.Order{}, fmt.Errorf("order %q: %w", id, ErrNotFound)
	}
	return m.selectOne(ctx, "o.uuid = $1", id)
}

func (m *Manager) GetOrderByNumber(ctx context.Context, orderNumber string) (models.Order, error) {
	return m.selectOne(ctx, "o.order_number = $1", orderNumber)
}

// UpdateDeliveryStatus stores the new status and returns the order as read back.
// The display label is derived on read and never stored.
func (m *Manager) UpdateDeliveryStatus(ctx context.Context, id string, status models.DeliveryStatus) (models.Order, error) {
	if !validID(id) {
		return models.Order{}, fmt.Errorf("order %q: %w", id, ErrNotFound)
	}

	res, err := m.Db.ExecContext(ctx, `
		UPDATE orders SET delivery_status = $2, updated_at = $3 WHERE uuid = $1
	`, id, string(status), time.Now().UTC())
	if err != nil {
		return models.Order{}, storeError("failed to update delivery status", err)
	}
	if err = checkAffected("failed to update delivery status", res); err != nil {
		return models.Order{}, err
	}

	return m.GetOrderByID(ctx, id)
}

// AdvanceDeliveryStatus moves the order to `to` only while it is still in `from`.
func (m *Manager) AdvanceDeliveryStatus(ctx context.Context, id string, from, to models.DeliveryStatus) (bool, error) {
	if !validID(id) {
		return false, fmt.Errorf("order %q: %w", id, ErrNotFound)
	}

	res, err := m.Db.ExecContext(ctx, `
		UPDATE orders SET delivery_status = $3, updated_at = $4
		WHERE uuid = $1 AND delivery_status = $2
	`, id, string(from), string(to), time.Now().UTC())
	if err != nil {
		return false, storeError("failed to advance delivery status", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, storeError("failed to advance delivery status", err)
	}
	return n > 0, nil
}

func (m *Manager) selectOne(ctx context.Context, where string, arg any) (models.Order, error) {
	list, err := m.selectOrders(ctx, where, arg)
	if err != nil {
		return models.Order{}, err
	}
	if len(list) == 0 {
		return models.Order{}, fmt.Errorf("order %v: %w", arg, ErrNotFound)
	}
	return list[0], nil
}

// selectOrders loads orders matching where together with their lines,
// newest first, and normalizes them. where is a fixed fragment over alias o.
func (m *Manager) selectOrders(ctx context.Context, where string, args ...any) ([]models.Order, error) {
	rows, err := m.Db.QueryContext(ctx, `
		SELECT o.uuid, o.order_number, o.user_uuid, u.name, u.email,
		       o.subtotal, o.delivery_fee, o.total, o.delivery_status, o.delivery_address,
		       o.payment_method, o.order_notes, o.estimated_delivery, o.created_at, o.updated_at
		FROM orders o
		LEFT JOIN users u ON u.uuid = o.user_uuid
		WHERE `+where+`
		ORDER BY o.created_at DESC`, args...)
	if err != nil {
		return nil, storeError("failed to get orders", err)
	}
	defer rows.Close()

	list := make([]models.Order, 0)
	index := make(map[string]int)
	for rows.Next() {
		var (
			order     models.Order
			userID    sql.NullString
			userName  sql.NullString
			userEmail sql.NullString
			status    string
			eta       sql.NullTime
		)
		err = rows.Scan(&order.UUID, &order.OrderNumber, &userID, &userName, &userEmail,
			&order.Subtotal, &order.DeliveryFee, &order.Total, &status, &order.DeliveryAddress,
			&order.PaymentMethod, &order.OrderNotes, &eta, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, storeError("failed to scan order", err)
		}

		order.DeliveryStatus = models.DeliveryStatus(status)
		if userID.Valid {
			order.User = &models.OrderUser{UUID: userID.String, Name: userName.String, Email: userEmail.String}
		}
		if eta.Valid {
			t := eta.Time
			order.EstimatedDelivery = &t
		}

		index[order.UUID] = len(list)
		list = append(list, order)
	}
	if err = rows.Err(); err != nil {
		return nil, storeError("failed to get orders", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	if err = m.attachItems(ctx, list, index, where, args); err != nil {
		return nil, err
	}
	if err = m.attachLegacyProducts(ctx, list, index, where, args); err != nil {
		return nil, err
	}

	return orders.NormalizeAll(list), nil
}

func (m *Manager) attachItems(ctx context.Context, list []models.Order, index map[string]int, where string, args []any) error {
	rows, err := m.Db.QueryContext(ctx, `
		SELECT i.order_uuid, i.item_id, i.name, i.quantity, i.price, i.image
		FROM order_items i
		JOIN orders o ON o.uuid = i.order_uuid
		WHERE `+where+`
		ORDER BY i.order_uuid, i.position`, args...)
	if err != nil {
		return storeError("failed to get order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			item    models.OrderItem
		)
		if err = rows.Scan(&orderID, &item.ID, &item.Name, &item.Quantity, &item.Price, &item.Image); err != nil {
			return storeError("failed to scan order item", err)
		}
		if i, ok := index[orderID]; ok {
			list[i].Items = append(list[i].Items, item)
		}
	}

	if err = rows.Err(); err != nil {
		return storeError("failed to get order items", err)
	}
	return nil
}

// attachLegacyProducts loads catalog references of orders placed without an
// item snapshot. A product deleted since then comes back as a nil Product.
func (m *Manager) attachLegacyProducts(ctx context.Context, list []models.Order, index map[string]int, where string, args []any) error {
	rows, err := m.Db.QueryContext(ctx, `
		SELECT l.order_uuid, COALESCE(l.product_uuid::text, ''), l.quantity,
		       p.uuid, p.name, p.price, p.image
		FROM order_products l
		JOIN orders o ON o.uuid = l.order_uuid
		LEFT JOIN products p ON p.uuid = l.product_uuid
		WHERE `+where+`
		ORDER BY l.order_uuid, l.position`, args...)
	if err != nil {
		return storeError("failed to get order products", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID  string
			line     models.LegacyLine
			quantity sql.NullInt64
			pID      sql.NullString
			pName    sql.NullString
			pPrice   sql.NullFloat64
			pImage   sql.NullString
		)
		if err = rows.Scan(&orderID, &line.ProductID, &quantity, &pID, &pName, &pPrice, &pImage); err != nil {
			return storeError("failed to scan order product", err)
		}

		line.Quantity = int(quantity.Int64)
		if pID.Valid {
			line.Product = &models.Product{
				UUID:  pID.String,
				Name:  pName.String,
				Price: pPrice.Float64,
				Image: pImage.String,
			}
		}
		if i, ok := index[orderID]; ok {
			list[i].Products = append(list[i].Products, line)
		}
	}

	if err = rows.Err(); err != nil {
		return storeError("failed to get order products", err)
	}
	return nil
}
