package db

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jayjaytrn/grocemate/internal/orders"
	"github.com/jayjaytrn/grocemate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOrderID  = "3c7a4b1e-2d9f-4e8a-9b6c-5d4e3f2a1b00"
	testOrder2ID = "3c7a4b1e-2d9f-4e8a-9b6c-5d4e3f2a1b01"
	addressJSON  = `{"fullName":"Asha Rao","phone":"9876543210","addressLine1":"12 MG Road","city":"Bengaluru","pincode":"560001"}`
)

var (
	orderRowColumns = []string{
		"uuid", "order_number", "user_uuid", "name", "email", "subtotal", "delivery_fee", "total",
		"delivery_status", "delivery_address", "payment_method", "order_notes", "estimated_delivery",
		"created_at", "updated_at",
	}
	itemRowColumns   = []string{"order_uuid", "item_id", "name", "quantity", "price", "image"}
	legacyRowColumns = []string{"order_uuid", "product_uuid", "quantity", "p_uuid", "p_name", "p_price", "p_image"}
)

func TestPutOrder(t *testing.T) {
	m, mock := newMockManager(t)
	now := time.Now().UTC()
	eta := now.Add(24 * time.Hour)

	order := models.Order{
		UUID:              testOrderID,
		OrderNumber:       "ORD1746869400000",
		User:              &models.OrderUser{UUID: testUserID},
		Items:             []models.OrderItem{{ID: "p1", Name: "Apples", Quantity: 2, Price: 80}, {ID: "p2", Name: "Milk", Quantity: 1, Price: 50}},
		Subtotal:          210,
		DeliveryFee:       40,
		Total:             250,
		DeliveryStatus:    models.DeliveryPending,
		PaymentMethod:     "Cash on Delivery",
		EstimatedDelivery: &eta,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(testOrderID, "ORD1746869400000", testUserID, 210.0, 40.0, 250.0, "pending",
			sqlmock.AnyArg(), "Cash on Delivery", "", sqlmock.AnyArg(), now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(testOrderID, 0, "p1", "Apples", 2, 80.0, "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(testOrderID, 1, "p2", "Milk", 1, 50.0, "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, m.PutOrder(context.Background(), order))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutOrderRollsBackOnItemFailure(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_items`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := m.PutOrder(context.Background(), models.Order{
		UUID:  testOrderID,
		Items: []models.OrderItem{{ID: "p1", Name: "Apples", Quantity: 1}},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersNormalizesAndKeepsOrder(t *testing.T) {
	m, mock := newMockManager(t)
	newer := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	mock.ExpectQuery(`FROM orders o\s+LEFT JOIN users u ON u.uuid = o.user_uuid\s+WHERE TRUE\s+ORDER BY o.created_at DESC`).
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(testOrderID, "ORD2", testUserID, "Asha", "asha@example.com", 210.0, 40.0, 250.0,
				"shipped", addressJSON, "Cash on Delivery", "", nil, newer, newer).
			AddRow(testOrder2ID, "ORD1", nil, nil, nil, 450.0, 40.0, 490.0,
				"pending", addressJSON, "Online Payment", "leave at door", nil, older, older))
	mock.ExpectQuery(`FROM order_items i\s+JOIN orders o`).
		WillReturnRows(sqlmock.NewRows(itemRowColumns).
			AddRow(testOrderID, "p1", "Apples", 2, 80.0, "apples.png").
			AddRow(testOrderID, "p2", "Milk", 1, 50.0, ""))
	mock.ExpectQuery(`FROM order_products l\s+JOIN orders o`).
		WillReturnRows(sqlmock.NewRows(legacyRowColumns).
			AddRow(testOrder2ID, testProductID, 2, testProductID, "Oil", 150.0, "oil.png").
			AddRow(testOrder2ID, "", nil, nil, nil, nil, nil))

	list, err := m.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	first := list[0]
	assert.Equal(t, "ORD2", first.OrderNumber)
	assert.Equal(t, "Shipped", first.Status)
	require.NotNil(t, first.User)
	assert.Equal(t, "Asha", first.User.Name)
	assert.Equal(t, "Bengaluru", first.DeliveryAddress.City)
	assert.Len(t, first.Items, 2)
	assert.Nil(t, first.Products)

	second := list[1]
	assert.Nil(t, second.User)
	assert.Equal(t, "Pending", second.Status)
	require.Len(t, second.Items, 2)
	assert.Equal(t, models.OrderItem{ID: testProductID, Name: "Oil", Quantity: 2, Price: 150, Image: "oil.png"}, second.Items[0])
	assert.Equal(t, orders.UnknownProductName, second.Items[1].Name)
	assert.Equal(t, 1, second.Items[1].Quantity)
	assert.Equal(t, 0.0, second.Items[1].Price)
	assert.Nil(t, second.Products)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByNumberNotFound(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectQuery(`WHERE o.order_number = \$1`).
		WithArgs("ORD404").
		WillReturnRows(sqlmock.NewRows(orderRowColumns))

	_, err := m.GetOrderByNumber(context.Background(), "ORD404")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDeliveryStatus(t *testing.T) {
	m, mock := newMockManager(t)
	now := time.Now().UTC()

	mock.ExpectExec(`UPDATE orders SET delivery_status = \$2`).
		WithArgs(testOrderID, "delivered", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`WHERE o.uuid = \$1`).
		WithArgs(testOrderID).
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(testOrderID, "ORD2", nil, nil, nil, 210.0, 40.0, 250.0,
				"delivered", addressJSON, "Cash on Delivery", "", now, now, now))
	mock.ExpectQuery(`FROM order_items`).
		WithArgs(testOrderID).
		WillReturnRows(sqlmock.NewRows(itemRowColumns).AddRow(testOrderID, "p1", "Apples", 2, 80.0, ""))
	mock.ExpectQuery(`FROM order_products`).
		WithArgs(testOrderID).
		WillReturnRows(sqlmock.NewRows(legacyRowColumns))

	order, err := m.UpdateDeliveryStatus(context.Background(), testOrderID, models.DeliveryDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryDelivered, order.DeliveryStatus)
	assert.Equal(t, "Delivered", order.Status)
	require.NotNil(t, order.EstimatedDelivery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDeliveryStatusMissingOrder(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectExec(`UPDATE orders SET delivery_status = \$2`).
		WithArgs(testOrderID, "shipped", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := m.UpdateDeliveryStatus(context.Background(), testOrderID, models.DeliveryShipped)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.UpdateDeliveryStatus(context.Background(), "ORD1", models.DeliveryShipped)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceDeliveryStatus(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectExec(`WHERE uuid = \$1 AND delivery_status = \$2`).
		WithArgs(testOrderID, "pending", "processing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	moved, err := m.AdvanceDeliveryStatus(context.Background(), testOrderID, models.DeliveryPending, models.DeliveryProcessing)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.NoError(t, mock.ExpectationsWereMet())
}
