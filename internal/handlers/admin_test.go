package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jayjaytrn/grocemate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminCreateProduct(t *testing.T) {
	h, mock := newTestHandler(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM categories WHERE uuid = \$1`).
		WithArgs(catID).
		WillReturnRows(sqlmock.NewRows([]string{"uuid", "name", "created_at", "updated_at"}).
			AddRow(catID, "Bakery", now, now))
	mock.ExpectExec(`INSERT INTO products`).
		WithArgs(sqlmock.AnyArg(), "Sourdough", 12.5, "", catID, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := httptest.NewRecorder()
	h.AdminCreateProduct(rr, jsonRequest(http.MethodPost, "/api/admin/products",
		`{"name":" Sourdough ","price":"12.50","category":"`+catID+`","featured":"true"}`))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	product := decodeBody[models.Product](t, rr)
	assert.Equal(t, 12.5, product.Price)
	assert.True(t, product.Featured)
	require.NotNil(t, product.Category)
	assert.Equal(t, "Bakery", product.Category.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminCreateProductValidation(t *testing.T) {
	h, mock := newTestHandler(t)

	tests := []struct {
		body    string
		message string
	}{
		{`{"price":10,"category":"` + catID + `"}`, "Product name is required"},
		{`{"name":"Bread","category":"` + catID + `"}`, "Price is required"},
		{`{"name":"Bread","price":-1,"category":"` + catID + `"}`, "Price must not be negative"},
		{`{"name":"Bread","price":10}`, "Category is required"},
		{`{"name":"Bread","price":"ten","category":"` + catID + `"}`, "Invalid request body"},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		h.AdminCreateProduct(rr, jsonRequest(http.MethodPost, "/api/admin/products", tt.body))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, tt.message, message(t, rr))
	}

	mock.ExpectQuery(`FROM categories WHERE uuid = \$1`).
		WithArgs(catID).
		WillReturnRows(sqlmock.NewRows([]string{"uuid", "name", "created_at", "updated_at"}))

	rr := httptest.NewRecorder()
	h.AdminCreateProduct(rr, jsonRequest(http.MethodPost, "/api/admin/products",
		`{"name":"Bread","price":10,"category":"`+catID+`"}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Category not found", message(t, rr))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUpdateUserRole(t *testing.T) {
	h, mock := newTestHandler(t)

	rr := httptest.NewRecorder()
	h.AdminUpdateUserRole(rr, withParam(jsonRequest(http.MethodPut, "/api/admin/users/"+userID, `{"role":"owner"}`), "id", userID))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid role", message(t, rr))

	mock.ExpectQuery(`UPDATE users SET role = \$2`).
		WithArgs(userID, "admin", sqlmock.AnyArg()).
		WillReturnRows(userRows("hash", models.RoleAdmin))

	rr = httptest.NewRecorder()
	h.AdminUpdateUserRole(rr, withParam(jsonRequest(http.MethodPut, "/api/admin/users/"+userID, `{"role":"admin"}`), "id", userID))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.RoleAdmin, decodeBody[models.User](t, rr).Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminCreateCategory(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectExec(`INSERT INTO categories`).
		WithArgs(sqlmock.AnyArg(), "Snacks", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := httptest.NewRecorder()
	h.AdminCreateCategory(rr, jsonRequest(http.MethodPost, "/api/admin/categories", `{"name":"Snacks"}`))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	h.AdminCreateCategory(rr, jsonRequest(http.MethodPost, "/api/admin/categories", `{"name":"  "}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminDeleteUser(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectExec(`DELETE FROM users WHERE uuid = \$1`).
		WithArgs(otherID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM users WHERE uuid = \$1`).
		WithArgs(otherID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rr := httptest.NewRecorder()
	req := asUser(withParam(httptest.NewRequest(http.MethodDelete, "/api/admin/users/"+otherID, nil), "id", otherID), userID, models.RoleAdmin)
	h.AdminDeleteUser(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "User deleted successfully", message(t, rr))

	rr = httptest.NewRecorder()
	h.AdminDeleteUser(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found", message(t, rr))

	assert.NoError(t, mock.ExpectationsWereMet())
}
