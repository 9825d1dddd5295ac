package db

import (
	"context"

	"github.com/jayjaytrn/grocemate/models"
)

type ProductFilter struct {
	FeaturedOnly bool
	CategoryID   string
}

type Database interface {
	PutUniqueUserData(ctx context.Context, user models.User) error
	GetUserData(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserProfile(ctx context.Context, id, name, email string) (models.User, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
	UpdateUserAvatar(ctx context.Context, id, avatar string) (models.User, error)
	UpdateUserRole(ctx context.Context, id string, role models.Role) (models.User, error)
	DeleteUser(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (models.Category, error)
	PutCategory(ctx context.Context, category models.Category) error
	UpdateCategory(ctx context.Context, id, name string) (models.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	PutProduct(ctx context.Context, product models.Product) error
	UpdateProduct(ctx context.Context, product models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	MarkFeatured(ctx context.Context, count int) (int64, error)

	PutOrder(ctx context.Context, order models.Order) error
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	GetOrderByID(ctx context.Context, id string) (models.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (models.Order, error)
	UpdateDeliveryStatus(ctx context.Context, id string, status models.DeliveryStatus) (models.Order, error)
	AdvanceDeliveryStatus(ctx context.Context, id string, from, to models.DeliveryStatus) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

var _ Database = (*Manager)(nil)
