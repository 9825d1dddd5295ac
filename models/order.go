package models

import (
	"encoding/json"
	"time"
)

type Order struct {
	UUID              string         `json:"id"`
	OrderNumber       string         `json:"orderNumber"`
	User              *OrderUser     `json:"user,omitempty"`
	Items             []OrderItem    `json:"items"`
	Products          []LegacyLine   `json:"products,omitempty"`
	Subtotal          float64        `json:"subtotal"`
	DeliveryFee       float64        `json:"deliveryFee"`
	Total             float64        `json:"total"`
	Status            string         `json:"status"`
	DeliveryStatus    DeliveryStatus `json:"deliveryStatus"`
	DeliveryAddress   Address        `json:"deliveryAddress"`
	PaymentMethod     string         `json:"paymentMethod"`
	OrderNotes        string         `json:"orderNotes,omitempty"`
	EstimatedDelivery *time.Time     `json:"estimatedDelivery,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// OrderItem is a point-in-time copy of a cart line.
type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
}

// LegacyLine is the catalog reference older clients send instead of items.
// Product is nil when the referenced product no longer exists.
type LegacyLine struct {
	ProductID string   `json:"productId,omitempty"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `json:"quantity,omitempty"`
}

type OrderUser struct {
	UUID  string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CartItem struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gte=1"`
	Image    string  `json:"image,omitempty"`
}

// CheckoutRequest is the body of POST /api/orders.
type CheckoutRequest struct {
	OrderNumber     string       `json:"orderNumber,omitempty"`
	Items           []CartItem   `json:"items" validate:"dive"`
	Products        []LegacyLine `json:"products,omitempty"`
	DeliveryAddress Address      `json:"deliveryAddress"`
	PaymentMethod   string       `json:"paymentMethod"`
	OrderNotes      string       `json:"orderNotes,omitempty"`
}

type StatusUpdateRequest struct {
	DeliveryStatus string `json:"deliveryStatus"`
}

// UnmarshalJSON accepts both {"product": "<id>"} from older clients and a
// populated product object.
func (l *LegacyLine) UnmarshalJSON(b []byte) error {
	var raw struct {
		ProductID string          `json:"productId"`
		Product   json.RawMessage `json:"product"`
		Quantity  int             `json:"quantity"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	l.ProductID = raw.ProductID
	l.Quantity = raw.Quantity
	l.Product = nil

	if len(raw.Product) == 0 || string(raw.Product) == "null" {
		return nil
	}
	if raw.Product[0] == '"' {
		return json.Unmarshal(raw.Product, &l.ProductID)
	}

	var p Product
	if err := json.Unmarshal(raw.Product, &p); err != nil {
		return err
	}
	l.Product = &p
	if l.ProductID == "" {
		l.ProductID = p.UUID
	}
	return nil
}
