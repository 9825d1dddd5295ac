package orders

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jayjaytrn/grocemate/models"
)

const (
	PaymentCashOnDelivery = "Cash on Delivery"
	PaymentOnline         = "Online Payment"

	estimatedDeliveryAfter = 24 * time.Hour
)

// ProductLookup resolves a catalog reference for orders placed by older
// clients that send products instead of an item snapshot. It must return
// (nil, nil) when the product does not exist.
type ProductLookup func(id string) (*models.Product, error)

var addressMessages = map[string]string{
	"fullName":     "Full name is required",
	"phone":        "Valid phone number is required",
	"email":        "Valid email is required",
	"addressLine1": "Address is required",
	"city":         "City is required",
	"pincode":      "Valid pincode is required",
}

type Checkout struct {
	Pricing Pricing
	Numbers *NumberGenerator
	Now     func() time.Time

	validate *validator.Validate
}

func NewCheckout(pricing Pricing) *Checkout {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Checkout{
		Pricing:  pricing,
		Numbers:  NewNumberGenerator(time.Now),
		Now:      time.Now,
		validate: v,
	}
}

// Validate checks the cart and the delivery address.
func (c *Checkout) Validate(req models.CheckoutRequest) error {
	if len(req.Items) == 0 && len(req.Products) == 0 {
		return invalid("Cart is empty")
	}

	req.DeliveryAddress = trimAddress(req.DeliveryAddress)
	if err := c.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			return invalid("Invalid order: %v", err)
		}
		fe := fieldErrs[0]
		if msg, ok := addressMessages[fe.Field()]; ok && strings.Contains(fe.Namespace(), "deliveryAddress") {
			return invalid("%s", msg)
		}
		return invalid("Invalid value for %s", strings.TrimPrefix(fe.Namespace(), "CheckoutRequest."))
	}

	for i, line := range req.Products {
		if line.ProductID == "" {
			return invalid("Invalid value for products[%d].product", i)
		}
		if line.Quantity < 0 {
			return invalid("Invalid value for products[%d].quantity", i)
		}
	}

	return nil
}

// NewOrder validates req and builds a pending order ready to persist.
// The item snapshot is copied, so later catalog changes do not affect it.
func (c *Checkout) NewOrder(req models.CheckoutRequest, lookup ProductLookup) (models.Order, error) {
	if err := c.Validate(req); err != nil {
		return models.Order{}, err
	}

	now := c.Now()
	order := models.Order{
		UUID:            uuid.NewString(),
		OrderNumber:     strings.TrimSpace(req.OrderNumber),
		DeliveryAddress: trimAddress(req.DeliveryAddress),
		PaymentMethod:   PaymentLabel(req.PaymentMethod),
		OrderNotes:      strings.TrimSpace(req.OrderNotes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if order.OrderNumber == "" {
		order.OrderNumber = c.Numbers.Next()
	}
	eta := now.Add(estimatedDeliveryAfter)
	order.EstimatedDelivery = &eta
	ApplyDeliveryStatus(&order, models.DeliveryPending, now)

	var priced []models.OrderItem
	if len(req.Items) > 0 {
		order.Items = make([]models.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			order.Items = append(order.Items, models.OrderItem{
				ID:       item.ID,
				Name:     item.Name,
				Quantity: item.Quantity,
				Price:    item.Price,
				Image:    item.Image,
			})
		}
		priced = order.Items
	} else {
		if lookup == nil {
			return models.Order{}, invalid("Products cannot be priced offline")
		}
		order.Items = []models.OrderItem{}
		for _, line := range req.Products {
			product, err := lookup(line.ProductID)
			if err != nil {
				return models.Order{}, err
			}
			if product == nil {
				return models.Order{}, invalid("Product %s not found", line.ProductID)
			}
			quantity := line.Quantity
			if quantity == 0 {
				quantity = 1
			}
			order.Products = append(order.Products, models.LegacyLine{
				ProductID: product.UUID,
				Product:   product,
				Quantity:  quantity,
			})
			priced = append(priced, models.OrderItem{Price: product.Price, Quantity: quantity})
		}
	}

	quote := c.Pricing.Quote(priced)
	order.Subtotal = quote.Subtotal
	order.DeliveryFee = quote.DeliveryFee
	order.Total = quote.Total

	return order, nil
}

// PaymentLabel turns the checkout choice into the label stored on the order.
func PaymentLabel(method string) string {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "", "cod":
		return PaymentCashOnDelivery
	case "online":
		return PaymentOnline
	default:
		return strings.TrimSpace(method)
	}
}

func trimAddress(a models.Address) models.Address {
	return models.Address{
		FullName:     strings.TrimSpace(a.FullName),
		Phone:        strings.TrimSpace(a.Phone),
		Email:        strings.TrimSpace(a.Email),
		AddressLine1: strings.TrimSpace(a.AddressLine1),
		AddressLine2: strings.TrimSpace(a.AddressLine2),
		City:         strings.TrimSpace(a.City),
		State:        strings.TrimSpace(a.State),
		Pincode:      strings.TrimSpace(a.Pincode),
	}
}
