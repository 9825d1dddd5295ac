package orders

import (
	"github.com/jayjaytrn/grocemate/models"
	"github.com/shopspring/decimal"
)

const (
	DefaultDeliveryFee           = 40
	DefaultFreeDeliveryThreshold = 500
)

type Pricing struct {
	DeliveryFee           float64
	FreeDeliveryThreshold float64
}

func DefaultPricing() Pricing {
	return Pricing{
		DeliveryFee:           DefaultDeliveryFee,
		FreeDeliveryThreshold: DefaultFreeDeliveryThreshold,
	}
}

type Quote struct {
	Subtotal    float64
	DeliveryFee float64
	Total       float64
}

// Quote prices the lines. Delivery is free once the subtotal is strictly
// above the threshold.
func (p Pricing) Quote(lines []models.OrderItem) Quote {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	subtotal = subtotal.Round(2)

	fee := decimal.NewFromFloat(p.DeliveryFee)
	if subtotal.GreaterThan(decimal.NewFromFloat(p.FreeDeliveryThreshold)) {
		fee = decimal.Zero
	}

	return Quote{
		Subtotal:    subtotal.InexactFloat64(),
		DeliveryFee: fee.InexactFloat64(),
		Total:       subtotal.Add(fee).InexactFloat64(),
	}
}
