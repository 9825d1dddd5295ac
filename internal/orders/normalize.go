package orders

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/jayjaytrn/grocemate/models"
)

const UnknownProductName = "Unknown Product"

// Normalize resolves the stored item representation into the canonical
// items list and re-derives the display status. Normalizing an already
// normalized order returns it unchanged.
func Normalize(order models.Order) models.Order {
	if len(order.Items) == 0 {
		order.Items = itemsFromLegacy(orderKey(order), order.Products)
	}
	order.Products = nil

	order.DeliveryStatus = reconcileStatus(order.DeliveryStatus, order.Status)
	order.Status = order.DeliveryStatus.Display()

	return order
}

func NormalizeAll(list []models.Order) []models.Order {
	out := make([]models.Order, 0, len(list))
	for _, o := range list {
		out = append(out, Normalize(o))
	}
	return out
}

func orderKey(order models.Order) string {
	if order.UUID != "" {
		return order.UUID
	}
	return order.OrderNumber
}

// legacyItemID derives a stable id for a line whose product is gone, so
// repeated reads of the same order agree.
func legacyItemID(orderKey string, position int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(orderKey+"/"+strconv.Itoa(position))).String()
}

func itemsFromLegacy(orderKey string, lines []models.LegacyLine) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for i, line := range lines {
		item := models.OrderItem{
			ID:       legacyItemID(orderKey, i),
			Name:     UnknownProductName,
			Quantity: line.Quantity,
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}

		if p := line.Product; p != nil {
			if p.UUID != "" {
				item.ID = p.UUID
			}
			if p.Name != "" {
				item.Name = p.Name
			}
			item.Price = p.Price
			item.Image = p.Image
		}

		items = append(items, item)
	}
	return items
}
