package models

import "strings"

type DeliveryStatus string

func (s DeliveryStatus) String() string {
	return string(s)
}

// Возможные значения статусов доставки
const (
	DeliveryPending    DeliveryStatus = "pending"
	DeliveryProcessing DeliveryStatus = "processing"
	DeliveryShipped    DeliveryStatus = "shipped"
	DeliveryDelivered  DeliveryStatus = "delivered"
	DeliveryCancelled  DeliveryStatus = "cancelled"
)

var displayStatuses = map[DeliveryStatus]string{
	DeliveryPending:    "Pending",
	DeliveryProcessing: "Processing",
	DeliveryShipped:    "Shipped",
	DeliveryDelivered:  "Delivered",
	DeliveryCancelled:  "Cancelled",
}

// DeliveryStatuses lists the accepted values in lifecycle order.
func DeliveryStatuses() []DeliveryStatus {
	return []DeliveryStatus{DeliveryPending, DeliveryProcessing, DeliveryShipped, DeliveryDelivered, DeliveryCancelled}
}

func (s DeliveryStatus) Valid() bool {
	_, ok := displayStatuses[s]
	return ok
}

// Display returns the user-facing label. Unknown values have no label.
func (s DeliveryStatus) Display() string {
	return displayStatuses[s]
}

// ParseDisplayStatus maps a label such as "Shipped" back to its status.
func ParseDisplayStatus(label string) (DeliveryStatus, bool) {
	label = strings.TrimSpace(label)
	for status, display := range displayStatuses {
		if strings.EqualFold(display, label) {
			return status, true
		}
	}
	return "", false
}
