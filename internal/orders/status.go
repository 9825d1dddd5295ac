package orders

import (
	"strings"
	"time"

	"github.com/jayjaytrn/grocemate/models"
)

// ParseDeliveryStatus validates a raw deliveryStatus value from a request.
// Any status may follow any other; only values outside the enum are rejected.
func ParseDeliveryStatus(raw string) (models.DeliveryStatus, error) {
	if raw == "" {
		return "", invalid("Delivery status is required")
	}

	status := models.DeliveryStatus(raw)
	if !status.Valid() {
		names := make([]string, 0, len(models.DeliveryStatuses()))
		for _, s := range models.DeliveryStatuses() {
			names = append(names, s.String())
		}
		return "", invalid("Invalid delivery status. Must be one of: %s", strings.Join(names, ", "))
	}

	return status, nil
}

// ApplyDeliveryStatus moves the order to status and keeps the display label in step.
func ApplyDeliveryStatus(order *models.Order, status models.DeliveryStatus, now time.Time) {
	order.DeliveryStatus = status
	order.Status = status.Display()
	order.UpdatedAt = now
}

func reconcileStatus(status models.DeliveryStatus, label string) models.DeliveryStatus {
	if status.Valid() {
		return status
	}
	if fromLabel, ok := models.ParseDisplayStatus(label); ok {
		return fromLabel
	}
	return models.DeliveryPending
}
