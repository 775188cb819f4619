package enums

import "slices"

// DeliveryStatus reports whether a delivery member can take orders.
type DeliveryStatus string

const (
	DeliveryStatusAvailable DeliveryStatus = "available"
	DeliveryStatusBusy      DeliveryStatus = "busy"
	DeliveryStatusOffline   DeliveryStatus = "offline"
)

var deliveryStatuses = []DeliveryStatus{DeliveryStatusAvailable, DeliveryStatusBusy, DeliveryStatusOffline}

func (d DeliveryStatus) String() string { return string(d) }

func (d DeliveryStatus) IsValid() bool { return slices.Contains(deliveryStatuses, d) }

func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	return parse(deliveryStatuses, value, "delivery status")
}
