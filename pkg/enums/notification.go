package enums

import "slices"

// NotificationType classifies staff notifications. Only new_order rows play
// the alert sound in the console.
type NotificationType string

const (
	NotificationTypeNewOrder    NotificationType = "new_order"
	NotificationTypeOrderStatus NotificationType = "order_status"
	NotificationTypeSystem      NotificationType = "system"
)

var notificationTypes = []NotificationType{NotificationTypeNewOrder, NotificationTypeOrderStatus, NotificationTypeSystem}

func (n NotificationType) String() string { return string(n) }

func (n NotificationType) IsValid() bool { return slices.Contains(notificationTypes, n) }

func ParseNotificationType(value string) (NotificationType, error) {
	return parse(notificationTypes, value, "notification type")
}
