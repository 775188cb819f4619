package enums

import "slices"

// OrderStatus tracks the lifecycle of a customer order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusOnTheWay  OrderStatus = "on_the_way"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusOnTheWay,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// TerminalOrderStatuses end an order's lifecycle.
var TerminalOrderStatuses = []OrderStatus{OrderStatusDelivered, OrderStatusCancelled}

func (o OrderStatus) String() string { return string(o) }

func (o OrderStatus) IsValid() bool { return slices.Contains(orderStatuses, o) }

// Terminal reports whether no further transition is allowed.
func (o OrderStatus) Terminal() bool { return slices.Contains(TerminalOrderStatuses, o) }

func ParseOrderStatus(value string) (OrderStatus, error) {
	return parse(orderStatuses, value, "order status")
}
