package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/llanero/admin-backend/internal/realtime"
	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
	"github.com/llanero/admin-backend/pkg/logger"
)

type consumerRepository interface {
	CreateForOrder(ctx context.Context, notification *models.Notification) (bool, error)
	ExistsForOrder(ctx context.Context, orderID uuid.UUID, typ enums.NotificationType) (bool, error)
}

// Consumer watches order inserts on the realtime hub and writes a staff-wide
// "new_order" notification per order.
type Consumer struct {
	repo consumerRepository
	hub  *realtime.Hub
	logg *logger.Logger
}

// NewConsumer builds an order notification consumer.
func NewConsumer(repo consumerRepository, hub *realtime.Hub, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if hub == nil {
		return nil, fmt.Errorf("realtime hub required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{repo: repo, hub: hub, logg: logg}, nil
}

// Run consumes order events until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	sub := c.hub.Subscribe(realtime.TableOrders)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-sub.Events():
			if !ok {
				return nil
			}
			c.process(ctx, evt)
		}
	}
}

func (c *Consumer) process(ctx context.Context, evt realtime.Event) {
	if evt.Type != enums.ChangeTypeInsert {
		return
	}
	rawID, _ := evt.Field("id")
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"table":    evt.Table,
		"order_id": rawID,
	})

	orderID, err := uuid.Parse(rawID)
	if err != nil {
		c.logg.Error(logCtx, "order event without a valid id", err)
		return
	}

	exists, err := c.repo.ExistsForOrder(ctx, orderID, enums.NotificationTypeNewOrder)
	if err != nil {
		c.logg.Error(logCtx, "new order notification lookup failed", err)
		return
	}
	if exists {
		c.logg.Debug(logCtx, "new order already notified")
		return
	}

	notification := newOrderNotification(evt, orderID)
	created, err := c.repo.CreateForOrder(ctx, notification)
	if err != nil {
		c.logg.Error(logCtx, "failed to create new order notification", err)
		return
	}
	if !created {
		// another API instance won the insert
		c.logg.Debug(logCtx, "new order already notified")
		return
	}
	c.logg.Info(logCtx, "staff notified of new order")
}

func newOrderNotification(evt realtime.Event, orderID uuid.UUID) *models.Notification {
	title := "Nuevo pedido"
	if number, ok := evt.IntField("order_number"); ok {
		title = fmt.Sprintf("Nuevo pedido #%d", number)
	}
	message := "Se recibió un nuevo pedido"
	if total, ok := evt.Field("total_usd"); ok {
		message = fmt.Sprintf("Total: $%s", total)
	}
	link := fmt.Sprintf("/orders/%s", orderID)

	n := &models.Notification{
		OrderID: &orderID,
		Type:    enums.NotificationTypeNewOrder,
		Title:   title,
		Message: message,
		Link:    &link,
	}
	if raw, ok := evt.Field("warehouse_id"); ok {
		if id, err := uuid.Parse(raw); err == nil {
			n.WarehouseID = &id
		}
	}
	return n
}
