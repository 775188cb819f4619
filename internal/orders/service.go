package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/pkg/db"
	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/pagination"
)

// Service exposes the orders console.
type Service interface {
	List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[OrderDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDetailDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDetailDTO, error)
	AssignDelivery(ctx context.Context, id, memberID uuid.UUID) (*OrderDetailDTO, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService wires the orders repository and transaction runner.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

var transitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:   {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed: {enums.OrderStatusPreparing, enums.OrderStatusCancelled},
	enums.OrderStatusPreparing: {enums.OrderStatusOnTheWay, enums.OrderStatusCancelled},
	enums.OrderStatusOnTheWay:  {enums.OrderStatusDelivered, enums.OrderStatusCancelled},
}

var statusLabels = map[enums.OrderStatus]string{
	enums.OrderStatusPending:   "Pendiente",
	enums.OrderStatusConfirmed: "Confirmado",
	enums.OrderStatusPreparing: "En preparación",
	enums.OrderStatusOnTheWay:  "En camino",
	enums.OrderStatusDelivered: "Entregado",
	enums.OrderStatusCancelled: "Cancelado",
}

// StatusLabel is the console label of a status.
func StatusLabel(status enums.OrderStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *service) List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[OrderDTO], error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return pagination.Page[OrderDTO]{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	if filter.From != nil && filter.To != nil && !filter.To.After(*filter.From) {
		return pagination.Page[OrderDTO]{}, pkgerrors.New(pkgerrors.CodeValidation, "date range end must be after start")
	}
	page, err := s.repo.List(ctx, params, filter)
	if err != nil {
		return pagination.Page[OrderDTO]{}, pkgerrors.Backend(err, "list orders")
	}
	return pagination.Map(page, FromModel), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDetailDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Backend(err, "load order")
	}
	dto := DetailFromModel(*order)
	return &dto, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDetailDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOrder(ctx, repo, id)
		if err != nil {
			return err
		}
		if order.Status == status {
			return nil
		}
		if !CanTransition(order.Status, status) {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot move order from %s to %s", order.Status, status)
		}
		if status == enums.OrderStatusOnTheWay && order.DeliveryMemberID == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "assign a delivery member before dispatching the order")
		}

		moved, err := repo.CompareAndSetStatus(ctx, id, order.Status, status)
		if err != nil {
			return pkgerrors.Backend(err, "update order status")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed, reload and try again")
		}

		if order.DeliveryMemberID != nil && status.Terminal() {
			if err := repo.SetMemberDeliveryStatus(ctx, *order.DeliveryMemberID, enums.DeliveryStatusAvailable); err != nil {
				return pkgerrors.Backend(err, "release delivery member")
			}
		}

		warehouseID := order.WarehouseID
		orderID := order.ID
		notification := &models.Notification{
			WarehouseID: &warehouseID,
			OrderID:     &orderID,
			Type:        enums.NotificationTypeOrderStatus,
			Title:       fmt.Sprintf("Pedido #%d", order.OrderNumber),
			Message:     "Estado actualizado: " + statusLabels[status],
		}
		if err := repo.CreateNotification(ctx, notification); err != nil {
			return pkgerrors.Backend(err, "create status notification")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) AssignDelivery(ctx context.Context, id, memberID uuid.UUID) (*OrderDetailDTO, error) {
	if memberID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery member id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOrder(ctx, repo, id)
		if err != nil {
			return err
		}

		member, err := repo.FindDeliveryMember(ctx, memberID, order.WarehouseID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeValidation, "delivery member is not assigned to this warehouse")
			}
			return pkgerrors.Backend(err, "load delivery member")
		}
		if !member.IsActive {
			return pkgerrors.New(pkgerrors.CodeValidation, "delivery member is inactive")
		}
		if member.DeliveryStatus != nil && *member.DeliveryStatus == enums.DeliveryStatusOffline {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "delivery member is offline")
		}

		assigned, err := repo.SetDeliveryMember(ctx, id, memberID)
		if err != nil {
			return pkgerrors.Backend(err, "assign delivery member")
		}
		if !assigned {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already closed")
		}

		if order.DeliveryMemberID != nil && *order.DeliveryMemberID != memberID {
			if err := repo.SetMemberDeliveryStatus(ctx, *order.DeliveryMemberID, enums.DeliveryStatusAvailable); err != nil {
				return pkgerrors.Backend(err, "release previous delivery member")
			}
		}
		if err := repo.SetMemberDeliveryStatus(ctx, memberID, enums.DeliveryStatusBusy); err != nil {
			return pkgerrors.Backend(err, "mark delivery member busy")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) loadOrder(ctx context.Context, repo Repository, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := repo.FindOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Backend(err, "load order")
	}
	return order, nil
}
