package members

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/pkg/db"
	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/pagination"
)

var teamRoles = enums.StaffRoles

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages team and delivery profiles already provisioned by the gateway.
type Service interface {
	ListTeam(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[MemberDTO], error)
	ListDelivery(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[MemberDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*MemberDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateMemberInput) (*MemberDTO, error)
	SetDeliveryStatus(ctx context.Context, id uuid.UUID, status enums.DeliveryStatus) (*MemberDTO, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, errors.New("members repository required")
	}
	if tx == nil {
		return nil, errors.New("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) ListTeam(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[MemberDTO], error) {
	filter.DeliveryStatus = nil
	return s.list(ctx, params, teamRoles, filter, "list team")
}

func (s *service) ListDelivery(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[MemberDTO], error) {
	if filter.DeliveryStatus != nil && !filter.DeliveryStatus.IsValid() {
		return pagination.Page[MemberDTO]{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery status")
	}
	return s.list(ctx, params, []enums.UserRole{enums.UserRoleDelivery}, filter, "list delivery")
}

func (s *service) list(ctx context.Context, params pagination.Params, roles []enums.UserRole, filter ListFilter, op string) (pagination.Page[MemberDTO], error) {
	page, err := s.repo.List(ctx, params, roles, filter)
	if err != nil {
		return pagination.Page[MemberDTO]{}, pkgerrors.Backend(err, op)
	}
	return pagination.Map(page, FromModel), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*MemberDTO, error) {
	m, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(*m)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateMemberInput) (*MemberDTO, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		m, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}

		if input.FullName != nil {
			name := strings.TrimSpace(*input.FullName)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "full_name must not be empty")
			}
			m.FullName = name
		}
		if input.Phone != nil {
			m.Phone = optional(*input.Phone)
		}
		if input.IDNumber != nil {
			m.IDNumber = optional(*input.IDNumber)
		}
		if input.IsActive != nil {
			m.IsActive = *input.IsActive
		}
		if m.Role == enums.UserRoleDelivery {
			if input.VehicleType != nil {
				m.VehicleType = optional(*input.VehicleType)
			}
			if input.VehiclePlate != nil {
				m.VehiclePlate = optional(strings.ToUpper(*input.VehiclePlate))
			}
		}
		if err := repo.Save(ctx, m); err != nil {
			return pkgerrors.Backend(err, "update member")
		}

		if input.WarehouseIDs == nil {
			return nil
		}
		ids := Dedupe(*input.WarehouseIDs)
		if err := CheckWarehouses(ctx, repo, ids); err != nil {
			return err
		}
		if err := repo.ReplaceAssignments(ctx, m.ID, ids); err != nil {
			return pkgerrors.Backend(err, "replace warehouse assignments")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) SetDeliveryStatus(ctx context.Context, id uuid.UUID, status enums.DeliveryStatus) (*MemberDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery status")
	}
	m, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if m.Role != enums.UserRoleDelivery {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member is not a delivery member")
	}
	m.DeliveryStatus = &status
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, pkgerrors.Backend(err, "update delivery status")
	}
	dto := FromModel(*m)
	return &dto, nil
}

func (s *service) load(ctx context.Context, repo Repository, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member id required")
	}
	m, err := repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return nil, pkgerrors.Backend(err, "load member")
	}
	if m.Role == enums.UserRoleCustomer {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
	}
	return m, nil
}

// CheckWarehouses fails with a validation error when any id is unknown.
func CheckWarehouses(ctx context.Context, repo Repository, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := repo.CountWarehouses(ctx, ids)
	if err != nil {
		return pkgerrors.Backend(err, "load warehouses")
	}
	if count != int64(len(ids)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown warehouse in warehouse_ids")
	}
	return nil
}

// Dedupe drops nil and repeated ids, keeping the first occurrence order.
func Dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
