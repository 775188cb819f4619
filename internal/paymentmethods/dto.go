package paymentmethods

import (
	"time"

	"github.com/google/uuid"

	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
)

type PaymentMethodDTO struct {
	ID            uuid.UUID               `json:"id"`
	WarehouseID   *uuid.UUID              `json:"warehouse_id,omitempty"`
	Type          enums.PaymentMethodType `json:"type"`
	Name          string                  `json:"name"`
	Currency      enums.Currency          `json:"currency"`
	BankName      *string                 `json:"bank_name,omitempty"`
	AccountHolder *string                 `json:"account_holder,omitempty"`
	AccountNumber *string                 `json:"account_number,omitempty"`
	IDNumber      *string                 `json:"id_number,omitempty"`
	Phone         *string                 `json:"phone,omitempty"`
	Email         *string                 `json:"email,omitempty"`
	IsActive      bool                    `json:"is_active"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

func FromModel(m models.PaymentMethod) PaymentMethodDTO {
	return PaymentMethodDTO{
		ID:            m.ID,
		WarehouseID:   m.WarehouseID,
		Type:          m.Type,
		Name:          m.Name,
		Currency:      m.Currency,
		BankName:      m.BankName,
		AccountHolder: m.AccountHolder,
		AccountNumber: m.AccountNumber,
		IDNumber:      m.IDNumber,
		Phone:         m.Phone,
		Email:         m.Email,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ListFilter narrows payment methods. IncludeGlobal also returns methods
// without a warehouse when WarehouseID is set.
type ListFilter struct {
	WarehouseID   *uuid.UUID
	IncludeGlobal bool
	Type          *enums.PaymentMethodType
	IsActive      *bool
}

// Input is the full payment method form.
type Input struct {
	WarehouseID   *uuid.UUID              `json:"warehouse_id,omitempty"`
	Type          enums.PaymentMethodType `json:"type" validate:"required"`
	Name          string                  `json:"name" validate:"required,max=80"`
	Currency      enums.Currency          `json:"currency" validate:"required"`
	BankName      *string                 `json:"bank_name,omitempty" validate:"omitempty,max=80"`
	AccountHolder *string                 `json:"account_holder,omitempty" validate:"omitempty,max=120"`
	AccountNumber *string                 `json:"account_number,omitempty" validate:"omitempty,max=34"`
	IDNumber      *string                 `json:"id_number,omitempty" validate:"omitempty,max=20,ve_id"`
	Phone         *string                 `json:"phone,omitempty" validate:"omitempty,max=20,ve_phone"`
	Email         *string                 `json:"email,omitempty" validate:"omitempty,email"`
	IsActive      *bool                   `json:"is_active,omitempty"`
}
