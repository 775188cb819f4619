package paymentmethods

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/llanero/admin-backend/pkg/db"
	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/pagination"
)

// Service manages the accounts customers pay into.
type Service interface {
	List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[PaymentMethodDTO], error)
	Create(ctx context.Context, input Input) (*PaymentMethodDTO, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (*PaymentMethodDTO, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*PaymentMethodDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceParams groups dependencies for the payment method service.
type ServiceParams struct {
	Repo Repository
}

type service struct {
	repo Repository
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment methods repo required")
	}
	return &service{repo: params.Repo}, nil
}

type field struct {
	name  string
	value func(*models.PaymentMethod) *string
}

var (
	bankName      = field{"bank_name", func(m *models.PaymentMethod) *string { return m.BankName }}
	accountHolder = field{"account_holder", func(m *models.PaymentMethod) *string { return m.AccountHolder }}
	accountNumber = field{"account_number", func(m *models.PaymentMethod) *string { return m.AccountNumber }}
	idNumber      = field{"id_number", func(m *models.PaymentMethod) *string { return m.IDNumber }}
	phone         = field{"phone", func(m *models.PaymentMethod) *string { return m.Phone }}
	email         = field{"email", func(m *models.PaymentMethod) *string { return m.Email }}
)

// requiredFields lists what a customer needs to see to pay with each method.
var requiredFields = map[enums.PaymentMethodType][]field{
	enums.PaymentMethodTypePagoMovil:     {bankName, idNumber, phone},
	enums.PaymentMethodTypeTransferencia: {bankName, accountHolder, accountNumber, idNumber},
	enums.PaymentMethodTypeZelle:         {accountHolder, email},
	enums.PaymentMethodTypeBinance:       {email},
}

// currencies restricts methods that only settle in one currency.
var currencies = map[enums.PaymentMethodType]enums.Currency{
	enums.PaymentMethodTypePagoMovil:     enums.CurrencyVES,
	enums.PaymentMethodTypeTransferencia: enums.CurrencyVES,
	enums.PaymentMethodTypeZelle:         enums.CurrencyUSD,
	enums.PaymentMethodTypeBinance:       enums.CurrencyUSD,
}

func (s *service) List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[PaymentMethodDTO], error) {
	page, err := s.repo.List(ctx, params, filter)
	if err != nil {
		return pagination.Page[PaymentMethodDTO]{}, pkgerrors.Backend(err, "list payment methods")
	}
	return pagination.Map(page, FromModel), nil
}

func (s *service) Create(ctx context.Context, input Input) (*PaymentMethodDTO, error) {
	m := &models.PaymentMethod{IsActive: true}
	if err := apply(m, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, pkgerrors.Backend(err, "create payment method")
	}
	dto := FromModel(*m)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input Input) (*PaymentMethodDTO, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(m, input); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, pkgerrors.Backend(err, "update payment method")
	}
	dto := FromModel(*m)
	return &dto, nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*PaymentMethodDTO, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	m.IsActive = active
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, pkgerrors.Backend(err, "update payment method")
	}
	dto := FromModel(*m)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment method id required")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Backend(err, "delete payment method")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method id required")
	}
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
		}
		return nil, pkgerrors.Backend(err, "load payment method")
	}
	return m, nil
}

func apply(m *models.PaymentMethod, input Input) error {
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method type")
	}
	if !input.Currency.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid currency")
	}
	if want, ok := currencies[input.Type]; ok && want != input.Currency {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "%s only accepts %s", input.Type, want)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	m.WarehouseID = input.WarehouseID
	m.Type = input.Type
	m.Name = name
	m.Currency = input.Currency
	m.BankName = optional(input.BankName)
	m.AccountHolder = optional(input.AccountHolder)
	m.AccountNumber = optional(input.AccountNumber)
	m.IDNumber = optional(input.IDNumber)
	m.Phone = optional(input.Phone)
	m.Email = optional(input.Email)
	if input.IsActive != nil {
		m.IsActive = *input.IsActive
	}

	var missing []string
	for _, f := range requiredFields[m.Type] {
		if f.value(m) == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").
			WithDetails(map[string]any{"missing": missing})
	}
	return nil
}

func optional(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
