// Package gateway performs the two privileged user mutations that touch both the
// auth provider and the database: invite-and-provision and cascade delete.
package gateway

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/internal/members"
	"github.com/llanero/admin-backend/pkg/authprovider"
	"github.com/llanero/admin-backend/pkg/db"
	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/logger"
	"github.com/llanero/admin-backend/pkg/metrics"
)

const (
	opInvite = "invite"
	opDelete = "delete"

	stepValidate   = "validate"
	stepProvider   = "provider"
	stepDatabase   = "database"
	stepCompensate = "compensate"
)

// Provider is the subset of the auth provider admin API the gateway calls.
type Provider interface {
	InviteUser(ctx context.Context, params authprovider.InviteParams) (*authprovider.User, error)
	CreateUser(ctx context.Context, params authprovider.CreateUserParams) (*authprovider.User, error)
	UpdateAppMetadata(ctx context.Context, id uuid.UUID, metadata map[string]any) (*authprovider.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the privileged mutation gateway.
type Service interface {
	Invite(ctx context.Context, audience Audience, input InviteInput) (*members.MemberDTO, error)
	Delete(ctx context.Context, audience Audience, actorID uuid.UUID, input DeleteInput) error
}

// ServiceParams wires the gateway.
type ServiceParams struct {
	Provider       Provider
	Members        members.Repository
	Tx             txRunner
	Metrics        *metrics.GatewayMetrics
	Logger         *logger.Logger
	InviteRedirect string
}

type service struct {
	provider Provider
	members  members.Repository
	tx       txRunner
	metrics  *metrics.GatewayMetrics
	logg     *logger.Logger
	redirect string
}

func NewService(params ServiceParams) (Service, error) {
	if params.Provider == nil {
		return nil, errors.New("auth provider required")
	}
	if params.Members == nil {
		return nil, errors.New("members repository required")
	}
	if params.Tx == nil {
		return nil, errors.New("transaction runner required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	return &service{
		provider: params.Provider,
		members:  params.Members,
		tx:       params.Tx,
		metrics:  params.Metrics,
		logg:     params.Logger,
		redirect: strings.TrimSpace(params.InviteRedirect),
	}, nil
}

// Invite validates locally, rejects known emails, creates the provider identity
// and then writes the profile with its assignments in one transaction. When the
// database step fails the identity is deleted again.
func (s *service) Invite(ctx context.Context, audience Audience, input InviteInput) (*members.MemberDTO, error) {
	profile, warehouseIDs, err := s.validateInvite(audience, input)
	if err != nil {
		s.metrics.IncStepFailure(opInvite, stepValidate)
		return nil, err
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"operation": opInvite,
		"role":      profile.Role,
		"email":     profile.Email,
	})

	if err := members.CheckWarehouses(ctx, s.members, warehouseIDs); err != nil {
		s.metrics.IncStepFailure(opInvite, stepValidate)
		return nil, err
	}
	if _, err := s.members.FindByEmail(ctx, profile.Email); err == nil {
		s.metrics.IncStepFailure(opInvite, stepValidate)
		return nil, pkgerrors.New(pkgerrors.CodeConflict, authprovider.ErrEmailExists.Error())
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Backend(err, "check existing email")
	}

	identity, err := s.createIdentity(ctx, profile, input.Password)
	if err != nil {
		s.metrics.IncStepFailure(opInvite, stepProvider)
		s.logg.Warn(logCtx, "auth provider rejected invite: "+err.Error())
		return nil, err
	}
	profile.ID = identity.ID
	logCtx = s.logg.WithScope(logCtx, logger.Scope{UserID: identity.ID.String()})

	if _, err := s.provider.UpdateAppMetadata(ctx, identity.ID, map[string]any{"role": string(profile.Role)}); err != nil {
		s.metrics.IncStepFailure(opInvite, stepProvider)
		return nil, s.compensate(logCtx, identity.ID, err, "assign role at auth provider")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.members.WithTx(tx)
		if err := repo.Upsert(ctx, profile); err != nil {
			return err
		}
		if len(warehouseIDs) == 0 {
			return nil
		}
		return repo.ReplaceAssignments(ctx, profile.ID, warehouseIDs)
	})
	if err != nil {
		s.metrics.IncStepFailure(opInvite, stepDatabase)
		return nil, s.compensate(logCtx, identity.ID, err, "provision profile")
	}

	s.metrics.IncSuccess(opInvite, string(profile.Role))
	s.logg.Info(logCtx, "member provisioned")

	created, err := s.members.FindByID(ctx, profile.ID)
	if err != nil {
		return nil, pkgerrors.Backend(err, "load provisioned member")
	}
	dto := members.FromModel(*created)
	return &dto, nil
}

func (s *service) createIdentity(ctx context.Context, profile *models.User, password string) (*authprovider.User, error) {
	userMeta := map[string]any{"full_name": profile.FullName}
	if password != "" {
		return s.provider.CreateUser(ctx, authprovider.CreateUserParams{
			Email:        profile.Email,
			Password:     password,
			EmailConfirm: true,
			UserMetadata: userMeta,
			AppMetadata:  map[string]any{"role": string(profile.Role)},
		})
	}
	return s.provider.InviteUser(ctx, authprovider.InviteParams{
		Email:      profile.Email,
		Data:       userMeta,
		RedirectTo: s.redirect,
	})
}

// compensate deletes an identity whose provisioning failed. The original error
// decides the response; a failed cleanup is reported in the details.
func (s *service) compensate(ctx context.Context, identityID uuid.UUID, cause error, message string) error {
	wrapped := wrapStep(cause, message)
	delErr := s.provider.DeleteUser(ctx, identityID)
	if delErr == nil || pkgerrors.IsCode(delErr, pkgerrors.CodeNotFound) {
		s.logg.Warn(ctx, "rolled back auth identity after failed provisioning")
		return wrapped
	}

	s.metrics.IncStepFailure(opInvite, stepCompensate)
	combined := multierr.Append(cause, delErr)
	s.logg.Error(ctx, "auth identity left without profile", combined)
	return wrapped.WithDetails(map[string]any{
		"cause":                combined.Error(),
		"orphaned_identity_id": identityID.String(),
	})
}

func wrapStep(err error, message string) *pkgerrors.Error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Backend(err, message)
}

// Delete removes assignments and the profile in a transaction, then the
// provider identity. A provider failure rolls the database back; an identity
// that is already gone counts as deleted.
func (s *service) Delete(ctx context.Context, audience Audience, actorID uuid.UUID, input DeleteInput) error {
	if input.UserID == uuid.Nil {
		s.metrics.IncStepFailure(opDelete, stepValidate)
		return pkgerrors.New(pkgerrors.CodeValidation, "user_id is required")
	}
	if input.UserID == actorID {
		s.metrics.IncStepFailure(opDelete, stepValidate)
		return pkgerrors.New(pkgerrors.CodeValidation, "you cannot delete your own account")
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"operation": opDelete,
		"user_id":   input.UserID.String(),
	})

	member, err := s.members.FindByID(ctx, input.UserID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return pkgerrors.Backend(err, "load member")
	}
	if !audience.allows(member.Role) {
		s.metrics.IncStepFailure(opDelete, stepValidate)
		return pkgerrors.Newf(pkgerrors.CodeValidation, "user is not a %s member", audience)
	}

	step := stepDatabase
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.members.WithTx(tx)
		if err := repo.ReplaceAssignments(ctx, member.ID, nil); err != nil {
			return pkgerrors.Backend(err, "delete warehouse assignments")
		}
		if _, err := repo.Delete(ctx, member.ID); err != nil {
			return pkgerrors.Backend(err, "delete profile")
		}
		step = stepProvider
		if err := s.provider.DeleteUser(ctx, member.ID); err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		s.metrics.IncStepFailure(opDelete, step)
		s.logg.Error(logCtx, "member delete failed", err)
		return wrapStep(err, "delete member")
	}

	s.metrics.IncSuccess(opDelete, string(member.Role))
	s.logg.Info(logCtx, "member deleted")
	return nil
}

func (s *service) validateInvite(audience Audience, input InviteInput) (*models.User, []uuid.UUID, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "email is invalid")
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "full_name is required")
	}
	if input.Password != "" && len(input.Password) < 8 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "password must have at least 8 characters")
	}

	role := input.Role
	switch audience {
	case AudienceDelivery:
		if role == "" {
			role = enums.UserRoleDelivery
		}
	case AudienceTeam:
		if role == "" {
			role = enums.UserRoleTeam
		}
	default:
		return nil, nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown audience %q", audience)
	}
	if !audience.allows(role) {
		return nil, nil, pkgerrors.Newf(pkgerrors.CodeValidation, "role %q cannot be invited as %s", role, audience)
	}

	// Assignments are optional; members without one see no warehouse-scoped data until assigned.
	warehouseIDs := members.Dedupe(input.WarehouseIDs)

	profile := &models.User{
		Email:    email,
		FullName: fullName,
		Phone:    optional(input.Phone),
		IDNumber: optional(input.IDNumber),
		Role:     role,
		IsActive: true,
	}
	if role == enums.UserRoleDelivery {
		status := enums.DeliveryStatusOffline
		profile.DeliveryStatus = &status
		profile.VehicleType = optional(input.VehicleType)
		if plate := optional(input.VehiclePlate); plate != nil {
			upper := strings.ToUpper(*plate)
			profile.VehiclePlate = &upper
		}
	}
	return profile, warehouseIDs, nil
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
