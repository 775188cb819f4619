package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/llanero/admin-backend/internal/members"
	"github.com/llanero/admin-backend/internal/testdb"
	"github.com/llanero/admin-backend/pkg/authprovider"
	"github.com/llanero/admin-backend/pkg/db/models"
	"github.com/llanero/admin-backend/pkg/enums"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/logger"
)

type stubProvider struct {
	inviteErr error
	updateErr error
	deleteErr error

	invited []string
	created []string
	deleted []uuid.UUID
	roles   map[uuid.UUID]any
}

func (p *stubProvider) InviteUser(ctx context.Context, params authprovider.InviteParams) (*authprovider.User, error) {
	if p.inviteErr != nil {
		return nil, p.inviteErr
	}
	p.invited = append(p.invited, params.Email)
	return &authprovider.User{ID: uuid.New(), Email: params.Email}, nil
}

func (p *stubProvider) CreateUser(ctx context.Context, params authprovider.CreateUserParams) (*authprovider.User, error) {
	p.created = append(p.created, params.Email)
	return &authprovider.User{ID: uuid.New(), Email: params.Email}, nil
}

func (p *stubProvider) UpdateAppMetadata(ctx context.Context, id uuid.UUID, metadata map[string]any) (*authprovider.User, error) {
	if p.updateErr != nil {
		return nil, p.updateErr
	}
	if p.roles == nil {
		p.roles = map[uuid.UUID]any{}
	}
	p.roles[id] = metadata["role"]
	return &authprovider.User{ID: id}, nil
}

func (p *stubProvider) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.deleted = append(p.deleted, id)
	return nil
}

type failingTx struct{ err error }

func (f failingTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return f.err
}

type fixture struct {
	db        *gorm.DB
	provider  *stubProvider
	svc       Service
	warehouse uuid.UUID
}

func newFixture(t *testing.T, tx txRunner) *fixture {
	t.Helper()
	conn := testdb.New(t)
	if tx == nil {
		tx = testdb.TxRunner{DB: conn}
	}
	provider := &stubProvider{}
	svc, err := NewService(ServiceParams{
		Provider: provider,
		Members:  members.NewRepository(conn),
		Tx:       tx,
		Logger:   logger.New(logger.Options{Output: io.Discard}),
	})
	require.NoError(t, err)

	w := &models.Warehouse{Name: "Bodegón Los Llanos", Address: "Calle 1", IsActive: true}
	require.NoError(t, conn.Create(w).Error)
	return &fixture{db: conn, provider: provider, svc: svc, warehouse: w.ID}
}

func (fx *fixture) profiles(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, fx.db.Model(&models.User{}).Count(&count).Error)
	return count
}

func TestInviteProvisionsProfileAndAssignments(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, nil)

	member, err := fx.svc.Invite(ctx, AudienceDelivery, InviteInput{
		Email:        " Rider@Llanero.app ",
		FullName:     "Carlos Moto",
		VehicleType:  "moto",
		VehiclePlate: "ab123cd",
		WarehouseIDs: []uuid.UUID{fx.warehouse, fx.warehouse},
	})
	require.NoError(t, err)
	require.Equal(t, "rider@llanero.app", member.Email)
	require.Equal(t, enums.UserRoleDelivery, member.Role)
	require.Len(t, member.Warehouses, 1)
	require.Equal(t, []string{"rider@llanero.app"}, fx.provider.invited)
	require.Equal(t, "delivery", fx.provider.roles[member.ID])

	var stored models.User
	require.NoError(t, fx.db.Where("id = ?", member.ID).First(&stored).Error)
	require.Equal(t, "AB123CD", *stored.VehiclePlate)
	require.Equal(t, enums.DeliveryStatusOffline, *stored.DeliveryStatus)
}

func TestInviteWithPasswordCreatesConfirmedIdentity(t *testing.T) {
	fx := newFixture(t, nil)
	_, err := fx.svc.Invite(context.Background(), AudienceTeam, InviteInput{
		Email:        "ops@llanero.app",
		FullName:     "Operaciones",
		Password:     "s3cret-pass",
		WarehouseIDs: []uuid.UUID{fx.warehouse},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"ops@llanero.app"}, fx.provider.created)
	require.Empty(t, fx.provider.invited)
}

func TestInviteDuplicateEmailAtProvider(t *testing.T) {
	fx := newFixture(t, nil)
	fx.provider.inviteErr = pkgerrors.Wrap(pkgerrors.CodeConflict,
		fmt.Errorf("%w: A user with this email address has already been registered", authprovider.ErrEmailExists),
		authprovider.ErrEmailExists.Error())

	_, err := fx.svc.Invite(context.Background(), AudienceTeam, InviteInput{
		Email:        "dup@llanero.app",
		FullName:     "Duplicado",
		WarehouseIDs: []uuid.UUID{fx.warehouse},
	})
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	require.Equal(t, "email already registered", pkgerrors.As(err).Message())
	require.Zero(t, fx.profiles(t))
	require.Empty(t, fx.provider.deleted)
}

func TestInviteDuplicateEmailInProfilesSkipsProvider(t *testing.T) {
	fx := newFixture(t, nil)
	existing := &models.User{Email: "dup@llanero.app", FullName: "Ya Existe", Role: enums.UserRoleTeam, IsActive: true}
	require.NoError(t, fx.db.Create(existing).Error)

	_, err := fx.svc.Invite(context.Background(), AudienceTeam, InviteInput{
		Email:        "DUP@llanero.app",
		FullName:     "Otro",
		WarehouseIDs: []uuid.UUID{fx.warehouse},
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	require.Equal(t, "email already registered", pkgerrors.As(err).Message())
	require.Empty(t, fx.provider.invited)
	require.EqualValues(t, 1, fx.profiles(t))
}

func TestInviteValidationRunsBeforeProvider(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()

	cases := []InviteInput{
		{FullName: "Sin correo", WarehouseIDs: []uuid.UUID{fx.warehouse}},
		{Email: "no-es-correo", FullName: "X", WarehouseIDs: []uuid.UUID{fx.warehouse}},
		{Email: "a@llanero.app", WarehouseIDs: []uuid.UUID{fx.warehouse}},
		{Email: "a@llanero.app", FullName: "Rol", Role: enums.UserRoleDelivery, WarehouseIDs: []uuid.UUID{fx.warehouse}},
		{Email: "a@llanero.app", FullName: "Bodegón inexistente", WarehouseIDs: []uuid.UUID{uuid.New()}},
	}
	for i, input := range cases {
		_, err := fx.svc.Invite(ctx, AudienceTeam, input)
		require.Truef(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "case %d: %v", i, err)
	}
	require.Empty(t, fx.provider.invited)
	require.Empty(t, fx.provider.created)
}

func TestInviteWithoutWarehousesCreatesUnassignedMember(t *testing.T) {
	fx := newFixture(t, nil)

	member, err := fx.svc.Invite(context.Background(), AudienceTeam, InviteInput{
		Email:    "soporte@llanero.app",
		FullName: "Soporte",
	})
	require.NoError(t, err)
	require.Equal(t, enums.UserRoleTeam, member.Role)
	require.Empty(t, member.Warehouses)
	require.Equal(t, []string{"soporte@llanero.app"}, fx.provider.invited)

	var assignments int64
	require.NoError(t, fx.db.Model(&models.WarehouseAssignment{}).Where("user_id = ?", member.ID).Count(&assignments).Error)
	require.Zero(t, assignments)
	require.EqualValues(t, 1, fx.profiles(t))
}

func TestInviteDatabaseFailureDeletesIdentity(t *testing.T) {
	fx := newFixture(t, failingTx{err: errors.New("deadlock detected")})

	_, err := fx.svc.Invite(context.Background(), AudienceTeam, InviteInput{
		Email:        "nuevo@llanero.app",
		FullName:     "Nuevo",
		WarehouseIDs: []uuid.UUID{fx.warehouse},
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	require.Len(t, fx.provider.deleted, 1)
	require.Zero(t, fx.profiles(t))
}

func TestInviteCompensationFailureReportsOrphan(t *testing.T) {
	fx := newFixture(t, failingTx{err: errors.New("deadlock detected")})
	fx.provider.deleteErr = errors.New("provider timeout")

	_, err := fx.svc.Invite(context.Background(), AudienceTeam, InviteInput{
		Email:        "huerfano@llanero.app",
		FullName:     "Huérfano",
		WarehouseIDs: []uuid.UUID{fx.warehouse},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDependency, typed.Code())
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	require.Contains(t, details["cause"], "deadlock detected")
	require.Contains(t, details["cause"], "provider timeout")
	require.NotEmpty(t, details["orphaned_identity_id"])
}

func seedMember(t *testing.T, fx *fixture, role enums.UserRole) uuid.UUID {
	t.Helper()
	u := &models.User{Email: uuid.NewString() + "@llanero.app", FullName: "Miembro", Role: role, IsActive: true}
	require.NoError(t, fx.db.Create(u).Error)
	require.NoError(t, fx.db.Create(&models.WarehouseAssignment{UserID: u.ID, WarehouseID: fx.warehouse}).Error)
	return u.ID
}

func TestDeleteCascades(t *testing.T) {
	fx := newFixture(t, nil)
	id := seedMember(t, fx, enums.UserRoleDelivery)

	require.NoError(t, fx.svc.Delete(context.Background(), AudienceDelivery, uuid.New(), DeleteInput{UserID: id}))
	require.Equal(t, []uuid.UUID{id}, fx.provider.deleted)
	require.Zero(t, fx.profiles(t))

	var assignments int64
	require.NoError(t, fx.db.Model(&models.WarehouseAssignment{}).Count(&assignments).Error)
	require.Zero(t, assignments)
}

func TestDeleteProviderFailureRollsBack(t *testing.T) {
	fx := newFixture(t, nil)
	id := seedMember(t, fx, enums.UserRoleTeam)
	fx.provider.deleteErr = pkgerrors.Backend(errors.New("status 500"), "auth provider request failed")

	err := fx.svc.Delete(context.Background(), AudienceTeam, uuid.New(), DeleteInput{UserID: id})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	require.EqualValues(t, 1, fx.profiles(t))

	var assignments int64
	require.NoError(t, fx.db.Model(&models.WarehouseAssignment{}).Count(&assignments).Error)
	require.EqualValues(t, 1, assignments)
}

func TestDeleteMissingIdentityCountsAsDeleted(t *testing.T) {
	fx := newFixture(t, nil)
	id := seedMember(t, fx, enums.UserRoleTeam)
	fx.provider.deleteErr = pkgerrors.Wrap(pkgerrors.CodeNotFound, authprovider.ErrUserNotFound, "auth user not found")

	require.NoError(t, fx.svc.Delete(context.Background(), AudienceTeam, uuid.New(), DeleteInput{UserID: id}))
	require.Zero(t, fx.profiles(t))
}

func TestDeleteGuards(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	rider := seedMember(t, fx, enums.UserRoleDelivery)
	actor := seedMember(t, fx, enums.UserRoleAdmin)

	err := fx.svc.Delete(ctx, AudienceTeam, actor, DeleteInput{UserID: rider})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	err = fx.svc.Delete(ctx, AudienceTeam, actor, DeleteInput{UserID: actor})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	err = fx.svc.Delete(ctx, AudienceTeam, actor, DeleteInput{UserID: uuid.New()})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	require.Empty(t, fx.provider.deleted)
}
