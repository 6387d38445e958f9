package services

import (
	"context"
	"testing"

	"milsonresponse/internal/models"
	"milsonresponse/pkg/errs"
	"milsonresponse/pkg/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(users *fakeUserRepo) UserService {
	roles := identity.NewRoleResolver("admin@milsonresponse.com", "emergencyservices@milsonresponse.com")
	return NewUserService(users, roles, testLogger())
}

func TestSyncStoresAccountWithDerivedRole(t *testing.T) {
	users := newFakeUserRepo()
	service := newTestUserService(users)
	ctx := context.Background()

	user, err := service.Sync(ctx, &identity.Account{
		UID:         "uid-1",
		Email:       "ada@example.com",
		DisplayName: "Ada Obi",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)

	admin, err := service.Sync(ctx, &identity.Account{
		UID:   "uid-2",
		Email: "admin@milsonresponse.com",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}

func TestSyncIsIdempotent(t *testing.T) {
	users := newFakeUserRepo()
	service := newTestUserService(users)
	ctx := context.Background()

	account := &identity.Account{UID: "uid-1", Email: "ada@example.com", DisplayName: "Ada"}
	_, err := service.Sync(ctx, account)
	require.NoError(t, err)

	account.DisplayName = "Ada Obi"
	_, err = service.Sync(ctx, account)
	require.NoError(t, err)

	stored, err := service.Get(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", stored.DisplayName)
}

func TestSyncRequiresUID(t *testing.T) {
	service := newTestUserService(newFakeUserRepo())

	_, err := service.Sync(context.Background(), &identity.Account{Email: "a@b.c"})
	assert.True(t, errs.IsValidation(err))

	_, err = service.Sync(context.Background(), nil)
	assert.True(t, errs.IsValidation(err))
}

func TestListUsersSearchNarrowsResultAndTotal(t *testing.T) {
	users := newFakeUserRepo()
	service := newTestUserService(users)
	ctx := context.Background()

	require.NoError(t, users.Upsert(ctx, &models.User{UID: "uid-1", DisplayName: "Ada Obi", Email: "ada@example.com"}))
	require.NoError(t, users.Upsert(ctx, &models.User{UID: "uid-2", DisplayName: "Bola Bello", Email: "bola@example.com"}))

	listed, meta, err := service.List(ctx, "ada", nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "uid-1", listed[0].UID)
	assert.Equal(t, int64(1), meta.Total)

	listed, meta, err = service.List(ctx, "", nil)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
	assert.Equal(t, int64(2), meta.Total)
}
