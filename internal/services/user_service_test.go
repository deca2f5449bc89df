package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mimirlabs/mimir/internal/models"
)

func TestUserService_CreateAndGet(t *testing.T) {
	svc, err := NewUserService(newTestStore(t))
	require.NoError(t, err)

	ctx := context.Background()

	created, err := svc.Create(ctx, CreateUserInput{
		Name:     "Ana Silva",
		Email:    "Ana@Test.com",
		Password: "hashed-secret",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, models.RoleUser, created.Role, "role defaults to user")
	require.Equal(t, "ana@test.com", created.Email, "email is stored lowercased")
	require.False(t, created.CreatedAt.IsZero())

	fetched, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	require.Equal(t, *created, *fetched)
}

func TestUserService_GetByEmailIsCaseInsensitive(t *testing.T) {
	svc, err := NewUserService(newTestStore(t))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = svc.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@test.com", Password: "x"})
	require.NoError(t, err)

	found, err := svc.GetByEmail(ctx, "ANA@TEST.COM")
	require.NoError(t, err)
	require.NotNil(t, found)

	missing, err := svc.GetByEmail(ctx, "nobody@test.com")
	require.NoError(t, err)
	require.Nil(t, missing, "unknown email returns nil, not an error")
}

func TestUserService_UpdateMergesPartialFields(t *testing.T) {
	svc, err := NewUserService(newTestStore(t))
	require.NoError(t, err)

	ctx := context.Background()
	created, err := svc.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@test.com", Password: "x"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UserUpdate{
		Name:   ptr("Ana Clara"),
		Avatar: ptr("https://example.com/a.png"),
	})
	require.NoError(t, err)
	require.Equal(t, "Ana Clara", updated.Name)
	require.Equal(t, "https://example.com/a.png", updated.Avatar)
	require.Equal(t, created.Email, updated.Email, "untouched fields survive the merge")
	require.Equal(t, created.CreatedAt, updated.CreatedAt, "createdAt is immutable")
}

func TestUserService_UpdateUnknownIDFails(t *testing.T) {
	svc, err := NewUserService(newTestStore(t))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "missing", UserUpdate{Name: ptr("x")})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_DeleteIsIdempotent(t *testing.T) {
	svc, err := NewUserService(newTestStore(t))
	require.NoError(t, err)

	ctx := context.Background()
	created, err := svc.Create(ctx, CreateUserInput{Name: "Ana", Email: "ana@test.com", Password: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.NoError(t, svc.Delete(ctx, created.ID), "second delete is a no-op")

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, users)
}
