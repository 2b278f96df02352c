package services

import (
	"context"
	"testing"
	"time"

	"communityhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdminService(userRepo *fakeUserRepo) *adminService {
	return &adminService{
		userRepo: userRepo,
		hasher:   fakePasswordHasher{},
		now:      time.Now,
	}
}

func TestAdminService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc := newTestAdminService(newFakeUserRepo())

		user, err := svc.CreateUser(ctx, &domain.User{Email: "bob@example.com"}, "password123", "sponsor")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleSponsor, user.Role)
		assert.Equal(t, domain.MembershipFree, user.Membership)
		assert.Equal(t, "hash-password123", user.PasswordHash)
	})

	t.Run("invalid role", func(t *testing.T) {
		svc := newTestAdminService(newFakeUserRepo())

		_, err := svc.CreateUser(ctx, &domain.User{Email: "bob@example.com"}, "password123", "superuser")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("existing email conflicts", func(t *testing.T) {
		existing := &domain.User{ID: "u1", Email: "bob@example.com"}
		svc := newTestAdminService(newFakeUserRepo(existing))

		_, err := svc.CreateUser(ctx, &domain.User{Email: "bob@example.com"}, "password123", domain.RoleUser)
		require.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestAdminService_Stats(t *testing.T) {
	ctx := context.Background()

	svc := newTestAdminService(newFakeUserRepo(
		&domain.User{ID: "u1", Email: "a@x.com", Country: "Spain", Membership: domain.MembershipFree},
		&domain.User{ID: "u2", Email: "b@x.com", Country: "Spain", Membership: domain.MembershipPremium},
		&domain.User{ID: "u3", Email: "c@x.com", Country: "Portugal", Membership: domain.MembershipFree},
	))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 2, stats.UsersByCountry["Spain"])
	assert.Equal(t, 1, stats.UsersByCountry["Portugal"])
	assert.Equal(t, 2, stats.Memberships["FREE"])
	assert.Equal(t, 1, stats.Memberships["PREMIUM"])
}

func TestAdminService_AssignRole(t *testing.T) {
	ctx := context.Background()

	user := &domain.User{ID: "u1", Email: "a@x.com", Role: domain.RoleUser}
	svc := newTestAdminService(newFakeUserRepo(user))

	got, err := svc.AssignRole(ctx, "u1", "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)

	_, err = svc.AssignRole(ctx, "missing", domain.RoleAdmin)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.AssignRole(ctx, "u1", "emperor")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdminService_DeleteUser(t *testing.T) {
	ctx := context.Background()

	svc := newTestAdminService(newFakeUserRepo(&domain.User{ID: "u1", Email: "a@x.com"}))

	require.NoError(t, svc.DeleteUser(ctx, "u1"))
	require.ErrorIs(t, svc.DeleteUser(ctx, "u1"), domain.ErrNotFound)
}
