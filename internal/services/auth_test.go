package services

import (
	"context"
	"testing"
	"time"

	"communityhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(userRepo *fakeUserRepo, sponsorRepo *fakeSponsorRepo, issuer *fakeTokenIssuer, emails *fakeEmailService) *authService {
	return &authService{
		userRepo:     userRepo,
		sponsorRepo:  sponsorRepo,
		hasher:       fakePasswordHasher{},
		tokenIssuer:  issuer,
		tokenExpiry:  time.Hour,
		emailService: emails,
		now:          time.Now,
	}
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		emails := newFakeEmailService()
		svc := newTestAuthService(newFakeUserRepo(), newFakeSponsorRepo(), &fakeTokenIssuer{}, emails)

		user, err := svc.SignUp(ctx, &domain.User{
			FirstName: "Alice",
			Username:  "alice",
			Email:     "  Alice@Example.COM ",
		}, "password123")
		require.NoError(t, err)

		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.Equal(t, domain.MembershipFree, user.Membership)
		assert.Equal(t, "hash-password123", user.PasswordHash)
		require.Len(t, emails.welcomes, 1)
		assert.Equal(t, "alice@example.com", emails.welcomes[0].Email)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo(), newFakeSponsorRepo(), &fakeTokenIssuer{}, newFakeEmailService())

		_, err := svc.SignUp(ctx, &domain.User{Email: "not-an-email"}, "password123")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("duplicate email", func(t *testing.T) {
		existing := &domain.User{ID: "u1", Email: "alice@example.com"}
		svc := newTestAuthService(newFakeUserRepo(existing), newFakeSponsorRepo(), &fakeTokenIssuer{}, newFakeEmailService())

		_, err := svc.SignUp(ctx, &domain.User{Email: "alice@example.com"}, "password123")
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("welcome email failure fails signup", func(t *testing.T) {
		emails := newFakeEmailService()
		emails.welcomeErr = assert.AnError
		svc := newTestAuthService(newFakeUserRepo(), newFakeSponsorRepo(), &fakeTokenIssuer{}, emails)

		_, err := svc.SignUp(ctx, &domain.User{Email: "alice@example.com"}, "password123")
		require.Error(t, err)
	})
}

func TestAuthService_SignUpSponsor(t *testing.T) {
	ctx := context.Background()

	sponsorRepo := newFakeSponsorRepo()
	svc := newTestAuthService(newFakeUserRepo(), sponsorRepo, &fakeTokenIssuer{}, newFakeEmailService())

	user, err := svc.SignUpSponsor(ctx, &domain.User{
		FirstName: "Carol",
		Email:     "carol@acme.com",
	}, "password123", &domain.Sponsor{CompanyName: "Acme"})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleSponsor, user.Role)
	sponsor, err := sponsorRepo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", sponsor.CompanyName)
	assert.Equal(t, domain.StatusActive, sponsor.Status)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	user := &domain.User{
		ID:           "u1",
		Email:        "alice@example.com",
		PasswordHash: "hash-password123",
		Role:         domain.RoleAdmin,
	}

	t.Run("success", func(t *testing.T) {
		issuer := &fakeTokenIssuer{}
		svc := newTestAuthService(newFakeUserRepo(user), newFakeSponsorRepo(), issuer, newFakeEmailService())

		token, got, err := svc.Login(ctx, "Alice@Example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "token-u1", token)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, []string{"ADMIN"}, issuer.roles)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo(user), newFakeSponsorRepo(), &fakeTokenIssuer{}, newFakeEmailService())

		_, _, err := svc.Login(ctx, "nobody@example.com", "password123")
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo(user), newFakeSponsorRepo(), &fakeTokenIssuer{}, newFakeEmailService())

		_, _, err := svc.Login(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
