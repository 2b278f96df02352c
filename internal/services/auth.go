package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"communityhub/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	userRepo     domain.UserRepository
	sponsorRepo  domain.SponsorRepository
	hasher       domain.PasswordHasher
	tokenIssuer  domain.TokenIssuer
	tokenExpiry  time.Duration
	emailService domain.EmailService
	now          func() time.Time
}

// NewAuthService creates an AuthService with the given repositories and auth ports.
func NewAuthService(
	userRepo domain.UserRepository,
	sponsorRepo domain.SponsorRepository,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	emailService domain.EmailService,
) domain.AuthService {
	return &authService{
		userRepo:     userRepo,
		sponsorRepo:  sponsorRepo,
		hasher:       hasher,
		tokenIssuer:  tokenIssuer,
		tokenExpiry:  tokenExpiry,
		emailService: emailService,
		now:          time.Now,
	}
}

// SignUp creates a user account with role USER and sends the welcome email.
// Unlike the registration confirmation, the welcome email is not best effort:
// a mail failure fails the signup.
func (s *authService) SignUp(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	if err := s.createUser(ctx, user, password, domain.RoleUser); err != nil {
		return nil, err
	}
	if err := s.emailService.SendWelcome(ctx, &domain.WelcomeEmailData{
		Email:     user.Email,
		FirstName: user.FirstName,
	}); err != nil {
		return nil, fmt.Errorf("send welcome email: %w", err)
	}
	return user, nil
}

// SignUpSponsor creates a sponsor-role account together with its sponsor
// profile.
func (s *authService) SignUpSponsor(ctx context.Context, user *domain.User, password string, sponsor *domain.Sponsor) (*domain.User, error) {
	if err := s.createUser(ctx, user, password, domain.RoleSponsor); err != nil {
		return nil, err
	}
	now := s.now()
	sponsor.UserID = user.ID
	if sponsor.Status == "" {
		sponsor.Status = domain.StatusActive
	}
	sponsor.CreatedAt = now
	sponsor.UpdatedAt = now
	if err := s.sponsorRepo.Create(ctx, sponsor); err != nil {
		return nil, fmt.Errorf("create sponsor profile: %w", err)
	}
	if err := s.emailService.SendWelcome(ctx, &domain.WelcomeEmailData{
		Email:     user.Email,
		FirstName: user.FirstName,
	}); err != nil {
		return nil, fmt.Errorf("send welcome email: %w", err)
	}
	return user, nil
}

func (s *authService) createUser(ctx context.Context, user *domain.User, password string, role domain.Role) error {
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	if !emailRegexp.MatchString(user.Email) {
		return fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	user.PasswordHash = hash
	user.Role = role
	if user.Membership == "" {
		user.Membership = domain.MembershipFree
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrConflict) {
			return err
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Login verifies the credentials and issues a JWT carrying the user's role.
// Wrong email and wrong password both return ErrUnauthorized so the response
// never discloses which one it was.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrUnauthorized
		}
		return "", nil, fmt.Errorf("get user by email: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", nil, domain.ErrUnauthorized
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Email, []string{string(user.Role)}, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}
