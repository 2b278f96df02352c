package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"communityhub/internal/domain"
)

type adminService struct {
	userRepo domain.UserRepository
	hasher   domain.PasswordHasher
	now      func() time.Time
}

// NewAdminService creates an AdminService with the given repository and hasher.
func NewAdminService(userRepo domain.UserRepository, hasher domain.PasswordHasher) domain.AdminService {
	return &adminService{
		userRepo: userRepo,
		hasher:   hasher,
		now:      time.Now,
	}
}

// CreateUser creates an account with an explicit role, for admins
// provisioning users or sponsors.
func (s *adminService) CreateUser(ctx context.Context, user *domain.User, password string, role domain.Role) (*domain.User, error) {
	role = domain.Role(strings.ToUpper(string(role)))
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", domain.ErrInvalidInput, role)
	}

	if _, err := s.userRepo.GetByEmail(ctx, user.Email); err == nil {
		return nil, fmt.Errorf("%w: a user with this email already exists", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
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
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, fmt.Errorf("%w: a user with this email already exists", domain.ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *adminService) Stats(ctx context.Context) (*domain.UserStats, error) {
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	byCountry, err := s.userRepo.CountByCountry(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users by country: %w", err)
	}
	byMembership, err := s.userRepo.CountByMembership(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users by membership: %w", err)
	}
	return &domain.UserStats{
		TotalUsers:     total,
		UsersByCountry: byCountry,
		Memberships:    byMembership,
	}, nil
}

func (s *adminService) AssignRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	role = domain.Role(strings.ToUpper(string(role)))
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", domain.ErrInvalidInput, role)
	}
	user, err := s.userRepo.SetRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("set role: %w", err)
	}
	return user, nil
}

func (s *adminService) ListUsers(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *adminService) UpdateUser(ctx context.Context, userID string, upd domain.UserUpdate) (*domain.User, error) {
	user, err := s.userRepo.Update(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *adminService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
