package services

import (
	"context"
	"errors"
	"fmt"

	"communityhub/internal/domain"
)

type userService struct {
	userRepo    domain.UserRepository
	sponsorRepo domain.SponsorRepository
}

// NewUserService creates a UserService with the given repositories.
func NewUserService(userRepo domain.UserRepository, sponsorRepo domain.SponsorRepository) domain.UserService {
	return &userService{
		userRepo:    userRepo,
		sponsorRepo: sponsorRepo,
	}
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx, domain.UserFilter{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetByID returns the user; for sponsor-role users the sponsor projection
// (with posts and offers) is attached.
func (s *userService) GetByID(ctx context.Context, id string) (*domain.UserWithSponsor, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	result := &domain.UserWithSponsor{User: user}
	if user.Role != domain.RoleSponsor {
		return result, nil
	}
	detail, err := s.sponsorRepo.GetDetailByUserID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Sponsor role without a sponsor profile yet; return the bare user.
			return result, nil
		}
		return nil, fmt.Errorf("get sponsor detail: %w", err)
	}
	result.Sponsor = detail
	return result, nil
}

func (s *userService) Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	user, err := s.userRepo.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		case errors.Is(err, domain.ErrDuplicateEmail):
			return nil, domain.ErrDuplicateEmail
		case errors.Is(err, domain.ErrConflict):
			return nil, fmt.Errorf("%w: username already in use", domain.ErrConflict)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) SetProfilePhoto(ctx context.Context, id string, photoURL string) (*domain.User, error) {
	user, err := s.userRepo.SetProfilePicture(ctx, id, photoURL)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("set profile photo: %w", err)
	}
	return user, nil
}
