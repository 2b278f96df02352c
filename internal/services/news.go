package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"communityhub/internal/domain"
)

type newsService struct {
	newsRepo domain.NewsRepository
	now      func() time.Time
}

// NewNewsService creates a NewsService with the given repository.
func NewNewsService(newsRepo domain.NewsRepository) domain.NewsService {
	return &newsService{
		newsRepo: newsRepo,
		now:      time.Now,
	}
}

func (s *newsService) ListActive(ctx context.Context, typ domain.NewsType) ([]*domain.News, error) {
	items, err := s.newsRepo.ListByType(ctx, typ, domain.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return items, nil
}

func (s *newsService) ListInactive(ctx context.Context) ([]*domain.News, error) {
	items, err := s.newsRepo.ListByStatus(ctx, domain.StatusInactive)
	if err != nil {
		return nil, fmt.Errorf("list inactive news: %w", err)
	}
	return items, nil
}

func (s *newsService) GetByID(ctx context.Context, id string) (*domain.News, error) {
	n, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get news: %w", err)
	}
	return n, nil
}

func (s *newsService) Create(ctx context.Context, n *domain.News) (*domain.News, error) {
	now := s.now()
	if n.Status == "" {
		n.Status = domain.StatusActive
	}
	n.CreatedAt = now
	n.UpdatedAt = now
	if err := s.newsRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create news: %w", err)
	}
	return n, nil
}

func (s *newsService) Update(ctx context.Context, id string, upd domain.NewsUpdate) (*domain.News, error) {
	n, err := s.newsRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update news: %w", err)
	}
	return n, nil
}

// ToggleStatus flips ACTIVE<->INACTIVE; news has no other states.
func (s *newsService) ToggleStatus(ctx context.Context, id string) (*domain.News, error) {
	n, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get news: %w", err)
	}
	next, ok := n.Status.Toggled()
	if !ok {
		return n, nil
	}
	updated, err := s.newsRepo.SetStatus(ctx, id, next)
	if err != nil {
		return nil, fmt.Errorf("set news status: %w", err)
	}
	return updated, nil
}
