package domain

import (
	"context"
	"time"
)

// News represents a published content entry (news, blog, or article).
// swagger:model News
type News struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Type        NewsType  `json:"type"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewsUpdate carries the partial-update fields. Nil fields are unchanged.
type NewsUpdate struct {
	Title       *string
	Description *string
	ImageURL    *string
}

// NewsRepository defines the interface for news storage
type NewsRepository interface {
	Create(ctx context.Context, n *News) error
	GetByID(ctx context.Context, id string) (*News, error)
	ListByType(ctx context.Context, typ NewsType, status Status) ([]*News, error)
	ListByStatus(ctx context.Context, status Status) ([]*News, error)
	Update(ctx context.Context, id string, upd NewsUpdate) (*News, error)
	SetStatus(ctx context.Context, id string, status Status) (*News, error)
}

// NewsService defines the business logic for published content.
type NewsService interface {
	ListActive(ctx context.Context, typ NewsType) ([]*News, error)
	ListInactive(ctx context.Context) ([]*News, error)
	GetByID(ctx context.Context, id string) (*News, error)
	Create(ctx context.Context, n *News) (*News, error)
	Update(ctx context.Context, id string, upd NewsUpdate) (*News, error)
	ToggleStatus(ctx context.Context, id string) (*News, error)
}
