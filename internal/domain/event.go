package domain

import (
	"context"
	"time"
)

// Event represents a platform event. Type distinguishes full events from
// lightweight activity entries stored in the same table.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Type        EventType `json:"type"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ExpiryDate returns the instant used by the lazy expiry sweep.
func (e *Event) ExpiryDate() (time.Time, bool) {
	return e.Date, true
}

// CurrentStatus implements the sweep candidate interface.
func (e *Event) CurrentStatus() Status { return e.Status }

// EntityID implements the sweep candidate interface.
func (e *Event) EntityID() string { return e.ID }

// EventFilter narrows event listings. Nil fields mean "no filter".
type EventFilter struct {
	Status *Status
	Type   *EventType
}

// EventUpdate carries the partial-update fields. Nil fields are unchanged.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *time.Time
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string, typ EventType) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]*Event, error)
	Update(ctx context.Context, id string, typ EventType, upd EventUpdate) (*Event, error)
	SetStatus(ctx context.Context, id string, status Status) (*Event, error)
	BulkSetStatus(ctx context.Context, ids []string, status Status) error
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for events and their lifecycle.
type EventService interface {
	List(ctx context.Context, typ EventType, status *Status) ([]*Event, error)
	GetByID(ctx context.Context, id string, typ EventType) (*Event, error)
	Create(ctx context.Context, e *Event) (*Event, error)
	Update(ctx context.Context, id string, typ EventType, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error

	Approve(ctx context.Context, id string) (*Event, error)
	Reject(ctx context.Context, id string) (*Event, error)
	RequestRevision(ctx context.Context, id string) (*Event, error)
	ToggleStatus(ctx context.Context, id string) (*Event, error)
}
