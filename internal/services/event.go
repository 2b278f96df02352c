package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"communityhub/internal/domain"
)

type eventService struct {
	logger    *slog.Logger
	eventRepo domain.EventRepository
	now       func() time.Time
}

// NewEventService creates an EventService with the given repository.
func NewEventService(logger *slog.Logger, eventRepo domain.EventRepository) domain.EventService {
	return &eventService{
		logger:    logger,
		eventRepo: eventRepo,
		now:       time.Now,
	}
}

// List returns events of the given type, swept for expiry. The sweep flips
// only the listed candidates, never the whole table.
func (s *eventService) List(ctx context.Context, typ domain.EventType, status *domain.Status) ([]*domain.Event, error) {
	filter := domain.EventFilter{Type: &typ, Status: status}
	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	sweepExpired(ctx, s.logger, events, s.now(),
		s.eventRepo.BulkSetStatus,
		func(e *domain.Event) { e.Status = domain.StatusInactive },
	)
	return events, nil
}

func (s *eventService) GetByID(ctx context.Context, id string, typ domain.EventType) (*domain.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, id, typ)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// Create persists a new event. Status is forced to DRAFT server-side.
func (s *eventService) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	now := s.now()
	e.Status = domain.StatusDraft
	e.CreatedAt = now
	e.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return e, nil
}

func (s *eventService) Update(ctx context.Context, id string, typ domain.EventType, upd domain.EventUpdate) (*domain.Event, error) {
	e, err := s.eventRepo.Update(ctx, id, typ, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return e, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) Approve(ctx context.Context, id string) (*domain.Event, error) {
	return s.setStatus(ctx, id, domain.StatusActive)
}

func (s *eventService) Reject(ctx context.Context, id string) (*domain.Event, error) {
	return s.setStatus(ctx, id, domain.StatusRejected)
}

func (s *eventService) RequestRevision(ctx context.Context, id string) (*domain.Event, error) {
	return s.setStatus(ctx, id, domain.StatusRevision)
}

func (s *eventService) ToggleStatus(ctx context.Context, id string) (*domain.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, id, domain.EventTypeEvent)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	next, ok := e.Status.Toggled()
	if !ok {
		return e, nil
	}
	return s.setStatus(ctx, id, next)
}

func (s *eventService) setStatus(ctx context.Context, id string, status domain.Status) (*domain.Event, error) {
	e, err := s.eventRepo.SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set event status: %w", err)
	}
	return e, nil
}
