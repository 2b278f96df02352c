package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"communityhub/internal/domain"
)

// notifyTimeout bounds the background registration email so a slow mail
// provider never holds a goroutine forever.
const notifyTimeout = 15 * time.Second

type activityService struct {
	logger           *slog.Logger
	activityRepo     domain.ActivityRepository
	registrationRepo domain.RegistrationRepository
	userRepo         domain.UserRepository
	emailService     domain.EmailService
	frontendURL      string
	now              func() time.Time
}

// NewActivityService creates an ActivityService with the given repositories
// and the email service used for registration confirmations.
func NewActivityService(
	logger *slog.Logger,
	activityRepo domain.ActivityRepository,
	registrationRepo domain.RegistrationRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	frontendURL string,
) domain.ActivityService {
	return &activityService{
		logger:           logger,
		activityRepo:     activityRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		emailService:     emailService,
		frontendURL:      frontendURL,
		now:              time.Now,
	}
}

func (s *activityService) List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.Activity, error) {
	activities, err := s.activityRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	sweepExpired(ctx, s.logger, activities, s.now(),
		s.activityRepo.BulkSetStatus,
		func(a *domain.Activity) { a.Status = domain.StatusInactive },
	)
	return activities, nil
}

func (s *activityService) ListUpcoming(ctx context.Context) ([]*domain.Activity, error) {
	activities, err := s.activityRepo.ListUpcoming(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("list upcoming activities: %w", err)
	}
	return activities, nil
}

func (s *activityService) GetByID(ctx context.Context, id string) (*domain.ActivityWithUsers, error) {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	sweepExpired(ctx, s.logger, []*domain.Activity{activity}, s.now(),
		s.activityRepo.BulkSetStatus,
		func(a *domain.Activity) { a.Status = domain.StatusInactive },
	)
	return s.withUsers(ctx, activity)
}

func (s *activityService) withUsers(ctx context.Context, activity *domain.Activity) (*domain.ActivityWithUsers, error) {
	users, err := s.registrationRepo.ListUsersByActivity(ctx, activity.ID)
	if err != nil {
		return nil, fmt.Errorf("list registered users: %w", err)
	}
	return &domain.ActivityWithUsers{Activity: activity, Users: users}, nil
}

// Create persists a new activity. Status is forced to DRAFT regardless of
// what the client sent.
func (s *activityService) Create(ctx context.Context, a *domain.Activity) (*domain.Activity, error) {
	now := s.now()
	a.Status = domain.StatusDraft
	a.CreatedAt = now
	a.UpdatedAt = now
	if err := s.activityRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	return a, nil
}

func (s *activityService) Update(ctx context.Context, id string, upd domain.ActivityUpdate) (*domain.Activity, error) {
	a, err := s.activityRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update activity: %w", err)
	}
	return a, nil
}

func (s *activityService) Delete(ctx context.Context, id string) error {
	if err := s.activityRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}

// Named transitions are unconditional overwrites; only ToggleStatus branches
// on the current state.

func (s *activityService) Approve(ctx context.Context, id string) (*domain.Activity, error) {
	return s.setStatus(ctx, id, domain.StatusActive)
}

func (s *activityService) Reject(ctx context.Context, id string) (*domain.Activity, error) {
	return s.setStatus(ctx, id, domain.StatusRejected)
}

func (s *activityService) RequestRevision(ctx context.Context, id string) (*domain.Activity, error) {
	return s.setStatus(ctx, id, domain.StatusRevision)
}

func (s *activityService) MarkPending(ctx context.Context, id string) (*domain.Activity, error) {
	return s.setStatus(ctx, id, domain.StatusDraft)
}

func (s *activityService) setStatus(ctx context.Context, id string, status domain.Status) (*domain.Activity, error) {
	a, err := s.activityRepo.SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set activity status: %w", err)
	}
	return a, nil
}

// ToggleStatus flips ACTIVE<->INACTIVE. For any other current status it is a
// no-op returning the activity unchanged; DRAFT/REVISION/REJECTED are left
// through the named transitions only.
func (s *activityService) ToggleStatus(ctx context.Context, id string) (*domain.Activity, error) {
	a, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	next, ok := a.Status.Toggled()
	if !ok {
		return a, nil
	}
	return s.setStatus(ctx, id, next)
}

func (s *activityService) Register(ctx context.Context, activityID, userID string) (*domain.RegistrationResult, error) {
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: activity not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if activity.Status != domain.StatusActive {
		return nil, fmt.Errorf("%w: activity is not active for registration", domain.ErrConflict)
	}

	registered, err := s.registrationRepo.Exists(ctx, activityID, userID)
	if err != nil {
		return nil, fmt.Errorf("check registration: %w", err)
	}
	if registered {
		return nil, fmt.Errorf("%w: user is already registered for this activity", domain.ErrConflict)
	}

	// The unique constraint on (activity_id, user_id) backstops the check
	// above under concurrent registrations.
	if err := s.registrationRepo.Create(ctx, activityID, userID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: user is already registered for this activity", domain.ErrConflict)
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	// Confirmation email is best effort and detached from the response path:
	// a mail failure must never roll back or fail the registration.
	s.notifyRegistration(activity, user)

	projection, err := s.withUsers(ctx, activity)
	if err != nil {
		return nil, err
	}
	return &domain.RegistrationResult{
		Message:  "User successfully registered for activity",
		Activity: projection,
	}, nil
}

func (s *activityService) notifyRegistration(activity *domain.Activity, user *domain.User) {
	links := domain.NewCalendarLinks(
		activity.Title, activity.Description,
		activity.Date, activity.Date.Add(time.Hour), activity.Link,
	)
	data := &domain.ActivityRegistrationEmailData{
		Email:              user.Email,
		FullName:           user.FirstName + " " + user.LastName,
		Title:              activity.Title,
		Description:        activity.Description,
		Date:               activity.Date.Format("Monday, 2 January 2006"),
		Time:               activity.Time,
		Link:               activity.Link,
		ProfileURL:         s.frontendURL + "/profile/activities",
		GoogleCalendarURL:  links.Google,
		OutlookCalendarURL: links.Outlook,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.emailService.SendActivityRegistration(ctx, data); err != nil {
			s.logger.Warn("registration email failed",
				"activity_id", activity.ID, "user_id", user.ID, "err", err)
		}
	}()
}

func (s *activityService) Unregister(ctx context.Context, activityID, userID string) (*domain.RegistrationResult, error) {
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: activity not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	registered, err := s.registrationRepo.Exists(ctx, activityID, userID)
	if err != nil {
		return nil, fmt.Errorf("check registration: %w", err)
	}
	if !registered {
		return nil, fmt.Errorf("%w: user is not registered for this activity", domain.ErrConflict)
	}

	if err := s.registrationRepo.Delete(ctx, activityID, userID); err != nil {
		return nil, fmt.Errorf("delete registration: %w", err)
	}

	projection, err := s.withUsers(ctx, activity)
	if err != nil {
		return nil, err
	}
	return &domain.RegistrationResult{
		Message:  "User successfully unregistered from activity",
		Activity: projection,
	}, nil
}

func (s *activityService) ActivitiesByUser(ctx context.Context, userID string) ([]*domain.Activity, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	activities, err := s.registrationRepo.ListActivitiesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list activities by user: %w", err)
	}
	return activities, nil
}

func (s *activityService) UsersByActivity(ctx context.Context, activityID string) ([]*domain.UserSummary, error) {
	if _, err := s.activityRepo.GetByID(ctx, activityID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: activity not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	users, err := s.registrationRepo.ListUsersByActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("list users by activity: %w", err)
	}
	return users, nil
}
