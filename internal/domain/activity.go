package domain

import (
	"context"
	"time"
)

// Activity represents a community activity (webinar, workshop, meetup).
// swagger:model Activity
type Activity struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Date        time.Time    `json:"date"`
	Time        string       `json:"time"`
	Link        string       `json:"link"`
	Type        ActivityType `json:"type"`
	Status      Status       `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ExpiryDate returns the instant used by the lazy expiry sweep.
func (a *Activity) ExpiryDate() (time.Time, bool) {
	return a.Date, true
}

// CurrentStatus implements the sweep candidate interface.
func (a *Activity) CurrentStatus() Status { return a.Status }

// EntityID implements the sweep candidate interface.
func (a *Activity) EntityID() string { return a.ID }

// ActivityWithUsers is the detail projection including registered users.
// swagger:model ActivityWithUsers
type ActivityWithUsers struct {
	*Activity
	Users []*UserSummary `json:"users"`
}

// ActivityFilter narrows activity listings. Nil fields mean "no filter".
type ActivityFilter struct {
	Status *Status
	Type   *ActivityType
}

// ActivityUpdate carries the partial-update fields. Nil fields are unchanged.
type ActivityUpdate struct {
	Title       *string
	Description *string
	Date        *time.Time
	Time        *string
	Link        *string
	Type        *ActivityType
}

// ActivityRepository defines the interface for activity storage
type ActivityRepository interface {
	Create(ctx context.Context, a *Activity) error
	GetByID(ctx context.Context, id string) (*Activity, error)
	List(ctx context.Context, filter ActivityFilter) ([]*Activity, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]*Activity, error)
	Update(ctx context.Context, id string, upd ActivityUpdate) (*Activity, error)
	SetStatus(ctx context.Context, id string, status Status) (*Activity, error)
	// BulkSetStatus flips exactly the given ids; used by the expiry sweep.
	BulkSetStatus(ctx context.Context, ids []string, status Status) error
	Delete(ctx context.Context, id string) error
}

// RegistrationRepository manages the activity<->user membership relation.
// The pair is unique; Create returns ErrConflict on a duplicate.
type RegistrationRepository interface {
	Create(ctx context.Context, activityID, userID string) error
	Delete(ctx context.Context, activityID, userID string) error
	Exists(ctx context.Context, activityID, userID string) (bool, error)
	ListUsersByActivity(ctx context.Context, activityID string) ([]*UserSummary, error)
	ListActivitiesByUser(ctx context.Context, userID string) ([]*Activity, error)
}

// RegistrationResult is returned by Register/Unregister: the updated activity
// projection plus a human-readable message.
// swagger:model RegistrationResult
type RegistrationResult struct {
	Message  string             `json:"message"`
	Activity *ActivityWithUsers `json:"activity"`
}

// ActivityService defines the business logic for activities, their lifecycle
// transitions, and user registration.
type ActivityService interface {
	List(ctx context.Context, filter ActivityFilter) ([]*Activity, error)
	ListUpcoming(ctx context.Context) ([]*Activity, error)
	GetByID(ctx context.Context, id string) (*ActivityWithUsers, error)
	Create(ctx context.Context, a *Activity) (*Activity, error)
	Update(ctx context.Context, id string, upd ActivityUpdate) (*Activity, error)
	Delete(ctx context.Context, id string) error

	Approve(ctx context.Context, id string) (*Activity, error)
	Reject(ctx context.Context, id string) (*Activity, error)
	RequestRevision(ctx context.Context, id string) (*Activity, error)
	MarkPending(ctx context.Context, id string) (*Activity, error)
	ToggleStatus(ctx context.Context, id string) (*Activity, error)

	Register(ctx context.Context, activityID, userID string) (*RegistrationResult, error)
	Unregister(ctx context.Context, activityID, userID string) (*RegistrationResult, error)
	ActivitiesByUser(ctx context.Context, userID string) ([]*Activity, error)
	UsersByActivity(ctx context.Context, activityID string) ([]*UserSummary, error)
}
