package services

import (
	"context"
	"testing"
	"time"

	"communityhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEventService(repo *fakeEventRepo, now time.Time) *eventService {
	return &eventService{
		logger:    testLogger(),
		eventRepo: repo,
		now:       func() time.Time { return now },
	}
}

func TestEventService_List_SweepsExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	expired := &domain.Event{ID: "e1", Type: domain.EventTypeEvent, Status: domain.StatusActive, Date: now.Add(-time.Hour)}
	upcoming := &domain.Event{ID: "e2", Type: domain.EventTypeEvent, Status: domain.StatusActive, Date: now.Add(time.Hour)}
	draft := &domain.Event{ID: "e3", Type: domain.EventTypeEvent, Status: domain.StatusDraft, Date: now.Add(-time.Hour)}

	svc := newTestEventService(newFakeEventRepo(expired, upcoming, draft), now)

	events, err := svc.List(ctx, domain.EventTypeEvent, nil)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, domain.StatusInactive, expired.Status)
	assert.Equal(t, domain.StatusActive, upcoming.Status)
	assert.Equal(t, domain.StatusDraft, draft.Status)
}

func TestEventService_Create_ForcesDraft(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	svc := newTestEventService(newFakeEventRepo(), now)

	created, err := svc.Create(ctx, &domain.Event{
		Title:  "Annual conference",
		Date:   now.Add(24 * time.Hour),
		Type:   domain.EventTypeEvent,
		Status: domain.StatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, created.Status)
}

func TestEventService_Transitions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	e := &domain.Event{ID: "e1", Type: domain.EventTypeEvent, Status: domain.StatusDraft, Date: now.Add(time.Hour)}
	svc := newTestEventService(newFakeEventRepo(e), now)

	got, err := svc.Approve(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)

	got, err = svc.RequestRevision(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRevision, got.Status)

	got, err = svc.Reject(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)
}

func TestEventService_ToggleStatus_NoOpOnDraft(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	e := &domain.Event{ID: "e1", Type: domain.EventTypeEvent, Status: domain.StatusDraft, Date: now.Add(time.Hour)}
	svc := newTestEventService(newFakeEventRepo(e), now)

	got, err := svc.ToggleStatus(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, got.Status)
}

func TestEventService_GetByID_WrongTypeNotFound(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	e := &domain.Event{ID: "e1", Type: domain.EventTypeActivity, Status: domain.StatusActive, Date: now.Add(time.Hour)}
	svc := newTestEventService(newFakeEventRepo(e), now)

	_, err := svc.GetByID(ctx, "e1", domain.EventTypeEvent)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
