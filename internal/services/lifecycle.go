package services

import (
	"context"
	"log/slog"
	"time"

	"communityhub/internal/domain"
)

// expirable is satisfied by entities subject to the lazy expiry sweep:
// anything ACTIVE whose reference date has passed gets flipped to INACTIVE
// at read time. There is no background timer.
type expirable interface {
	EntityID() string
	CurrentStatus() domain.Status
	ExpiryDate() (time.Time, bool)
}

// expiredIDs returns the ids of ACTIVE items whose reference date is strictly
// before now. Items without a reference date never expire.
func expiredIDs[T expirable](items []T, now time.Time) []string {
	var ids []string
	for _, item := range items {
		if item.CurrentStatus() != domain.StatusActive {
			continue
		}
		ref, ok := item.ExpiryDate()
		if ok && ref.Before(now) {
			ids = append(ids, item.EntityID())
		}
	}
	return ids
}

// sweepExpired reconciles persisted status with wall-clock expiry for the
// given candidate set and patches the in-memory items so the caller observes
// the corrected statuses in the same response. The bulk update is best
// effort: on failure the pre-sweep data is returned untouched and the error
// is only logged, since reads must never fail on a reconciliation write.
func sweepExpired[T expirable](
	ctx context.Context,
	logger *slog.Logger,
	items []T,
	now time.Time,
	bulkSetStatus func(ctx context.Context, ids []string, status domain.Status) error,
	markInactive func(item T),
) {
	ids := expiredIDs(items, now)
	if len(ids) == 0 {
		return
	}
	if err := bulkSetStatus(ctx, ids, domain.StatusInactive); err != nil {
		logger.WarnContext(ctx, "expiry sweep failed", "expired", len(ids), "err", err)
		return
	}
	expired := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		expired[id] = struct{}{}
	}
	for _, item := range items {
		if _, ok := expired[item.EntityID()]; ok {
			markInactive(item)
		}
	}
}
