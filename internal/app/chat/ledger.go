package chat

import (
	"context"
	"time"

	"github.com/lunaapp/luna-backend/internal/domain"
	"github.com/lunaapp/luna-backend/internal/observability"
)

// Both reads scan every event for the identity and filter in process; the
// store is not assumed to support compound filters (identity AND persona,
// identity AND time range).

// priorMessages reports whether any stored event for id carries the given
// persona, and how many do. A store failure degrades to "not new" with a
// zero count — an outage must not change how the user is addressed.
func (s *Service) priorMessages(ctx context.Context, id domain.Identity, p domain.Persona) (hasPrior bool, count int) {
	events, err := s.events.ListByIdentity(ctx, id)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("ledger read failed, assuming existing conversation",
			"user_id", id, "error", err)
		return true, 0
	}

	for _, ev := range events {
		if ev.Persona == p {
			count++
		}
	}
	return count > 0, count
}

// recentCount counts events for id across all personas with CreatedAt after
// windowStart. Quota is global per identity, not persona-scoped. Fails open
// to zero: a store outage never locks users out, which also means the quota
// is not a hard guarantee under store failure.
func (s *Service) recentCount(ctx context.Context, id domain.Identity, windowStart time.Time) int {
	events, err := s.events.ListByIdentity(ctx, id)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("ledger read failed, quota not applied",
			"user_id", id, "error", err)
		return 0
	}

	n := 0
	for _, ev := range events {
		if ev.CreatedAt.After(windowStart) {
			n++
		}
	}
	return n
}
