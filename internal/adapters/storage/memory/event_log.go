package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lunaapp/luna-backend/internal/domain"
)

// EventLog is an in-memory domain.EventLog. Append stamps CreatedAt with
// the store clock when the caller left it zero, mirroring the server-side
// timestamp the real store assigns; tests seeding history may pre-set it.
type EventLog struct {
	mu     sync.RWMutex
	events map[domain.Identity][]*domain.ChatEvent
	now    func() time.Time
}

func NewEventLog() *EventLog {
	return &EventLog{
		events: make(map[domain.Identity][]*domain.ChatEvent),
		now:    time.Now,
	}
}

func (l *EventLog) Append(ctx context.Context, ev *domain.ChatEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	stored := *ev
	if stored.ID == "" {
		stored.ID = domain.EventID(uuid.NewString())
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = l.now()
	}

	l.events[stored.Identity] = append(l.events[stored.Identity], &stored)
	return nil
}

func (l *EventLog) ListByIdentity(ctx context.Context, id domain.Identity) ([]*domain.ChatEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	events := l.events[id]
	out := make([]*domain.ChatEvent, len(events))
	for i, ev := range events {
		cp := *ev
		out[i] = &cp
	}
	return out, nil
}
