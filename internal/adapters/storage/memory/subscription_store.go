package memory

import (
	"context"
	"sync"

	"github.com/lunaapp/luna-backend/internal/domain"
)

// SubscriptionStore is an in-memory domain.SubscriptionStore.
type SubscriptionStore struct {
	mu   sync.RWMutex
	subs map[domain.Identity]*domain.Subscription
}

func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{
		subs: make(map[domain.Identity]*domain.Subscription),
	}
}

func (s *SubscriptionStore) Get(ctx context.Context, id domain.Identity) (*domain.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[id]
	if !ok {
		return nil, domain.ErrSubscriptionNotFound
	}
	out := *sub
	return &out, nil
}

func (s *SubscriptionStore) Upsert(ctx context.Context, sub *domain.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *sub
	s.subs[sub.Identity] = &stored
	return nil
}

func (s *SubscriptionStore) UpdateStatus(ctx context.Context, id domain.Identity, status domain.SubscriptionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok {
		return domain.ErrSubscriptionNotFound
	}
	sub.Status = status
	return nil
}

func (s *SubscriptionStore) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.subs {
		if sub.SubscriptionID == subscriptionID {
			out := *sub
			return &out, nil
		}
	}
	return nil, domain.ErrSubscriptionNotFound
}
