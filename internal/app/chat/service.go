// Package chat holds the request admission core: input validation,
// entitlement and quota checks, prompt composition, model fallback and the
// ledger append, sequenced by Service.Send.
package chat

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/lunaapp/luna-backend/internal/domain"
	"github.com/lunaapp/luna-backend/internal/observability"
	"github.com/lunaapp/luna-backend/internal/persona"
)

// Policy carries the tunable admission constants. Zero values fall back to
// the defaults the product shipped with.
type Policy struct {
	// Models are the upstream candidates, tried in order.
	Models []string
	// FreeDailyLimit is the number of free-tier events allowed inside the
	// trailing QuotaWindow.
	FreeDailyLimit int
	QuotaWindow    time.Duration
}

var defaultModels = []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-2.0-flash"}

type Service struct {
	provider domain.CompletionProvider
	events   domain.EventLog
	subs     domain.SubscriptionStore

	models    []string
	freeLimit int
	window    time.Duration
	now       func() time.Time
}

func NewService(
	provider domain.CompletionProvider,
	events domain.EventLog,
	subs domain.SubscriptionStore,
	policy Policy,
) *Service {
	if len(policy.Models) == 0 {
		policy.Models = defaultModels
	}
	if policy.FreeDailyLimit <= 0 {
		policy.FreeDailyLimit = 20
	}
	if policy.QuotaWindow <= 0 {
		policy.QuotaWindow = 24 * time.Hour
	}

	return &Service{
		provider:  provider,
		events:    events,
		subs:      subs,
		models:    policy.Models,
		freeLimit: policy.FreeDailyLimit,
		window:    policy.QuotaWindow,
		now:       time.Now,
	}
}

type SendInput struct {
	Identity domain.Identity
	Persona  domain.Persona
	Message  string
}

type SendOutput struct {
	Reply string
	Model string
}

// Send runs one chat request end to end: validate, check entitlement and
// quota, compose the prompt, request a completion with model fallback, and
// append the exchange to the event log.
func (s *Service) Send(ctx context.Context, in SendInput) (*SendOutput, error) {
	if s.events == nil {
		return nil, domain.ErrStoreNotConfigured
	}
	if s.provider == nil {
		return nil, domain.ErrCompletionNotConfigured
	}

	// Fail fast on input shape, before any external call.
	if !ValidIdentity(string(in.Identity)) {
		return nil, domain.ErrInvalidIdentity
	}
	if !ValidMessage(in.Message) {
		return nil, domain.ErrInvalidMessage
	}
	if !persona.Valid(in.Persona) {
		return nil, domain.ErrInvalidPersona
	}

	log := observability.LoggerFromContext(ctx).With(
		"user_id", in.Identity,
		"persona", in.Persona,
	)

	if !s.isUnlimited(ctx, in.Identity) {
		windowStart := s.now().Add(-s.window)
		recent := s.recentCount(ctx, in.Identity, windowStart)
		log.Debug("free-tier usage", "recent", recent, "limit", s.freeLimit)

		if recent >= s.freeLimit {
			log.Info("daily limit reached")
			return nil, domain.ErrDailyLimitReached
		}
	}

	hasPrior, priorCount := s.priorMessages(ctx, in.Identity, in.Persona)
	prompt := persona.BuildPrompt(in.Persona, !hasPrior, priorCount, in.Message)

	completion, err := s.requestCompletion(ctx, prompt)
	if err != nil {
		log.Error("completion failed", "error", err)
		return nil, err
	}

	ev := &domain.ChatEvent{
		Identity:    in.Identity,
		Persona:     in.Persona,
		UserMessage: in.Message,
		ReplyText:   completion.Text,
	}
	if err := s.events.Append(ctx, ev); err != nil {
		// The reply already exists; losing the event is a warning, never a
		// user-visible failure.
		log.Warn("failed to persist chat event", "error", err)
	}

	return &SendOutput{Reply: completion.Text, Model: completion.Model}, nil
}

// isUnlimited reports whether the identity holds an active subscription.
// Any fetch failure counts as not unlimited: entitlement fails closed while
// quota fails open.
func (s *Service) isUnlimited(ctx context.Context, id domain.Identity) bool {
	if s.subs == nil {
		return false
	}

	sub, err := s.subs.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrSubscriptionNotFound) {
			observability.LoggerFromContext(ctx).Warn("subscription lookup failed",
				"user_id", id, "error", err)
		}
		return false
	}
	return sub.Status == domain.StatusActive
}

// History returns the identity's events for one persona, oldest first.
// A store read failure degrades to an empty history.
func (s *Service) History(ctx context.Context, id domain.Identity, p domain.Persona) ([]*domain.ChatEvent, error) {
	if s.events == nil {
		return nil, domain.ErrStoreNotConfigured
	}
	if !ValidIdentity(string(id)) {
		return nil, domain.ErrInvalidIdentity
	}
	if !persona.Valid(p) {
		return nil, domain.ErrInvalidPersona
	}

	events, err := s.events.ListByIdentity(ctx, id)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("history read failed",
			"user_id", id, "error", err)
		return []*domain.ChatEvent{}, nil
	}

	out := make([]*domain.ChatEvent, 0, len(events))
	for _, ev := range events {
		if ev.Persona == p {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
