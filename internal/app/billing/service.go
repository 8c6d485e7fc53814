// Package billing is a thin pass-through over the payment provider:
// checkout sessions, webhook upserts of the subscription record, a status
// query with lazy reconciliation, and customer-portal sessions.
package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lunaapp/luna-backend/internal/app/chat"
	"github.com/lunaapp/luna-backend/internal/domain"
	"github.com/lunaapp/luna-backend/internal/observability"
)

type Service struct {
	provider domain.PaymentProvider
	subs     domain.SubscriptionStore

	plans       map[string]Plan
	frontendURL string
	now         func() time.Time
}

// NewService creates the billing service. A nil provider puts it in
// disabled mode: every provider-backed operation fails with
// ErrBillingNotConfigured.
func NewService(
	provider domain.PaymentProvider,
	subs domain.SubscriptionStore,
	plans map[string]Plan,
	frontendURL string,
) *Service {
	return &Service{
		provider:    provider,
		subs:        subs,
		plans:       plans,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

// Enabled reports whether a payment provider is configured.
func (s *Service) Enabled() bool { return s.provider != nil }

// GetPlan returns the plan definition for a given plan ID.
func (s *Service) GetPlan(id string) (Plan, bool) {
	p, ok := s.plans[id]
	return p, ok
}

// CreateCheckout creates a provider checkout session for the given plan.
func (s *Service) CreateCheckout(ctx context.Context, id domain.Identity, planID string) (*domain.CheckoutSession, error) {
	if !s.Enabled() {
		return nil, domain.ErrBillingNotConfigured
	}
	if s.subs == nil {
		return nil, domain.ErrStoreNotConfigured
	}
	if !chat.ValidIdentity(string(id)) {
		return nil, domain.ErrInvalidIdentity
	}

	plan, ok := s.plans[planID]
	if !ok {
		return nil, domain.ErrUnknownPlan
	}

	sess, err := s.provider.CreateCheckoutSession(ctx, domain.CheckoutInput{
		Identity:    id,
		PlanID:      plan.ID,
		PlanName:    plan.Name,
		Description: "Unlock the full Luna Experience with premium features",
		AmountCents: plan.AmountCents,
		Currency:    plan.Currency,
		Interval:    plan.Interval,
		SuccessURL:  s.frontendURL + "?payment=success&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.frontendURL + "?payment=cancelled",
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("checkout session created",
		"user_id", id, "plan_id", plan.ID, "session_id", sess.ID)
	return sess, nil
}

// HandleWebhook verifies and applies one provider webhook event. The
// subscription record is only ever mutated here (plus the lazy repair in
// Status).
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !s.Enabled() {
		return domain.ErrBillingNotConfigured
	}

	ev, err := s.provider.ParseWebhookEvent(payload, signature)
	if err != nil {
		return err
	}

	log := observability.LoggerFromContext(ctx)

	switch ev.Kind {
	case domain.PaymentCheckoutCompleted:
		if ev.Identity == "" {
			log.Warn("checkout completed without a user reference", "subscription_id", ev.SubscriptionID)
			return nil
		}
		planID := ev.PlanID
		if planID == "" {
			planID = "monthly"
		}
		now := s.now()
		sub := &domain.Subscription{
			Identity:       ev.Identity,
			SubscriptionID: ev.SubscriptionID,
			CustomerID:     ev.CustomerID,
			Status:         domain.StatusActive,
			PlanID:         planID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.subs.Upsert(ctx, sub); err != nil {
			return fmt.Errorf("upsert subscription: %w", err)
		}
		log.Info("subscription created", "user_id", ev.Identity, "subscription_id", ev.SubscriptionID)

	case domain.PaymentSubscriptionUpdated:
		status := domain.StatusInactive
		if ev.Status == "active" {
			status = domain.StatusActive
		}
		if err := s.updateBySubscriptionID(ctx, ev.SubscriptionID, status); err != nil {
			return err
		}
		log.Info("subscription updated", "subscription_id", ev.SubscriptionID, "status", status)

	case domain.PaymentSubscriptionDeleted:
		if err := s.updateBySubscriptionID(ctx, ev.SubscriptionID, domain.StatusCancelled); err != nil {
			return err
		}
		log.Info("subscription cancelled", "subscription_id", ev.SubscriptionID)

	default:
		log.Debug("webhook event ignored", "kind", ev.Kind)
	}

	return nil
}

func (s *Service) updateBySubscriptionID(ctx context.Context, subscriptionID string, status domain.SubscriptionStatus) error {
	sub, err := s.subs.FindBySubscriptionID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			// Webhook for a subscription this backend never recorded.
			observability.LoggerFromContext(ctx).Warn("webhook for unknown subscription",
				"subscription_id", subscriptionID)
			return nil
		}
		return fmt.Errorf("find subscription %s: %w", subscriptionID, err)
	}
	if err := s.subs.UpdateStatus(ctx, sub.Identity, status); err != nil {
		return fmt.Errorf("update subscription status: %w", err)
	}
	return nil
}

// Status is the subscription state reported to the client.
type Status struct {
	IsSubscribed bool
	Status       domain.SubscriptionStatus
	PlanID       string
}

// Status reads the stored record and, when it claims to be active,
// reconciles against the provider's live state, lazily repairing a
// mismatch. Reconciliation failures are ignored: the stored record wins.
func (s *Service) Status(ctx context.Context, id domain.Identity) (*Status, error) {
	if s.subs == nil {
		return nil, domain.ErrStoreNotConfigured
	}
	if !chat.ValidIdentity(string(id)) {
		return nil, domain.ErrInvalidIdentity
	}

	sub, err := s.subs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			return &Status{IsSubscribed: false, Status: domain.StatusNone}, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	active := sub.Status == domain.StatusActive

	if s.Enabled() && active && sub.SubscriptionID != "" {
		live, err := s.provider.SubscriptionStatus(ctx, sub.SubscriptionID)
		if err == nil && live != "active" {
			if err := s.subs.UpdateStatus(ctx, id, domain.StatusInactive); err == nil {
				sub.Status = domain.StatusInactive
				active = false
			}
		}
	}

	planID := sub.PlanID
	if planID == "" {
		planID = "monthly"
	}
	return &Status{IsSubscribed: active, Status: sub.Status, PlanID: planID}, nil
}

// PortalSession creates a customer-portal URL for managing the
// subscription.
func (s *Service) PortalSession(ctx context.Context, id domain.Identity) (string, error) {
	if !s.Enabled() {
		return "", domain.ErrBillingNotConfigured
	}
	if s.subs == nil {
		return "", domain.ErrStoreNotConfigured
	}
	if !chat.ValidIdentity(string(id)) {
		return "", domain.ErrInvalidIdentity
	}

	sub, err := s.subs.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if sub.CustomerID == "" {
		return "", domain.ErrCustomerNotFound
	}

	url, err := s.provider.CreatePortalSession(ctx, sub.CustomerID, s.frontendURL+"/selectPersona")
	if err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}
	return url, nil
}
