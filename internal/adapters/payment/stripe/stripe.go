// Package stripe implements domain.PaymentProvider on the Stripe API:
// checkout and billing-portal sessions, live subscription lookups, and
// signed webhook parsing.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"

	"github.com/lunaapp/luna-backend/internal/domain"
)

type Provider struct {
	client        *stripe.Client
	webhookSecret string
}

// NewProvider creates a Stripe-backed payment provider. Both the secret key
// and the webhook signing secret are required.
func NewProvider(secretKey, webhookSecret string) (*Provider, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	if webhookSecret == "" {
		return nil, fmt.Errorf("stripe webhook secret is required")
	}

	return &Provider{
		client:        stripe.NewClient(secretKey),
		webhookSecret: webhookSecret,
	}, nil
}

func (p *Provider) CreateCheckoutSession(ctx context.Context, in domain.CheckoutInput) (*domain.CheckoutSession, error) {
	params := &stripe.CheckoutSessionCreateParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency: stripe.String(in.Currency),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name:        stripe.String(in.PlanName),
						Description: stripe.String(in.Description),
					},
					UnitAmount: stripe.Int64(in.AmountCents),
					Recurring: &stripe.CheckoutSessionCreateLineItemPriceDataRecurringParams{
						Interval: stripe.String(in.Interval),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(in.SuccessURL),
		CancelURL:         stripe.String(in.CancelURL),
		ClientReferenceID: stripe.String(string(in.Identity)),
		Metadata: map[string]string{
			"user_id": string(in.Identity),
			"plan_id": in.PlanID,
		},
	}

	sess, err := p.client.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}

	return &domain.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (p *Provider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	sess, err := p.client.V1BillingPortalSessions.Create(ctx, &stripe.BillingPortalSessionCreateParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	})
	if err != nil {
		return "", fmt.Errorf("stripe create portal session: %w", err)
	}
	return sess.URL, nil
}

func (p *Provider) SubscriptionStatus(ctx context.Context, subscriptionID string) (string, error) {
	sub, err := p.client.V1Subscriptions.Retrieve(ctx, subscriptionID, nil)
	if err != nil {
		return "", fmt.Errorf("stripe retrieve subscription: %w", err)
	}
	return string(sub.Status), nil
}

// ParseWebhookEvent verifies the signature and reduces the Stripe event to
// the fields the billing service acts on. Unhandled event types come back
// with Kind PaymentEventIgnored rather than an error.
func (p *Provider) ParseWebhookEvent(payload []byte, signature string) (*domain.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidWebhook, err)
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("%w: decode checkout session: %v", domain.ErrInvalidWebhook, err)
		}

		identity := sess.ClientReferenceID
		if identity == "" {
			identity = sess.Metadata["user_id"]
		}

		ev := &domain.PaymentEvent{
			Kind:     domain.PaymentCheckoutCompleted,
			Identity: domain.Identity(identity),
			PlanID:   sess.Metadata["plan_id"],
		}
		if sess.Subscription != nil {
			ev.SubscriptionID = sess.Subscription.ID
		}
		if sess.Customer != nil {
			ev.CustomerID = sess.Customer.ID
		}
		return ev, nil

	case stripe.EventTypeCustomerSubscriptionUpdated:
		sub, err := decodeSubscription(event.Data.Raw)
		if err != nil {
			return nil, err
		}
		return &domain.PaymentEvent{
			Kind:           domain.PaymentSubscriptionUpdated,
			SubscriptionID: sub.ID,
			Status:         string(sub.Status),
		}, nil

	case stripe.EventTypeCustomerSubscriptionDeleted:
		sub, err := decodeSubscription(event.Data.Raw)
		if err != nil {
			return nil, err
		}
		return &domain.PaymentEvent{
			Kind:           domain.PaymentSubscriptionDeleted,
			SubscriptionID: sub.ID,
			Status:         string(sub.Status),
		}, nil
	}

	return &domain.PaymentEvent{Kind: domain.PaymentEventIgnored}, nil
}

func decodeSubscription(raw json.RawMessage) (*stripe.Subscription, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fmt.Errorf("%w: decode subscription: %v", domain.ErrInvalidWebhook, err)
	}
	return &sub, nil
}
