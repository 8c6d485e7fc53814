package domain

import "context"

// CompletionProvider defines how the core asks an upstream model for text.
// Model selection and fallback live above this interface.
type CompletionProvider interface {
	Generate(ctx context.Context, model string, prompt string) (string, error)
}

// EventLog is the append-only chat event store. ListByIdentity returns every
// event for the identity; callers filter by persona or timestamp in process
// (the underlying store is not assumed to support compound filters).
type EventLog interface {
	Append(ctx context.Context, ev *ChatEvent) error
	ListByIdentity(ctx context.Context, id Identity) ([]*ChatEvent, error)
}

// SubscriptionStore persists subscription records keyed by identity.
type SubscriptionStore interface {
	Get(ctx context.Context, id Identity) (*Subscription, error)
	Upsert(ctx context.Context, sub *Subscription) error
	UpdateStatus(ctx context.Context, id Identity, status SubscriptionStatus) error
	FindBySubscriptionID(ctx context.Context, subscriptionID string) (*Subscription, error)
}

// PaymentEventKind classifies normalized webhook events.
type PaymentEventKind string

const (
	PaymentCheckoutCompleted   PaymentEventKind = "checkout_completed"
	PaymentSubscriptionUpdated PaymentEventKind = "subscription_updated"
	PaymentSubscriptionDeleted PaymentEventKind = "subscription_deleted"
	PaymentEventIgnored        PaymentEventKind = "ignored"
)

// PaymentEvent is a provider webhook event reduced to the fields the
// billing service acts on.
type PaymentEvent struct {
	Kind           PaymentEventKind
	Identity       Identity
	SubscriptionID string
	CustomerID     string
	PlanID         string
	Status         string
}

// CheckoutInput describes a checkout session to create.
type CheckoutInput struct {
	Identity    Identity
	PlanID      string
	PlanName    string
	Description string
	AmountCents int64
	Currency    string
	Interval    string
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession is the provider-side session handed back to the client.
type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentProvider is the narrow surface of the external payment system.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, in CheckoutInput) (*CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	SubscriptionStatus(ctx context.Context, subscriptionID string) (string, error)
	ParseWebhookEvent(payload []byte, signature string) (*PaymentEvent, error)
}
