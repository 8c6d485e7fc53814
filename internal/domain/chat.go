package domain

// ChatEvent is one persisted user-message/reply pair. Events are immutable:
// the log is append-only, nothing updates or deletes them.
type ChatEvent struct {
	ID          EventID
	Identity    Identity
	Persona     Persona
	UserMessage string
	ReplyText   string

	// CreatedAt is assigned by the store at write time (server clock),
	// never by the caller. Quota windows depend on that.
	CreatedAt Timestamp
}

// Subscription is the per-identity payment record, keyed one-to-one by
// Identity. It is written by the payment webhook and read by the chat core.
type Subscription struct {
	Identity       Identity
	SubscriptionID string
	CustomerID     string
	Status         SubscriptionStatus
	PlanID         string
	CreatedAt      Timestamp
	UpdatedAt      Timestamp
}
