package domain

import "time"

// Identity is the opaque per-user token issued by the external identity
// provider. The backend never creates or interprets it beyond shape checks.
type Identity string

// Persona names one of the fixed behavioral profiles.
type Persona string

type EventID string

// SubscriptionStatus is the lifecycle state of a subscription record.
type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusInactive  SubscriptionStatus = "inactive"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusNone      SubscriptionStatus = "none"
)

type Timestamp = time.Time
