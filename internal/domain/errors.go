package domain

import "errors"

// Sentinel errors. The HTTP layer maps these to status codes; everything
// else inside the core wraps with fmt.Errorf("...: %w", err).
var (
	// Validation — user-correctable, always a 400.
	ErrInvalidIdentity = errors.New("invalid user ID format")
	ErrInvalidMessage  = errors.New("invalid message")
	ErrInvalidPersona  = errors.New("invalid persona")

	// Configuration — a required external dependency is missing.
	ErrStoreNotConfigured      = errors.New("database not configured")
	ErrCompletionNotConfigured = errors.New("completion provider not configured")
	ErrBillingNotConfigured    = errors.New("billing not configured")

	// Business terminal state, not a failure: free-tier quota spent.
	ErrDailyLimitReached = errors.New("daily limit reached")

	// Upstream exhaustion: every model candidate failed.
	ErrUpstreamQuotaExhausted = errors.New("all model candidates exhausted quota")
	ErrUpstreamFailed         = errors.New("all model candidates failed")

	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrCustomerNotFound     = errors.New("customer ID not found")
	ErrUnknownPlan          = errors.New("invalid plan ID")
	ErrInvalidWebhook       = errors.New("invalid webhook payload")
)

// IsValidationError reports whether err is one of the input-shape failures.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidIdentity) ||
		errors.Is(err, ErrInvalidMessage) ||
		errors.Is(err, ErrInvalidPersona)
}

// IsConfigurationError reports whether err means an external dependency was
// never wired. Operator-correctable, never retried by the core.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrStoreNotConfigured) ||
		errors.Is(err, ErrCompletionNotConfigured) ||
		errors.Is(err, ErrBillingNotConfigured)
}
