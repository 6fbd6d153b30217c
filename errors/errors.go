package errors

import "fmt"

// Failure kinds surfaced to callers. Causes are wrapped behind them with %w
// so both the kind and the underlying reason stay matchable with errors.Is.
var (
	ErrFetch        = fmt.Errorf("fetch failed")
	ErrSend         = fmt.Errorf("send failed")
	ErrResolve      = fmt.Errorf("direct channel resolution failed")
	ErrSubscription = fmt.Errorf("subscription failed")
)

var (
	ErrEmptyContent       = fmt.Errorf("message content is empty")
	ErrContentTooLong     = fmt.Errorf("message content is too long")
	ErrNoActiveChannel    = fmt.Errorf("no active channel")
	ErrInvalidCounterpart = fmt.Errorf("invalid direct channel counterpart")
	ErrChannelNotFound    = fmt.Errorf("channel not found")
	ErrInvalidChannelID   = fmt.Errorf("invalid channel id")
	ErrNotDirectChannel   = fmt.Errorf("channel is not a direct channel")
	ErrProfileNotFound    = fmt.Errorf("profile not found")
	ErrMessageNotFound    = fmt.Errorf("message not found")
	ErrSubscriberTooSlow  = fmt.Errorf("subscriber buffer full")
	ErrSubscriptionClosed = fmt.Errorf("subscription closed")
	ErrInvalidPayload     = fmt.Errorf("invalid event payload")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrUnauthenticated    = fmt.Errorf("unauthenticated")
	ErrEmptyWords         = fmt.Errorf("no censored word loaded")
)

var (
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrInvalidHash        = fmt.Errorf("invalid password hash format")
)

// Wrap attaches cause behind kind, keeping both visible to errors.Is.
func Wrap(kind, cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", kind, cause)
}
