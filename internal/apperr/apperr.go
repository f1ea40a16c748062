// Package apperr defines the error taxonomy shared by the entitlement,
// coupon and ad packages. Errors are typed so callers can branch with
// errors.Is / errors.As while the original cause stays reachable through
// Unwrap for logging.
package apperr

import (
	"fmt"

	"github.com/go-faster/errors"
)

// DefaultCouponMessage is surfaced when the pricing service gives no reason.
const DefaultCouponMessage = "Failed to validate coupon"

var (
	// ErrCouponInvalid is the category of every coupon validation failure,
	// including transport failures.
	ErrCouponInvalid = errors.New("coupon invalid")

	// ErrMalformedPayload marks a backend payload that failed boundary validation.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrOrderSource marks a failure to load a user's order history.
	ErrOrderSource = errors.New("order source unavailable")
)

// CouponInvalidError is returned when a coupon cannot be applied. Message is
// user-facing and returned verbatim by Error.
type CouponInvalidError struct {
	Message string
	// Transport is set when the pricing service could not be reached or
	// answered with something unreadable.
	Transport bool
	Err       error
}

// Error implements the error interface
func (e *CouponInvalidError) Error() string {
	if e.Message == "" {
		return DefaultCouponMessage
	}
	return e.Message
}

// Unwrap implements errors.Unwrap
func (e *CouponInvalidError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CouponInvalidError) Is(target error) bool {
	return target == ErrCouponInvalid
}

// NewCouponInvalid builds a rejection with the server message, falling back
// to DefaultCouponMessage when the server gave none.
func NewCouponInvalid(message string) *CouponInvalidError {
	if message == "" {
		message = DefaultCouponMessage
	}
	return &CouponInvalidError{Message: message}
}

// NewCouponTransport wraps a failure to complete the pricing call.
func NewCouponTransport(err error) *CouponInvalidError {
	return &CouponInvalidError{Message: DefaultCouponMessage, Transport: true, Err: err}
}

// MalformedPayloadError describes which part of a backend payload was rejected.
type MalformedPayloadError struct {
	Payload string
	Field   string
	Reason  string
	Err     error
}

// Error implements the error interface
func (e *MalformedPayloadError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed %s payload: field %s: %s", e.Payload, e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed %s payload: %s", e.Payload, e.Reason)
}

// Unwrap implements errors.Unwrap
func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *MalformedPayloadError) Is(target error) bool {
	return target == ErrMalformedPayload
}

// NewMalformedPayload creates a new MalformedPayloadError
func NewMalformedPayload(payload, field, reason string, err error) *MalformedPayloadError {
	return &MalformedPayloadError{Payload: payload, Field: field, Reason: reason, Err: err}
}

// IsCouponInvalid checks if an error is a coupon rejection of any kind
func IsCouponInvalid(err error) bool {
	return errors.Is(err, ErrCouponInvalid)
}

// IsMalformedPayload checks if an error came from boundary validation
func IsMalformedPayload(err error) bool {
	return errors.Is(err, ErrMalformedPayload)
}

// IsTransport reports whether a coupon failure was caused by the transport.
func IsTransport(err error) bool {
	var ci *CouponInvalidError
	return errors.As(err, &ci) && ci.Transport
}

// OrderSourceError wraps an order-history lookup failure for a user.
type OrderSourceError struct {
	UserID string
	Err    error
}

// Error implements the error interface
func (e *OrderSourceError) Error() string {
	return fmt.Sprintf("load orders for user %s: %v", e.UserID, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *OrderSourceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *OrderSourceError) Is(target error) bool {
	return target == ErrOrderSource
}
