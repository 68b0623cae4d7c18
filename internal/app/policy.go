package app

import (
	"errors"

	"github.com/dkeye/livecast/internal/domain"
)

// Websocket close codes (RFC 6455 section 7.4.1).
const (
	CloseNormal          = 1000
	CloseGoingAway       = 1001
	ClosePolicyViolation = 1008
	CloseInternalError   = 1011
)

// CloseCodeFor maps a terminal connection error to the close code sent to
// the client. Moderation and auth failures share the policy-violation code.
func CloseCodeFor(err error) (code int, reason string) {
	switch {
	case err == nil:
		return CloseNormal, ""
	case errors.Is(err, domain.ErrUnauthorized):
		return ClosePolicyViolation, "unauthorized"
	case errors.Is(err, domain.ErrSessionNotFound):
		return ClosePolicyViolation, "unknown stream"
	case errors.Is(err, domain.ErrForbidden):
		return ClosePolicyViolation, "forbidden"
	case errors.Is(err, domain.ErrStorage):
		return CloseInternalError, "storage unavailable"
	default:
		return CloseInternalError, "internal error"
	}
}

// ErrorCode is the short code sent in an error event to the sender only.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrMessageTooLong):
		return "message_too_long"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrStorage):
		return "storage_unavailable"
	default:
		return "bad_payload"
	}
}
