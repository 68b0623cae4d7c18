package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkeye/livecast/internal/domain"
)

func TestCloseCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{nil, CloseNormal},
		{fmt.Errorf("%w: expired", domain.ErrUnauthorized), ClosePolicyViolation},
		{fmt.Errorf("%w: %w", domain.ErrForbidden, domain.ErrSessionNotFound), ClosePolicyViolation},
		{fmt.Errorf("%w: banned", domain.ErrForbidden), ClosePolicyViolation},
		{fmt.Errorf("%w: db", domain.ErrStorage), CloseInternalError},
		{errors.New("boom"), CloseInternalError},
	}
	for _, tt := range tests {
		code, _ := CloseCodeFor(tt.err)
		assert.Equal(t, tt.code, code, "%v", tt.err)
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "message_too_long", ErrorCode(domain.ErrMessageTooLong))
	assert.Equal(t, "rate_limited", ErrorCode(domain.ErrRateLimited))
	assert.Equal(t, "storage_unavailable", ErrorCode(fmt.Errorf("%w: x", domain.ErrStorage)))
	assert.Equal(t, "bad_payload", ErrorCode(errors.New("other")))
}
