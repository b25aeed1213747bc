package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		kind   Kind
		status int
	}{
		{"validation", Validation("bad input"), KindValidation, http.StatusBadRequest},
		{"auth", AuthInvalid("nope"), KindAuthInvalid, http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), KindForbidden, http.StatusForbidden},
		{"not found", NotFound("gone"), KindNotFound, http.StatusNotFound},
		{"insufficient credits", InsufficientCredits(2, 5), KindInsufficientCredits, http.StatusPaymentRequired},
		{"rate limited", RateLimited(50, 3600), KindRateLimited, http.StatusTooManyRequests},
		{"upstream error", UpstreamError(503, "bad"), KindUpstreamError, 503},
		{"upstream unavailable", UpstreamUnavailable(errors.New("dial")), KindUpstreamUnavailable, http.StatusBadGateway},
		{"internal", Internal(errors.New("boom")), KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, tt.status, tt.err.Status)
		})
	}
}

func TestUpstreamErrorKeepsStatus(t *testing.T) {
	err := UpstreamError(451, "blocked")
	assert.Equal(t, 451, err.Status)
	assert.Equal(t, 451, err.Details["upstream_status"])
	assert.Equal(t, "blocked", err.Details["upstream_body"])
}

func TestInsufficientCreditsDetails(t *testing.T) {
	err := InsufficientCredits(3, 10)
	assert.Equal(t, 3, err.Details["available"])
	assert.Equal(t, 10, err.Details["required"])
}

func TestFromError(t *testing.T) {
	t.Run("passes app errors through", func(t *testing.T) {
		original := Forbidden("no access")
		got := FromError(fmt.Errorf("handler: %w", original))
		require.Same(t, original, got)
	})

	t.Run("wraps unknown errors as internal", func(t *testing.T) {
		got := FromError(errors.New("surprise"))
		assert.Equal(t, KindInternal, got.Kind)
		assert.Equal(t, http.StatusInternalServerError, got.Status)
	})
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := UpstreamUnavailable(cause)
	assert.True(t, errors.Is(err, cause))
}
