package planka

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPError_KindMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   ErrorKind
	}{
		{401, KindAuthentication},
		{403, KindPermission},
		{404, KindNotFound},
		{422, KindValidation},
		{409, KindAPI},
		{500, KindAPI},
		{502, KindAPI},
	}

	for _, tt := range tests {
		err := httpError("GET /boards/b1", tt.status, "nope", nil)
		assert.Equal(t, tt.kind, err.Kind, "status %d", tt.status)
		assert.Equal(t, tt.status, err.Status, "status %d not carried", tt.status)
	}
}

func TestError_MessageIncludesOpAndStatus(t *testing.T) {
	err := httpError("DELETE /cards/c1", 404, "Card not found", nil)
	msg := err.Error()
	for _, part := range []string{"DELETE /cards/c1", "404", "Card not found"} {
		assert.Contains(t, msg, part)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := netError("GET /projects", cause, false)
	assert.ErrorIs(t, err, cause, "netError should unwrap to its cause")
}

func TestKindOf_NonClientError(t *testing.T) {
	assert.Empty(t, KindOf(errors.New("plain")), "plain errors have no kind")
	assert.Empty(t, KindOf(nil), "nil has no kind")
}

func TestIsTimeout_OnlyForDeadlineNetworkErrors(t *testing.T) {
	assert.True(t, IsTimeout(netError("GET /projects", errors.New("deadline"), true)),
		"timeout-flagged network error should report as timeout")
	assert.False(t, IsTimeout(netError("GET /projects", errors.New("refused"), false)),
		"plain network error is not a timeout")
	assert.False(t, IsTimeout(httpError("GET /projects", 504, "gateway timeout", nil)),
		"server-side 504 is not a client timeout")
}
