package derrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorWrapping(t *testing.T) {
	base := errors.New("connection refused")
	err := Wrap(CodeUnavailable, "ledger unreachable", base)

	assert.Contains(t, err.Error(), "ledger unreachable")
	require.ErrorIs(t, err, base)

	var domainErr *Error
	require.ErrorAs(t, fmt.Errorf("outer: %w", err), &domainErr)
	assert.Equal(t, CodeUnavailable, domainErr.Code)
}

func TestIsAndCodeOf(t *testing.T) {
	err := New(CodeNotFound, "report not found")

	assert.True(t, Is(err, CodeNotFound))
	assert.False(t, Is(err, CodeConflict))
	assert.False(t, Is(errors.New("plain"), CodeNotFound))

	assert.Equal(t, CodeNotFound, CodeOf(err))
	assert.Equal(t, CodeNotFound, CodeOf(fmt.Errorf("outer: %w", err)))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:  http.StatusBadRequest,
		CodeNotFound:    http.StatusNotFound,
		CodeConflict:    http.StatusConflict,
		CodeUnsupported: http.StatusNotImplemented,
		CodeUnavailable: http.StatusBadGateway,
		CodeInternal:    http.StatusInternalServerError,
		Code("unknown"): http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), "code %s", code)
	}
}
