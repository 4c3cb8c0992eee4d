package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", fmt.Errorf("bind: %w", ErrValidation), http.StatusBadRequest},
		{"conflict", fmt.Errorf("insert doctor: %w", ErrConflict), http.StatusBadRequest},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthorized", ErrUnauthorized, http.StatusForbidden},
		{"not found", fmt.Errorf("find patient: %w", ErrNotFound), http.StatusNotFound},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, MapErrorToHTTP(tt.err).StatusCode)
		})
	}
}

func TestMapErrorToHTTPKeepsHTTPError(t *testing.T) {
	src := NotFound("Doctor not found")
	wrapped := fmt.Errorf("delete doctor: %w", src)

	got := MapErrorToHTTP(wrapped)
	assert.Same(t, src, got)
	assert.Equal(t, "Doctor not found", got.ToErrorResponse().Message)
	assert.Empty(t, got.ToErrorResponse().Error)
}

func TestServerErrorExposesCause(t *testing.T) {
	got := MapErrorToHTTP(errors.New("server selection timeout"))

	resp := got.ToErrorResponse()
	assert.Equal(t, "An error occurred", resp.Message)
	assert.Equal(t, "server selection timeout", resp.Error)
	assert.True(t, errors.Is(got, got.Cause))
}
