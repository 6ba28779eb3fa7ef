package exceptions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid input", InvalidInput("Limit must be between 1 and 100."), 400},
		{"not found", NotFound("route", "/nope"), 404},
		{"service error", &ServiceError{StatusCode: 502, Cause: errors.New("upstream")}, 502},
		{"anything else", errors.New("connection reset by peer"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusCode(tt.err))
		})
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Limit must be between 1 and 100.", InvalidInput("Limit must be between 1 and 100.").Error())
	assert.Equal(t, "Could not find a route with id: /nope", NotFound("route", "/nope").Error())
	cause := errors.New("upstream")
	assert.ErrorIs(t, &ServiceError{StatusCode: 502, Cause: cause}, cause)
}
