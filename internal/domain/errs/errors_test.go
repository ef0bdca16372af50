package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsAndMessage(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{"validation", Validation("cannot store link when marking a file"), ErrValidation, "cannot store link when marking a file"},
		{"auth", Auth("credentials incorrect"), ErrAuth, "credentials incorrect"},
		{"not found", NotFound("could not find the bookmark"), ErrNotFound, "could not find the bookmark"},
		{"conflict", Conflict("credentials taken"), ErrConflict, "credentials taken"},
		{"internal", Internal("something went wrong", cause), ErrInternal, "something went wrong"},
		{"wrapped", fmt.Errorf("list: %w", NotFound("gone")), ErrNotFound, "gone"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.message, Message(tt.err, "fallback"))
		})
	}
}

func TestError_InternalKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Internal("something went wrong", cause)

	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "something went wrong: boom", err.Error())
	assert.Equal(t, "fallback", Message(cause, "fallback"))
}
