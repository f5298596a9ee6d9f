package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindMatching(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		match  bool
	}{
		{"same kind", NotFound("donation"), ErrNotFound, true},
		{"wrapped", fmt.Errorf("claim: %w", AlreadyClaimed("taken")), ErrAlreadyClaimed, true},
		{"different kind", Permission("nope"), ErrNotVerified, false},
		{"foreign error", errors.New("boom"), ErrValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.match, errors.Is(tt.err, tt.target))
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindInvalidTransition, KindOf(InvalidTransition("received", "available")))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, "cannot change status from received to available", InvalidTransition("received", "available").Error())
	assert.Equal(t, "donation not found", NotFound("donation").Error())
}
