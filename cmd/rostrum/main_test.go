package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartialFailureError(t *testing.T) {
	err := &PartialFailureError{
		Message: "run completed with 3 failed combination(s)",
	}

	assert.Equal(t, "run completed with 3 failed combination(s)", err.Error())
}

func TestErrorTypeDetection(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType string
	}{
		{
			name:     "PartialFailureError",
			err:      &PartialFailureError{Message: "partial failure"},
			wantType: "PartialFailureError",
		},
		{
			name:     "regular error",
			err:      errors.New("config error"),
			wantType: "other",
		},
		{
			name:     "wrapped PartialFailureError",
			err:      errors.Join(&PartialFailureError{Message: "partial failure"}, errors.New("additional context")),
			wantType: "PartialFailureError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var partialErr *PartialFailureError
			isPartial := errors.As(tt.err, &partialErr)

			if tt.wantType == "PartialFailureError" {
				assert.True(t, isPartial, "expected error to be detected as PartialFailureError")
			} else {
				assert.False(t, isPartial, "expected error NOT to be detected as PartialFailureError")
			}
		})
	}
}
