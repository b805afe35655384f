package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUnexpected(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "validation", err: &ValidationError{Field: FieldName, Message: "name is required"}, want: false},
		{name: "duplicate", err: &DuplicateIdentityError{Field: FieldEmail}, want: false},
		{name: "wrapped not found", err: fmt.Errorf("edit: %w", ErrNotFound), want: false},
		{name: "forbidden", err: ErrForbidden, want: false},
		{name: "unauthenticated", err: ErrUnauthenticated, want: false},
		{name: "credentials", err: ErrInvalidCredentials, want: false},
		{name: "other", err: errors.New("boom"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnexpected(tt.err))
		})
	}
}
