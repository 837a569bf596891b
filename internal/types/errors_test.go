package types

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStoreError(t *testing.T) {
	other := errors.New("duplicate key value")

	tests := []struct {
		name   string
		input  error
		target error
	}{
		{"record not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"deadline", context.DeadlineExceeded, ErrStoreUnavailable},
		{"canceled", context.Canceled, ErrStoreUnavailable},
		{"already classified", Errorf(ErrNotFound, "group %s", "x"), ErrNotFound},
		{"passthrough", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, StoreError(tt.input), tt.target)
		})
	}

	assert.NoError(t, StoreError(nil))
}

func TestErrorf(t *testing.T) {
	err := Errorf(ErrValidation, "rating %d out of range", 7)

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation error: rating 7 out of range", err.Error())
}
