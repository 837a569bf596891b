package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTransactionRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.False(t, InTransaction(ctx))

	tx := &gorm.DB{}
	ctx = WithTransaction(ctx, tx)

	got, ok := GetTransaction(ctx)
	assert.True(t, ok)
	assert.Same(t, tx, got)
	assert.True(t, InTransaction(ctx))
}

func TestGetTransaction_NilValue(t *testing.T) {
	ctx := WithTransaction(context.Background(), nil)
	_, ok := GetTransaction(ctx)
	assert.False(t, ok)
}
