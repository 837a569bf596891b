package database

import (
	"context"
	"testing"
	"time"

	"cleanroster/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, GENERAL_CACHE_INDEX)
	assert.Equal(t, 1, SESSION_CACHE_INDEX)
	assert.Equal(t, 2, USER_CACHE_INDEX)
	assert.Equal(t, 3, EVENTS_CACHE_INDEX)
}

func TestCacheForIndex_Invalid(t *testing.T) {
	_, _, ok := cacheForIndex(42, Cache{})
	assert.False(t, ok)

	_, name, ok := cacheForIndex(GENERAL_CACHE_INDEX, Cache{})
	assert.True(t, ok)
	assert.Equal(t, "General", name)
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{
		DatabaseHost:     "db",
		DatabasePort:     5432,
		DatabaseUser:     "roster",
		DatabasePassword: "secret",
		DatabaseName:     "cleanroster",
	})

	assert.Equal(
		t,
		"host=db port=5432 user=roster password=secret dbname=cleanroster sslmode=disable TimeZone=UTC",
		dsn,
	)
}

func TestCacheBuilder_KeyComposition(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		builder  *CacheBuilder
		expected string
	}{
		{"plain string", NewCacheBuilder(nil, "stats:snapshot"), "stats:snapshot"},
		{"uuid key", NewCacheBuilder(nil, id), id.String()},
		{"hashed key", NewCacheBuilder(nil, id).WithHash("user"), "user:" + id.String()},
		{"empty hash ignored", NewCacheBuilder(nil, "k").WithHash(""), "k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.builder.Key())
		})
	}
}

func TestCacheBuilder_SetValidation(t *testing.T) {
	err := NewCacheBuilder(nil, "").WithValue("x").Set()
	assert.EqualError(t, err, "key is required")

	err = NewCacheBuilder(nil, "k").Set()
	assert.EqualError(t, err, "value is required")

	err = NewCacheBuilder(nil, "k").WithStruct(make(chan int)).Set()
	assert.Error(t, err)
}

func TestCacheBuilder_TimeoutHonorsShorterDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	cb := NewCacheBuilder(nil, "k").WithContext(parent).WithTimeout(time.Minute)
	ctx, done := cb.createTimeoutContext()
	defer done()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(100*time.Millisecond), deadline, 100*time.Millisecond)
}
