package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	expected := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		input   string
		wantErr bool
	}{
		{"2026-01-15", false},
		{"2026-01-15T10:30:00Z", false},
		{"01/15/2026", false},
		{"15.01.2026", false},
		{"  2026-01-15  ", false},
		{"invalid-date", true},
		{"13/32/2026", true},
		{"", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			parsed, err := ParseDate(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, expected, parsed)
		})
	}
}

func TestDayBoundaries(t *testing.T) {
	moment := time.Date(2026, 2, 28, 17, 45, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), StartOfDay(moment))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), EndOfDayExclusive(moment))
}

func TestKeys(t *testing.T) {
	moment := time.Date(2026, 3, 4, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-03", MonthKey(moment))
	assert.Equal(t, "2026-03-04", DayKey(moment))
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2026, time.December)

	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), end)
}
