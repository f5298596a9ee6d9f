package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("01/02/2024")
	assert.Error(t, err)
}

func TestDateOnlyUsesCalendarDayOfInput(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	late := time.Date(2024, 1, 1, 23, 30, 0, 0, jakarta)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), DateOnly(late))
}

func TestParseDateTime(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-02T10:00", time.Date(2024, 1, 2, 10, 0, 0, 0, loc)},
		{"2024-01-02T10:00:30", time.Date(2024, 1, 2, 10, 0, 30, 0, loc)},
		{"2024-01-02 10:00", time.Date(2024, 1, 2, 10, 0, 0, 0, loc)},
		{"2024-01-02T10:00:00Z", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseDateTime(tt.in, loc)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%s: got %v", tt.in, got)
	}

	_, err := ParseDateTime("tomorrow", loc)
	assert.Error(t, err)
}
