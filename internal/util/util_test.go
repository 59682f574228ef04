package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHashToken(t *testing.T) {
	hash := HashToken("some-refresh-token")

	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashToken("some-refresh-token"), "hashing must be deterministic")
	assert.NotEqual(t, hash, HashToken("another-token"))
}

func TestNewTrackingNumber(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	number := NewTrackingNumber(now)

	assert.Len(t, number, 16)
	assert.Equal(t, "SF20250601", number[:10])
	assert.Regexp(t, "^SF20250601[0-9A-F]{6}$", number)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{45 * time.Second, "45s"},
		{5*time.Minute + 10*time.Second, "5m10s"},
		{time.Hour + 30*time.Minute, "1h30m"},
		{0, "0s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.duration))
	}
}
