// Package util holds small helpers shared across layers.
package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// HashToken returns the hex-encoded SHA-256 digest of a token. Refresh
// tokens are stored hashed so a database leak does not expose live sessions.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

// NewTrackingNumber generates a carrier-style tracking number:
// "SF" + yyyymmdd + 6 random hex characters, e.g. SF20250601A3F29B.
func NewTrackingNumber(now time.Time) string {
	buf := make([]byte, 3)
	// rand.Read never fails on supported platforms.
	_, _ = rand.Read(buf)

	return fmt.Sprintf("SF%s%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}

// FormatDuration formats a duration into a compact human readable form
// (e.g., "1h30m", "5m10s", "45s") for log output and retry hints.
func FormatDuration(duration time.Duration) string {
	duration = duration.Round(time.Second)

	if duration < time.Minute {
		return fmt.Sprintf("%ds", int(duration.Seconds()))
	}

	if duration < time.Hour {
		m := int(duration.Minutes())
		s := int(duration.Seconds()) % 60

		return fmt.Sprintf("%dm%ds", m, s)
	}

	h := int(duration.Hours())
	m := int(duration.Minutes()) % 60

	return fmt.Sprintf("%dh%dm", h, m)
}
