// internal/daily/daily.go
//
// Deterministic daily puzzle.
// Every player gets the same layout on the same UTC day: the generator seed is
// derived from HMAC(salt, YYYY-MM-DD).

// Package daily derives the shared daily puzzle and records daily results.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic, positive generator seed for date.
func Seed(date time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes, sign bit cleared
	n := int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
	if n == 0 {
		return 1
	}
	return n
}
