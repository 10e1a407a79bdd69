// Package querynum generates the human-shareable query numbers citizens
// use to track their reports.
package querynum

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

// Prefix identifies CityFix query numbers. The textual format is part of
// the external contract: users copy and paste these codes.
const Prefix = "CFC"

const (
	timestampDigits = 6
	randomChars     = 4
	alphabet        = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Generate returns a query number of the form CFC-TTTTTT-RRRR, where
// TTTTTT is the low six decimal digits of the current Unix time in
// milliseconds and RRRR is four random alphanumeric characters,
// upper-cased. Uniqueness is probabilistic; the report store checks for
// collisions at insert time and regenerates on conflict.
func Generate() string {
	return generateAt(time.Now())
}

func generateAt(now time.Time) string {
	millis := fmt.Sprintf("%d", now.UnixMilli())
	if len(millis) > timestampDigits {
		millis = millis[len(millis)-timestampDigits:]
	}
	return fmt.Sprintf("%s-%s-%s", Prefix, millis, randomSuffix())
}

func randomSuffix() string {
	buf := make([]byte, randomChars)
	// rand.Read never fails on supported platforms; fall back to a fixed
	// suffix rather than returning a malformed code.
	if _, err := rand.Read(buf); err != nil {
		return strings.Repeat("0", randomChars)
	}
	out := make([]byte, randomChars)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return strings.ToUpper(string(out))
}

// Normalize trims surrounding whitespace and upper-cases a user-supplied
// query number so lookups are case-insensitive.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
