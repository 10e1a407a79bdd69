package querynum

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^CFC-\d{6}-[0-9A-Z]{4}$`)

func TestGenerateFormat(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		code := Generate()
		require.Regexp(t, codePattern, code)
	}
}

func TestGenerateTimestampDigits(t *testing.T) {
	t.Parallel()

	// 1700000000123 ms -> low six digits are 000123.
	now := time.UnixMilli(1700000000123)
	code := generateAt(now)
	assert.Equal(t, "CFC-000123", code[:10])
}

func TestGenerateMostlyUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		seen[Generate()] = struct{}{}
	}
	// Codes generated within the same millisecond share the timestamp
	// part, so uniqueness rides on the 4 random chars. A burst of 1000
	// may collide occasionally; near-total uniqueness is what the design
	// promises.
	assert.Greater(t, len(seen), 990)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "CFC-100000-AB12", Normalize(" cfc-100000-ab12 "))
	assert.Equal(t, "CFC-100000-AB12", Normalize("CFC-100000-AB12"))
	assert.Equal(t, "", Normalize("   "))
}
