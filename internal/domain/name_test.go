package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubscriberName_Valid(t *testing.T) {
	name, err := ParseSubscriberName("Ursula Le Guin")
	require.NoError(t, err)
	assert.Equal(t, "Ursula Le Guin", name.String())
}

func TestParseSubscriberName_GraphemeBoundary(t *testing.T) {
	// 256 single-grapheme characters is the maximum accepted length.
	_, err := ParseSubscriberName(strings.Repeat("a", 256))
	assert.NoError(t, err)

	// One more fails.
	_, err = ParseSubscriberName(strings.Repeat("a", 257))
	assert.Error(t, err)

	// 256 clusters that are multiple runes each still pass: the limit is
	// graphemes, not runes or bytes. "é" here is e + combining acute.
	_, err = ParseSubscriberName(strings.Repeat("é", 256))
	assert.NoError(t, err)
}

func TestParseSubscriberName_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   \t "},
		{"slash", "Ursula/LeGuin"},
		{"parens", "Ursula (K)"},
		{"quote", `Ursula "K"`},
		{"angle brackets", "<script>"},
		{"backslash", `Ursula\LeGuin`},
		{"braces", "{Ursula}"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSubscriberName(tc.raw)
			assert.Error(t, err)
		})
	}
}
