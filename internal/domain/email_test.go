package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubscriberEmail_Valid(t *testing.T) {
	tests := []string{
		"ursula@example.com",
		"ursula.le.guin@sub.example.com",
		"u+newsletter@example.org",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			email, err := ParseSubscriberEmail(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, email.String())
		})
	}
}

func TestParseSubscriberEmail_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"missing at", "ursulaexample.com"},
		{"missing local part", "@example.com"},
		{"missing domain", "ursula@"},
		{"domain without dot", "ursula@example"},
		{"whitespace", "ursula le guin@example.com"},
		{"display name form", "Ursula <ursula@example.com>"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSubscriberEmail(tc.raw)
			assert.Error(t, err)
		})
	}
}
