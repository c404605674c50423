package domain

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// maxNameGraphemes bounds the display name length in grapheme clusters, not
// bytes, so multi-byte and combining characters count as one.
const maxNameGraphemes = 256

// forbiddenNameChars are rejected to keep names safe to embed in emails and
// query parameters without escaping surprises.
const forbiddenNameChars = `/()"<>\{}`

// SubscriberName is a validated display name. The zero value is invalid; use
// ParseSubscriberName to construct one.
type SubscriberName struct {
	value string
}

// ParseSubscriberName validates raw as a display name: non-empty after
// trimming, at most 256 grapheme clusters, and free of forbidden characters.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	if strings.TrimSpace(raw) == "" {
		return SubscriberName{}, fmt.Errorf("subscriber name must not be empty")
	}

	if uniseg.GraphemeClusterCount(raw) > maxNameGraphemes {
		return SubscriberName{}, fmt.Errorf("subscriber name exceeds %d characters", maxNameGraphemes)
	}

	if strings.ContainsAny(raw, forbiddenNameChars) {
		return SubscriberName{}, fmt.Errorf("subscriber name %q contains a forbidden character", raw)
	}

	return SubscriberName{value: raw}, nil
}

// String returns the name as given at parse time.
func (n SubscriberName) String() string {
	return n.value
}
