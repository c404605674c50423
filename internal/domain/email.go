// Package domain defines the validated value types of the newsletter core.
// Raw strings from the transport boundary must pass through the Parse
// constructors before any lifecycle logic runs; once constructed, the values
// are immutable and always valid.
package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// SubscriberEmail is a syntactically valid email address. The zero value is
// invalid; use ParseSubscriberEmail to construct one.
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail validates raw as an email address and returns it as a
// typed value. The address must have a non-empty local part, an "@" and a
// domain with at least one dot, which matches what upstream mail providers
// will accept in practice.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return SubscriberEmail{}, fmt.Errorf("%q is not a valid subscriber email", raw)
	}

	domainPart := raw[strings.LastIndex(raw, "@")+1:]
	if !strings.Contains(domainPart, ".") {
		return SubscriberEmail{}, fmt.Errorf("%q is not a valid subscriber email", raw)
	}

	return SubscriberEmail{value: raw}, nil
}

// String returns the address as given at parse time.
func (e SubscriberEmail) String() string {
	return e.value
}
