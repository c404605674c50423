// Package secret provides a wrapper for sensitive string values (passwords,
// signing keys, API tokens) that keeps them out of logs, error messages and
// serialized output. The underlying value is only reachable through an
// explicit accessor, so any accidental fmt/json/slog use prints a redaction
// marker instead of the secret itself.
package secret

import "log/slog"

const redacted = "[REDACTED]"

// String holds a sensitive string value. The zero value is an empty secret.
type String struct {
	value string
}

// NewString wraps the given value as a secret.
func NewString(value string) String {
	return String{value: value}
}

// ExposeSecret returns the underlying value. It is the only way to read the
// secret and should be called solely at the point of use (hashing, signing,
// request authentication).
func (s String) ExposeSecret() string {
	return s.value
}

// IsEmpty reports whether the secret holds an empty string.
func (s String) IsEmpty() bool {
	return s.value == ""
}

// String implements fmt.Stringer and always returns a redaction marker.
func (s String) String() string {
	return redacted
}

// GoString implements fmt.GoStringer so %#v does not leak the value either.
func (s String) GoString() string {
	return redacted
}

// MarshalJSON serializes the redaction marker, never the value.
func (s String) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// LogValue implements slog.LogValuer; structured logs show the marker only.
func (s String) LogValue() slog.Value {
	return slog.StringValue(redacted)
}
