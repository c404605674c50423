package shared

import (
	"strings"
	"testing"
)

// ---------- MakeRandAlphaNumString ----------

func TestMakeRandAlphaNumString_LengthAndAlphabet(t *testing.T) {
	const n = 32
	s, err := MakeRandAlphaNumString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != n {
		t.Fatalf("expected length %d, got %d", n, len(s))
	}
	for _, c := range s {
		if !strings.ContainsRune(alphaNumChars, c) {
			t.Fatalf("character %q outside of [A-Za-z0-9]", c)
		}
	}
}

func TestMakeRandAlphaNumString_ZeroLength(t *testing.T) {
	s, err := MakeRandAlphaNumString(0)
	if err != nil {
		t.Fatalf("unexpected error for length=0: %v", err)
	}
	if s != "" {
		t.Fatalf("expected empty string for length=0, got %q", s)
	}
}

func TestMakeRandAlphaNumString_EntropyHint(t *testing.T) {
	const n = 32
	a, err := MakeRandAlphaNumString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := MakeRandAlphaNumString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatalf("two generated tokens are identical: %q", a)
	}
}
