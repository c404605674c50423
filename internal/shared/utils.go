// Package shared provides utility functions for generating random strings
// from a cryptographically secure source.
package shared

import (
	"crypto/rand"
	"math/big"
)

const alphaNumChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// MakeRandAlphaNumString generates a random string of the given length drawn
// uniformly from [A-Za-z0-9]. Each character is chosen independently with
// crypto/rand, so the result is suitable for confirmation tokens and other
// unguessable identifiers.
//
// Example:
//
//	s, err := MakeRandAlphaNumString(32)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(s) // e.g., "x7GpQ2a..."
//
// It returns an error if the random number generator fails.
func MakeRandAlphaNumString(length int) (string, error) {
	max := big.NewInt(int64(len(alphaNumChars)))

	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = alphaNumChars[n.Int64()]
	}

	return string(b), nil
}
