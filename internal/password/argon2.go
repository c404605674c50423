// Package password implements one-way password hashing and verification
// with Argon2id. Hashes are encoded in PHC format
// ($argon2id$v=19$m=...,t=...,p=...$salt$hash) so the parameters travel with
// the stored string and can be tuned without invalidating old hashes.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/secret"
	"golang.org/x/crypto/argon2"
)

const algorithmID = "argon2id"

// Params are the Argon2id cost parameters baked into every new hash.
type Params struct {
	MemoryKB    uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams keeps hashing in the tens-of-milliseconds range: 15 MiB of
// memory, 2 iterations, 1 lane.
func DefaultParams() Params {
	return Params{
		MemoryKB:    15 * 1024,
		Iterations:  2,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hasher hashes and verifies passwords. It is immutable after construction
// and safe for concurrent use.
type Hasher struct {
	params Params
}

// NewHasher validates the cost parameters and returns a Hasher.
func NewHasher(params Params) (*Hasher, error) {
	if params.MemoryKB < 8*1024 {
		return nil, errors.New("argon2 memory must be >= 8192 KB")
	}
	if params.Iterations < 1 {
		return nil, errors.New("argon2 iterations must be >= 1")
	}
	if params.Parallelism < 1 {
		return nil, errors.New("argon2 parallelism must be >= 1")
	}
	if params.SaltLength < 16 {
		return nil, errors.New("argon2 salt length must be >= 16")
	}
	if params.KeyLength < 16 {
		return nil, errors.New("argon2 key length must be >= 16")
	}
	return &Hasher{params: params}, nil
}

// Hash derives an Argon2id hash of the password under a fresh random salt
// and returns it PHC-encoded. The result is itself secret-wrapped because a
// password hash has no business appearing in logs.
func (h *Hasher) Hash(password secret.String) (secret.String, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return secret.String{}, fmt.Errorf("salt generation error: %w", err)
	}

	hash := argon2.IDKey(
		[]byte(password.ExposeSecret()),
		salt,
		h.params.Iterations,
		h.params.MemoryKB,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	encoded := fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.params.MemoryKB,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)

	return secret.NewString(encoded), nil
}

// Verify recomputes the hash of candidate under the parameters stored in
// encodedHash and compares in constant time. A mismatch and a malformed
// stored hash both come back as common.ErrInvalidCredentials; callers must
// not be able to tell the two apart.
func (h *Hasher) Verify(candidate secret.String, encodedHash secret.String) error {
	parsed, err := parsePHC(encodedHash.ExposeSecret())
	if err != nil {
		return common.ErrInvalidCredentials
	}

	computed := argon2.IDKey(
		[]byte(candidate.ExposeSecret()),
		parsed.salt,
		parsed.iterations,
		parsed.memoryKB,
		parsed.parallelism,
		uint32(len(parsed.hash)),
	)

	if subtle.ConstantTimeCompare(computed, parsed.hash) != 1 {
		return common.ErrInvalidCredentials
	}

	return nil
}

type parsedPHC struct {
	memoryKB    uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

func parsePHC(encoded string) (*parsedPHC, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("invalid PHC format")
	}
	if parts[1] != algorithmID {
		return nil, errors.New("unsupported algorithm")
	}

	if !strings.HasPrefix(parts[2], "v=") {
		return nil, errors.New("missing argon2 version")
	}
	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || version != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	parsed := &parsedPHC{}
	for _, pair := range strings.Split(parts[3], ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, errors.New("invalid parameter entry")
		}
		switch kv[0] {
		case "m":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil {
				return nil, errors.New("invalid memory parameter")
			}
			parsed.memoryKB = uint32(v)
		case "t":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil {
				return nil, errors.New("invalid time parameter")
			}
			parsed.iterations = uint32(v)
		case "p":
			v, err := strconv.ParseUint(kv[1], 10, 8)
			if err != nil {
				return nil, errors.New("invalid parallelism parameter")
			}
			parsed.parallelism = uint8(v)
		default:
			return nil, errors.New("unsupported parameter")
		}
	}
	if parsed.memoryKB == 0 || parsed.iterations == 0 || parsed.parallelism == 0 {
		return nil, errors.New("missing parameters")
	}

	parsed.salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(parsed.salt) == 0 {
		return nil, errors.New("invalid salt encoding")
	}

	parsed.hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(parsed.hash) == 0 {
		return nil, errors.New("invalid hash encoding")
	}

	return parsed, nil
}
