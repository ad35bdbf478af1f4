// Package auth holds the credential primitives: argon2id password hashing and
// HS256 bearer tokens.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength = 16
	keyLength  = 32
)

// ErrMalformedHash is returned when a stored hash cannot be decoded.
var ErrMalformedHash = errors.New("malformed password hash")

// ArgonParams are the argon2id cost parameters. Memory is in KiB.
type ArgonParams struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

// DefaultArgonParams follows the argon2id recommendation for interactive logins.
var DefaultArgonParams = ArgonParams{Time: 1, Memory: 64 * 1024, Threads: 4}

// Hasher derives and verifies argon2id hashes in PHC string format. It is
// immutable after construction and safe for concurrent use.
type Hasher struct {
	params ArgonParams
	dummy  string
}

// NewHasher builds a Hasher and precomputes the hash used to verify logins
// for unknown users.
func NewHasher(params ArgonParams) (*Hasher, error) {
	if params.Time == 0 || params.Threads == 0 {
		return nil, fmt.Errorf("argon2 time and threads must be positive")
	}
	if params.Memory < 8*uint32(params.Threads) {
		return nil, fmt.Errorf("argon2 memory must be at least %d KiB", 8*uint32(params.Threads))
	}

	h := &Hasher{params: params}
	dummy, err := h.Hash("dummy password for unknown users")
	if err != nil {
		return nil, err
	}
	h.dummy = dummy
	return h, nil
}

// Hash derives a new hash with a fresh random salt.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, keyLength)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encoded. The parameters stored in
// the hash are used, so hashes made with older settings keep verifying.
func (h *Hasher) Verify(password, encoded string) bool {
	params, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false
	}
	candidate := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(candidate, key) == 1
}

// DummyHash returns a valid hash that no real password is checked against.
// Verifying against it costs the same as verifying a real account.
func (h *Hasher) DummyHash() string {
	return h.dummy
}

func decodeHash(encoded string) (ArgonParams, []byte, []byte, error) {
	var params ArgonParams

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return params, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return params, nil, nil, ErrMalformedHash
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &params.Threads); err != nil {
		return params, nil, nil, ErrMalformedHash
	}
	if params.Time == 0 || params.Threads == 0 || params.Memory == 0 {
		return params, nil, nil, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return params, nil, nil, ErrMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, ErrMalformedHash
	}
	return params, salt, key, nil
}
