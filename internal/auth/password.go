// Package auth provides password hashing, reset-token signing and the
// request-scoped admin identity used by the authorization middleware.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// ErrMalformedHash is returned when a stored password hash cannot be parsed.
var ErrMalformedHash = errors.New("malformed password hash")

// Params are the scrypt cost parameters embedded in every encoded hash.
type Params struct {
	N       int
	R       int
	P       int
	KeyLen  int
	SaltLen int
}

// DefaultParams: N=2^14, r=8, p=1, 64-byte key.
var DefaultParams = Params{
	N:       16384,
	R:       8,
	P:       1,
	KeyLen:  64,
	SaltLen: 16,
}

// Hasher derives and verifies scrypt password hashes.
// Encoded form: $scrypt$N=16384,r=8,p=1$<salt>$<hash>
type Hasher struct {
	params Params
}

// NewHasher creates a hasher using params.
func NewHasher(params Params) *Hasher {
	return &Hasher{params: params}
}

// Hash derives a new hash of password with a fresh random salt.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), salt, h.params.N, h.params.R, h.params.P, h.params.KeyLen)
	if err != nil {
		return "", fmt.Errorf("deriving key: %w", err)
	}

	return fmt.Sprintf("$scrypt$N=%d,r=%d,p=%d$%s$%s",
		h.params.N, h.params.R, h.params.P,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// Verify reports whether password matches encodedHash. It recomputes the derivation with the
// salt and cost stored in the hash and compares in constant time. A malformed hash never
// matches; the returned error says why.
func (h *Hasher) Verify(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != "scrypt" {
		return false, ErrMalformedHash
	}

	var n, r, p int
	if _, err := fmt.Sscanf(parts[2], "N=%d,r=%d,p=%d", &n, &r, &p); err != nil {
		return false, fmt.Errorf("%w: parsing parameters: %v", ErrMalformedHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil || len(salt) == 0 {
		return false, fmt.Errorf("%w: decoding salt", ErrMalformedHash)
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(expected) == 0 {
		return false, fmt.Errorf("%w: decoding hash", ErrMalformedHash)
	}

	key, err := scrypt.Key([]byte(password), salt, n, r, p, len(expected))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}

	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

// NeedsRehash reports whether encodedHash was made with parameters other than the hasher's.
func (h *Hasher) NeedsRehash(encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 5 || parts[1] != "scrypt" {
		return true
	}
	var n, r, p int
	if _, err := fmt.Sscanf(parts[2], "N=%d,r=%d,p=%d", &n, &r, &p); err != nil {
		return true
	}
	return n != h.params.N || r != h.params.R || p != h.params.P
}
