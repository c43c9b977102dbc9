package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for secret hashing.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

var (
	ErrSecretMismatch = errors.New("cryptox: secret does not match")
	ErrInvalidHash    = errors.New("cryptox: invalid argon2id hash")
)

// HashSecret returns a PHC-format argon2id hash of secret mixed with the
// loaded pepper.
func HashSecret(secret string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(secret+Pepper()), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifySecret checks secret against a hash produced by HashSecret.
func VerifySecret(secret, encodedHash string) error {
	// $argon2id$v=19$m=X,t=Y,p=Z$salt$hash
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" || parts[2] != "v=19" {
		return ErrInvalidHash
	}

	var (
		mem, iters uint32
		par        uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: salt: %w", ErrInvalidHash, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return fmt.Errorf("%w: digest", ErrInvalidHash)
	}

	computed := argon2.IDKey(
		[]byte(secret+Pepper()),
		salt,
		iters,
		mem,
		par,
		uint32(len(expected)), // #nosec G115 -- digest length is small
	)
	if subtle.ConstantTimeCompare(computed, expected) != 1 {
		return ErrSecretMismatch
	}
	return nil
}

// IsArgon2idHash reports whether s looks like a PHC argon2id string.
func IsArgon2idHash(s string) bool {
	return strings.HasPrefix(s, "$argon2id$")
}
