// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Aleksei Vykov

// Package crypto implements the credential-hashing primitive of
// go-auth-keeper: argon2id derivation of storable password hashes with a
// process-wide pepper.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters used for every newly derived hash. The parameters are
// embedded in the encoded output, so they can be raised later without
// invalidating existing hashes.
const (
	argonTime    = 2         // passes
	argonMemory  = 64 * 1024 // 64 MiB
	argonThreads = 1         // parallelism
	argonSaltLen = 16        // salt length in bytes
	argonKeyLen  = 32        // output length in bytes
)

// Hasher derives and verifies peppered argon2id password hashes.
type Hasher interface {
	// Hash derives a storable encoded hash from a plaintext password.
	// Two calls with the same password produce different encodings (fresh
	// random salt); both verify.
	Hash(password string) (string, error)

	// Verify reports whether password matches the encoded hash.
	// A wrong password yields (false, nil); only a malformed encoded hash
	// yields a non-nil error.
	Verify(password, encodedHash string) (bool, error)
}

// credentialHasher is the argon2id implementation of [Hasher].
//
// The pepper is appended to every password before derivation and
// verification. It is injected once at construction and never read from
// ambient process state afterwards.
type credentialHasher struct {
	pepper string
}

// NewHasher constructs a [Hasher] with the given pepper. The caller is
// responsible for validating the pepper at startup (see config validation);
// the hasher itself treats it as opaque immutable material.
func NewHasher(pepper string) Hasher {
	return &credentialHasher{pepper: pepper}
}

// Hash derives an argon2id hash of password+pepper with a fresh random salt
// and returns it in PHC string format:
//
//	$argon2id$v=19$m=65536,t=2,p=1$<b64 salt>$<b64 hash>
//
// The salt and all parameters travel inside the encoded string, so no
// separate salt storage is needed.
func (h *credentialHasher) Hash(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("error generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password+h.pepper), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory,
		argonTime,
		argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// Verify decodes the parameters and salt embedded in encodedHash, recomputes
// the derivation for password+pepper and compares the results in constant
// time.
func (h *credentialHasher) Verify(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("invalid hash format")
	}

	if parts[1] != "argon2id" {
		return false, fmt.Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("invalid hash version: %w", err)
	}
	if version != argon2.Version {
		return false, fmt.Errorf("unsupported argon2 version: %d", version)
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, fmt.Errorf("invalid hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("invalid hash salt: %w", err)
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("invalid hash key: %w", err)
	}

	// threads must fit in uint8; key length must stay within uint32
	if threads > 255 {
		return false, fmt.Errorf("threads value %d exceeds uint8 max", threads)
	}
	keyLen := len(expected)
	if keyLen <= 0 || keyLen > 1<<30 {
		return false, fmt.Errorf("invalid hash key length: %d", keyLen)
	}

	computed := argon2.IDKey([]byte(password+h.pepper), salt, time, memory, uint8(threads), uint32(keyLen))

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}
