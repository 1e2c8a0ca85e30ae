package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/avykov/go-auth-keeper/internal/logger"
	"github.com/avykov/go-auth-keeper/internal/store"
	"github.com/avykov/go-auth-keeper/models"
)

// resetCodeBytes is the entropy of a generated reset code: 16 random bytes
// (128 bits), hex-encoded to 32 characters.
const resetCodeBytes = 16

// resetCodeManager is the concrete implementation of [ResetCodeManager].
// The pending code lives on the user row itself; there is no separate
// entity. At most one reset is pending per user — a new request overwrites
// the previous code.
type resetCodeManager struct {
	users  store.UserRepository
	hasher CredentialHasher

	// ttl bounds the lifetime of a pending code. Zero means no expiry,
	// matching the historical behavior; deployments are encouraged to set
	// one, since an unbounded-lifetime code is a latent weakness.
	ttl time.Duration

	logger *logger.Logger
}

// NewResetCodeManager constructs a [ResetCodeManager] persisting codes via
// users and hashing replacement passwords via hasher.
func NewResetCodeManager(users store.UserRepository, hasher CredentialHasher, ttl time.Duration, logger *logger.Logger) ResetCodeManager {
	return &resetCodeManager{
		users:  users,
		hasher: hasher,
		ttl:    ttl,
		logger: logger,
	}
}

// Request generates a fresh random code, stores it on the user row
// (overwriting any previously pending code) and returns it for out-of-band
// delivery. Delivery itself is not this manager's job.
func (m *resetCodeManager) Request(ctx context.Context, user models.User) (string, error) {
	log := logger.FromContext(ctx)

	code, err := generateResetCode()
	if err != nil {
		log.Err(err).Str("username", user.Username).Msg("reset code generation failed")
		return "", fmt.Errorf("reset code generation failed: %w", err)
	}

	user.ResetCode = &code
	user.ResetCodeExpiresAt = nil
	if m.ttl > 0 {
		expiresAt := time.Now().Add(m.ttl)
		user.ResetCodeExpiresAt = &expiresAt
	}

	if err := m.users.UpdateUser(ctx, user); err != nil {
		log.Err(err).Str("username", user.Username).Msg("storing reset code failed")
		return "", fmt.Errorf("storing reset code failed: %w", err)
	}

	return code, nil
}

// Consume validates suppliedCode against the pending code on the user row.
//
// Returns:
//   - (false, ErrNoPendingReset) if no code is pending or the pending code
//     has expired (the expired code is cleared).
//   - (false, ErrResetCodeMismatch) if suppliedCode differs from the
//     pending code. The comparison is constant-time.
//   - (true, nil) on match: the new password hash is stored and the code
//     cleared by a single conditional UPDATE that matches on the code
//     itself. Of several concurrent confirmations with the same code
//     exactly one wins; the losers get ErrNoPendingReset, so the code is
//     strictly single-use even though user is a stale snapshot.
func (m *resetCodeManager) Consume(ctx context.Context, user models.User, suppliedCode, newPassword string) (bool, error) {
	log := logger.FromContext(ctx)

	if newPassword == "" {
		return false, ErrInvalidDataProvided
	}

	if user.ResetCode == nil || *user.ResetCode == "" {
		return false, ErrNoPendingReset
	}

	if user.ResetCodeExpiresAt != nil && time.Now().After(*user.ResetCodeExpiresAt) {
		user.ResetCode = nil
		user.ResetCodeExpiresAt = nil
		if err := m.users.UpdateUser(ctx, user); err != nil {
			log.Err(err).Str("username", user.Username).Msg("clearing expired reset code failed")
		}
		return false, ErrNoPendingReset
	}

	if subtle.ConstantTimeCompare([]byte(*user.ResetCode), []byte(suppliedCode)) != 1 {
		return false, ErrResetCodeMismatch
	}

	newHash, err := m.hasher.Hash(ctx, newPassword)
	if err != nil {
		log.Err(err).Str("username", user.Username).Msg("hashing replacement password failed")
		return false, fmt.Errorf("hashing replacement password failed: %w", err)
	}

	if err := m.users.ConsumeResetCode(ctx, user.ID, suppliedCode, newHash); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Another confirmation consumed the code between our read and
			// this write, or the user row is gone.
			return false, ErrNoPendingReset
		}
		log.Err(err).Str("username", user.Username).Msg("storing new password failed")
		return false, fmt.Errorf("storing new password failed: %w", err)
	}

	return true, nil
}

// generateResetCode draws 128 bits from the OS CSPRNG.
func generateResetCode() (string, error) {
	buf := make([]byte, resetCodeBytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
