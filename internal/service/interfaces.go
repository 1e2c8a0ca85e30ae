package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/avykov/go-auth-keeper/models"
)

// AuthService composes the credential, token, and reset primitives into the
// use cases surfaced to the transport layer. The user store is the only
// persistence access point behind it.
type AuthService interface {
	Register(ctx context.Context, username, password, telephoneNumber string) (models.User, error)
	Login(ctx context.Context, username, password string) (models.Token, error)
	VerifyToken(ctx context.Context, tokenString string) (models.Token, error)

	RequestPasswordReset(ctx context.Context, username string) (string, error)
	ConfirmPasswordReset(ctx context.Context, username, code, newPassword string) (bool, error)

	GetUserByID(ctx context.Context, id string) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
	DeleteUser(ctx context.Context, id string) error
	DeleteUserByUsername(ctx context.Context, username string) error
}

// TokenService issues and verifies compact, self-contained bearer tokens.
// The token itself is the only state; nothing is persisted.
type TokenService interface {
	// Issue builds a signed token bound to subject, expiring after ttl.
	Issue(subject string, ttl time.Duration) (models.Token, error)

	// Verify reports whether tokenString is well-formed, correctly signed,
	// and not yet expired. It never panics on malformed input.
	Verify(tokenString string) bool

	// Parse verifies tokenString and returns the decoded token. Any
	// failure is normalised to [ErrTokenIsExpiredOrInvalid] so callers
	// cannot distinguish which check rejected the token.
	Parse(tokenString string) (models.Token, error)
}

// ResetCodeManager handles the single-use password-reset code lifecycle on
// the user record.
type ResetCodeManager interface {
	// Request generates a fresh code, stores it on the user record
	// (overwriting any pending one) and returns it for out-of-band
	// delivery.
	Request(ctx context.Context, user models.User) (string, error)

	// Consume checks suppliedCode against the pending code; on match it
	// stores the hash of newPassword and clears the code in one atomic
	// store operation, so the code cannot be replayed even by concurrent
	// confirmations.
	Consume(ctx context.Context, user models.User, suppliedCode, newPassword string) (bool, error)
}

// CredentialHasher is the hashing dependency of the service layer. It is
// context-aware so implementations can bound concurrency and honour
// cancellation while callers wait for a slot (see the workers package).
type CredentialHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, encodedHash string) (bool, error)
}
