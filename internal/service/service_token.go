package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avykov/go-auth-keeper/internal/config"
	"github.com/avykov/go-auth-keeper/models"
)

// tokenService is the HMAC-SHA256 implementation of [TokenService].
//
// Issued tokens are compact JWS strings: base64url(header) "." base64url
// (payload) "." base64url(signature), the payload carrying only the bound
// username and the expiry in Unix epoch seconds. Signature comparison during
// verification is constant-time (hmac inside the jwt library).
type tokenService struct {
	// signKey is the symmetric HMAC secret. Injected once at
	// construction; never read from ambient process state later.
	signKey []byte
}

// NewTokenService constructs a [TokenService] signing with the key from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewTokenService(cfg config.Auth) TokenService {
	return &tokenService{
		signKey: []byte(cfg.TokenSignKey),
	}
}

// Issue builds a token bound to subject that expires ttl from now.
//
// Returns [ErrTokenCreationFailed] if the signing key is unusable.
func (t *tokenService) Issue(subject string, ttl time.Duration) (models.Token, error) {
	if len(t.signKey) == 0 {
		return models.Token{}, fmt.Errorf("%w: empty signing key", ErrTokenCreationFailed)
	}

	claims := models.TokenClaims{
		Username: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	signedString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.signKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return models.Token{
		SignedString: signedString,
		Username:     subject,
	}, nil
}

// Verify reports whether tokenString is valid right now. Malformed input of
// any shape yields false, never a panic.
func (t *tokenService) Verify(tokenString string) bool {
	_, err := t.Parse(tokenString)
	return err == nil
}

// Parse verifies the signature and expiry of tokenString and returns the
// decoded token.
//
// Every rejection is normalised to [ErrTokenIsExpiredOrInvalid]: callers
// must not be able to tell a forged signature from an expired or malformed
// token.
func (t *tokenService) Parse(tokenString string) (models.Token, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&models.TokenClaims{},
		func(token *jwt.Token) (any, error) {
			return t.signKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	claims, ok := parsed.Claims.(*models.TokenClaims)
	if !ok || claims.Username == "" {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return models.Token{
		SignedString: tokenString,
		Username:     claims.Username,
	}, nil
}
