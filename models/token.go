package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims is the claim set carried by every issued bearer token.
//
// The payload serializes as {"username": ..., "exp": ...} — the username the
// token is bound to plus the standard expiry claim in Unix epoch seconds.
type TokenClaims struct {
	// Username is the account the token was issued for.
	Username string `json:"username"`

	jwt.RegisteredClaims
}

// Token is a transient, verified bearer token. It is never persisted; it is
// reconstructed from its compact string form on every request.
type Token struct {
	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`

	// Username is the subject extracted from the verified claims.
	Username string `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t Token) String() string {
	return t.SignedString
}
