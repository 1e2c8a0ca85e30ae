package service

import "errors"

var (
	// ErrInvalidDataProvided indicates an empty or malformed input field.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrWrongPassword indicates a password that does not match the
	// stored credential hash.
	ErrWrongPassword = errors.New("wrong password")

	// ErrTokenCreationFailed indicates that signing a new token failed,
	// which only happens when the signing key is missing or unusable.
	ErrTokenCreationFailed = errors.New("token creation failed")

	// ErrTokenIsExpiredOrInvalid is the single opaque rejection for every
	// token failure, so callers cannot learn which check failed.
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	// ErrNoPendingReset indicates a reset confirmation for a user with no
	// pending (or an already consumed/expired) reset code.
	ErrNoPendingReset = errors.New("no pending password reset")

	// ErrResetCodeMismatch indicates a reset confirmation with a code that
	// does not match the pending one.
	ErrResetCodeMismatch = errors.New("reset code mismatch")
)
