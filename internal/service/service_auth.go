package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/avykov/go-auth-keeper/internal/config"
	"github.com/avykov/go-auth-keeper/internal/logger"
	"github.com/avykov/go-auth-keeper/internal/store"
	"github.com/avykov/go-auth-keeper/internal/utils"
	"github.com/avykov/go-auth-keeper/models"
)

// Field format patterns. Username must look like an email address,
// telephone numbers are digits with an optional leading "+".
var (
	usernamePattern        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	telephoneNumberPattern = regexp.MustCompile(`^\+?\d+$`)
)

// dummyPasswordHash is verified against when a login names an unknown user,
// so that the response time does not reveal whether the account exists.
// This is NOT a real credential: it is a well-formed hash no password
// matches.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// authService is the concrete implementation of [AuthService].
// It orchestrates the credential hasher, the token service, and the reset
// manager against the user repository; it owns the field validation rules.
type authService struct {
	users  store.UserRepository
	hasher CredentialHasher
	tokens TokenService
	resets ResetCodeManager

	// ids generates opaque identifiers for newly registered users.
	ids *utils.UUIDGenerator

	// tokenDuration controls how long a newly issued token remains valid.
	tokenDuration time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs an AuthService wired to the given repository and
// collaborators, with token lifetime taken from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(users store.UserRepository, tokens TokenService, resets ResetCodeManager, hasher CredentialHasher, cfg config.Auth, logger *logger.Logger) AuthService {
	return &authService{
		users:         users,
		hasher:        hasher,
		tokens:        tokens,
		resets:        resets,
		ids:           utils.NewUUIDGenerator(),
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// Register creates a new user account.
//
// All three fields must be non-empty; username and telephoneNumber must
// match their format patterns. The username must not already be taken
// (case-sensitive exact match); the database unique constraint backs the
// pre-check, so two concurrent registrations cannot both succeed.
//
// Returns the persisted user (with a server-assigned ID) or:
//   - ErrInvalidDataProvided on an empty or malformed field.
//   - store.ErrUsernameAlreadyExists if the username is taken.
func (a *authService) Register(ctx context.Context, username, password, telephoneNumber string) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := validateNewUser(username, password, telephoneNumber); err != nil {
		log.Error().Str("username", username).Msg("invalid user data provided")
		return models.User{}, err
	}

	// cheap pre-check for a friendly error; the unique constraint is the
	// real guarantee under concurrency
	if _, err := a.users.FindUserByUsername(ctx, username); err == nil {
		log.Error().Str("username", username).Msg("username already taken")
		return models.User{}, store.ErrUsernameAlreadyExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		log.Err(err).Str("username", username).Msg("user lookup failed")
		return models.User{}, fmt.Errorf("user lookup failed: %w", err)
	}

	passwordHash, err := a.hasher.Hash(ctx, password)
	if err != nil {
		log.Err(err).Str("username", username).Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user := models.User{
		ID:              a.ids.Generate(),
		Username:        username,
		TelephoneNumber: telephoneNumber,
		PasswordHash:    passwordHash,
		CreatedAt:       time.Now().UTC(),
	}

	registeredUser, err := a.users.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("username", username).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return registeredUser, nil
}

// Login authenticates an existing user and issues a bearer token bound to
// the username.
//
// Returns:
//   - ErrInvalidDataProvided if username or password is empty.
//   - A wrapped store.ErrUserNotFound if the account does not exist. The
//     password is still verified against a dummy hash first so that the
//     response time does not betray account existence.
//   - ErrWrongPassword if the password does not match.
func (a *authService) Login(ctx context.Context, username, password string) (models.Token, error) {
	log := logger.FromContext(ctx)

	if username == "" || password == "" {
		log.Error().Str("username", username).Msg("invalid user data provided")
		return models.Token{}, ErrInvalidDataProvided
	}

	foundUser, lookupErr := a.users.FindUserByUsername(ctx, username)
	if lookupErr != nil {
		if errors.Is(lookupErr, store.ErrUserNotFound) {
			// constant-cost path for unknown accounts
			_, _ = a.hasher.Verify(ctx, password, dummyPasswordHash)
			return models.Token{}, fmt.Errorf("user search by username failed: %w", lookupErr)
		}
		log.Err(lookupErr).Str("username", username).Msg("user search by username failed")
		return models.Token{}, fmt.Errorf("user search by username failed: %w", lookupErr)
	}

	valid, err := a.hasher.Verify(ctx, password, foundUser.PasswordHash)
	if err != nil {
		log.Err(err).Str("username", username).Msg("password verification failed")
		return models.Token{}, fmt.Errorf("password verification failed: %w", err)
	}
	if !valid {
		log.Error().Str("username", username).Msg("wrong password")
		return models.Token{}, ErrWrongPassword
	}

	token, err := a.tokens.Issue(foundUser.Username, a.tokenDuration)
	if err != nil {
		log.Err(err).Str("username", username).Msg("creation of token failed")
		return models.Token{}, err
	}

	return token, nil
}

// VerifyToken validates and parses a raw bearer token string.
//
// Any validation failure (expired, badly signed, malformed) is normalised to
// ErrTokenIsExpiredOrInvalid so that callers do not need to inspect
// low-level token errors — and cannot leak which check failed.
func (a *authService) VerifyToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := a.tokens.Parse(tokenString)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// RequestPasswordReset generates a single-use reset code for the named user
// and returns it for out-of-band delivery.
//
// Returns a wrapped store.ErrUserNotFound if the account does not exist.
func (a *authService) RequestPasswordReset(ctx context.Context, username string) (string, error) {
	log := logger.FromContext(ctx)

	user, err := a.findByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	code, err := a.resets.Request(ctx, user)
	if err != nil {
		log.Err(err).Str("username", username).Msg("password reset request failed")
		return "", err
	}

	return code, nil
}

// ConfirmPasswordReset consumes a pending reset code and replaces the
// user's password on a match.
//
// Returns a wrapped store.ErrUserNotFound if the account does not exist;
// otherwise see [ResetCodeManager.Consume].
func (a *authService) ConfirmPasswordReset(ctx context.Context, username, code, newPassword string) (bool, error) {
	user, err := a.findByUsername(ctx, username)
	if err != nil {
		return false, err
	}

	return a.resets.Consume(ctx, user, code, newPassword)
}

// GetUserByID resolves a user by its opaque identifier.
func (a *authService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	if id == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	user, err := a.users.FindUserByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("user search by id failed: %w", err)
	}

	return user, nil
}

// UpdateUser applies administrative changes to an existing user record
// after validating the same non-empty-field invariants as registration.
func (a *authService) UpdateUser(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	if user.ID == "" || user.Username == "" || user.TelephoneNumber == "" || user.PasswordHash == "" {
		log.Error().Str("username", user.Username).Msg("invalid user data provided")
		return ErrInvalidDataProvided
	}
	if !telephoneNumberPattern.MatchString(user.TelephoneNumber) {
		return ErrInvalidDataProvided
	}

	if err := a.users.UpdateUser(ctx, user); err != nil {
		log.Err(err).Str("username", user.Username).Msg("user update failed")
		return fmt.Errorf("user update failed: %w", err)
	}

	return nil
}

// DeleteUser removes a user account by id.
func (a *authService) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidDataProvided
	}

	if err := a.users.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("user deletion failed: %w", err)
	}

	return nil
}

// DeleteUserByUsername removes a user account by username.
func (a *authService) DeleteUserByUsername(ctx context.Context, username string) error {
	if username == "" {
		return ErrInvalidDataProvided
	}

	if err := a.users.DeleteUserByUsername(ctx, username); err != nil {
		return fmt.Errorf("user deletion failed: %w", err)
	}

	return nil
}

func (a *authService) findByUsername(ctx context.Context, username string) (models.User, error) {
	log := logger.FromContext(ctx)

	if username == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	user, err := a.users.FindUserByUsername(ctx, username)
	if err != nil {
		log.Err(err).Str("username", username).Msg("user search by username failed")
		return models.User{}, fmt.Errorf("user search by username failed: %w", err)
	}

	return user, nil
}

// validateNewUser enforces the registration field invariants.
func validateNewUser(username, password, telephoneNumber string) error {
	if username == "" || password == "" || telephoneNumber == "" {
		return ErrInvalidDataProvided
	}

	if !usernamePattern.MatchString(username) {
		return ErrInvalidDataProvided
	}

	if !telephoneNumberPattern.MatchString(telephoneNumber) {
		return ErrInvalidDataProvided
	}

	return nil
}
