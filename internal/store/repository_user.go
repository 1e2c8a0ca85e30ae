package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/avykov/go-auth-keeper/internal/logger"
	"github.com/avykov/go-auth-keeper/models"
)

// userColumns is the canonical column order used by every SELECT in this
// repository; scanUser must stay in sync with it.
var userColumns = []string{
	"id",
	"username",
	"telephone_number",
	"password_hash",
	"reset_code",
	"reset_code_expires_at",
	"created_at",
}

// userRepository is the SQL-backed implementation of [UserRepository].
// It works against both the PostgreSQL and the SQLite backend through the
// dialect-aware [DB] wrapper.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record. All server-assigned fields (ID,
// CreatedAt) must already be populated by the caller.
//
// Error handling:
//   - unique-constraint violation on username → [ErrUsernameAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Insert(user.TableName()).
		Columns(userColumns...).
		Values(user.ID, user.Username, user.TelephoneNumber, user.PasswordHash, user.ResetCode, user.ResetCodeExpiresAt, user.CreatedAt).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: building query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: executing insert")

		if r.db.isUniqueViolation(err) {
			return models.User{}, ErrUsernameAlreadyExists
		}
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return user, nil
}

// FindUserByUsername retrieves the user record whose username matches
// exactly (case-sensitive). Returns [ErrUserNotFound] on an empty result.
func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findUserBy(ctx, "username", username)
}

// FindUserByID retrieves the user record by its opaque identifier.
// Returns [ErrUserNotFound] on an empty result.
func (r *userRepository) FindUserByID(ctx context.Context, id string) (models.User, error) {
	return r.findUserBy(ctx, "id", id)
}

func (r *userRepository) findUserBy(ctx context.Context, column, value string) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select(userColumns...).
		From(models.User{}.TableName()).
		Where(sq.Eq{column: value}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.findUserBy").Msg("error: building query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	foundUser, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		log.Err(err).Str("func", "*userRepository.findUserBy").Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return foundUser, nil
}

// UpdateUser overwrites the mutable columns of the user row identified by
// user.ID: username, telephone number, password hash, and the reset-code
// pair. A nil ResetCode clears any pending reset.
//
// Returns [ErrUserNotFound] when no row matches the ID and
// [ErrUsernameAlreadyExists] when the new username is already taken.
func (r *userRepository) UpdateUser(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Update(user.TableName()).
		Set("username", user.Username).
		Set("telephone_number", user.TelephoneNumber).
		Set("password_hash", user.PasswordHash).
		Set("reset_code", user.ResetCode).
		Set("reset_code_expires_at", user.ResetCodeExpiresAt).
		Where(sq.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error: building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execExpectingRow(ctx, query, args)
}

// ConsumeResetCode atomically exchanges a pending reset code for a new
// password hash. The UPDATE matches on both the user ID and the code, so out
// of any number of concurrent confirmations with the same code exactly one
// touches the row; the rest see zero affected rows.
//
// Returns [ErrUserNotFound] when no row matches, which covers both a missing
// user and a code that was already consumed or replaced.
func (r *userRepository) ConsumeResetCode(ctx context.Context, userID, code, newPasswordHash string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Update(models.User{}.TableName()).
		Set("password_hash", newPasswordHash).
		Set("reset_code", nil).
		Set("reset_code_expires_at", nil).
		Where(sq.Eq{"id": userID, "reset_code": code}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ConsumeResetCode").Msg("error: building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execExpectingRow(ctx, query, args)
}

// DeleteUser removes the user row identified by id.
// Returns [ErrUserNotFound] when no row matches.
func (r *userRepository) DeleteUser(ctx context.Context, id string) error {
	return r.deleteBy(ctx, "id", id)
}

// DeleteUserByUsername removes the user row identified by username.
// Returns [ErrUserNotFound] when no row matches.
func (r *userRepository) DeleteUserByUsername(ctx context.Context, username string) error {
	return r.deleteBy(ctx, "username", username)
}

func (r *userRepository) deleteBy(ctx context.Context, column, value string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Delete(models.User{}.TableName()).
		Where(sq.Eq{column: value}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.deleteBy").Msg("error: building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execExpectingRow(ctx, query, args)
}

// execExpectingRow runs a DML statement that must touch exactly one row;
// zero affected rows is reported as [ErrUserNotFound]. A unique-constraint
// violation (only username carries one) is reported as
// [ErrUsernameAlreadyExists].
func (r *userRepository) execExpectingRow(ctx context.Context, query string, args []any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.execExpectingRow").Msg("error: executing statement")

		if r.db.isUniqueViolation(err) {
			return ErrUsernameAlreadyExists
		}
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// scanUser reads one user row in [userColumns] order.
func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.TelephoneNumber,
		&user.PasswordHash,
		&user.ResetCode,
		&user.ResetCodeExpiresAt,
		&user.CreatedAt,
	)

	return user, err
}
