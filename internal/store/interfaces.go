package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"

	"github.com/avykov/go-auth-keeper/models"
)

// UserRepository is the narrow persistence contract of the authentication
// core. Implementations must guarantee username uniqueness and atomic
// single-row mutations; the service layer relies on both for concurrent
// registration and reset-code consumption.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
	ConsumeResetCode(ctx context.Context, userID, code, newPasswordHash string) error
	DeleteUser(ctx context.Context, id string) error
	DeleteUserByUsername(ctx context.Context, username string) error
}
