package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/avykov/go-auth-keeper/internal/config"
	"github.com/avykov/go-auth-keeper/internal/logger"
	"github.com/avykov/go-auth-keeper/internal/mock"
	"github.com/avykov/go-auth-keeper/internal/store"
	"github.com/avykov/go-auth-keeper/models"
)

func newTestAuthSvc(
	t *testing.T,
	ctrl *gomock.Controller,
) (
	AuthService,
	*mock.MockUserRepository,
	*mock.MockCredentialHasher,
	*mock.MockTokenService,
	*mock.MockResetCodeManager,
) {
	t.Helper()
	mockUsers := mock.NewMockUserRepository(ctrl)
	mockHasher := mock.NewMockCredentialHasher(ctrl)
	mockTokens := mock.NewMockTokenService(ctrl)
	mockResets := mock.NewMockResetCodeManager(ctrl)

	cfg := config.Auth{TokenDuration: 30 * time.Minute}
	svc := NewAuthService(mockUsers, mockTokens, mockResets, mockHasher, cfg, logger.Nop())

	return svc, mockUsers, mockHasher, mockTokens, mockResets
}

func TestAuthService_RegisterSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockUsers, mockHasher, _, _ := newTestAuthSvc(t, ctrl)

	mockUsers.EXPECT().
		FindUserByUsername(gomock.Any(), "ivan@example.com").
		Return(models.User{}, store.ErrUserNotFound)
	mockHasher.EXPECT().
		Hash(gomock.Any(), "super-secret").
		Return("$argon2id$...", nil)
	mockUsers.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u models.User) (models.User, error) {
			assert.NotEmpty(t, u.ID)
			assert.Equal(t, "ivan@example.com", u.Username)
			assert.Equal(t, "+79990001122", u.TelephoneNumber)
			assert.Equal(t, "$argon2id$...", u.PasswordHash)
			assert.False(t, u.CreatedAt.IsZero())
			return u, nil
		})

	user, err := svc.Register(context.Background(), "ivan@example.com", "super-secret", "+79990001122")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ivan@example.com", user.Username)
}

func TestAuthService_RegisterInvalidData(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _, _, _ := newTestAuthSvc(t, ctrl)

	tests := []struct {
		name            string
		username        string
		password        string
		telephoneNumber string
	}{
		{name: "empty username", username: "", password: "pw", telephoneNumber: "+79990001122"},
		{name: "empty password", username: "ivan@example.com", password: "", telephoneNumber: "+79990001122"},
		{name: "empty telephone", username: "ivan@example.com", password: "pw", telephoneNumber: ""},
		{name: "username without at sign", username: "ivan.example.com", password: "pw", telephoneNumber: "+79990001122"},
		{name: "username without domain dot", username: "ivan@example", password: "pw", telephoneNumber: "+79990001122"},
		{name: "username with spaces", username: "iv an@example.com", password: "pw", telephoneNumber: "+79990001122"},
		{name: "telephone with letters", username: "ivan@example.com", password: "pw", telephoneNumber: "+7999abc"},
		{name: "telephone with inner plus", username: "ivan@example.com", password: "pw", telephoneNumber: "+7+999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.password, tt.telephoneNumber)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

func TestAuthService_RegisterUsernameTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockUsers, _, _, _ := newTestAuthSvc(t, ctrl)

	mockUsers.EXPECT().
		FindUserByUsername(gomock.Any(), "ivan@example.com").
		Return(models.User{Username: "ivan@example.com"}, nil)

	_, err := svc.Register(context.Background(), "ivan@example.com", "pw", "+79990001122")
	assert.ErrorIs(t, err, store.ErrUsernameAlreadyExists)
}

func TestAuthService_RegisterCaseSensitiveUsernames(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockUsers, mockHasher, _, _ := newTestAuthSvc(t, ctrl)

	// "Ivan@example.com" and "ivan@example.com" are distinct accounts
	mockUsers.EXPECT().
		FindUserByUsername(gomock.Any(), "Ivan@example.com").
		Return(models.User{}, store.ErrUserNotFound)
	mockHasher.EXPECT().Hash(gomock.Any(), "pw").Return("hash", nil)
	mockUsers.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u models.User) (models.User, error) {
			return u, nil
		})

	user, err := svc.Register(context.Background(), "Ivan@example.com", "pw", "+79990001122")
	require.NoError(t, err)
	assert.Equal(t, "Ivan@example.com", user.Username)
}

func TestAuthService_LoginSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockUsers, mockHasher, mockTokens, _ := newTestAuthSvc(t, ctrl)

	storedUser := models.User{
		ID:           "user-id",
		Username:     "ivan@example.com",
		PasswordHash: "stored-hash",
	}

	mockUsers.EXPECT().
		FindUserByUsername(gomock.Any(), "ivan@example.com").
		Return(storedUser, nil)
	mockHasher.EXPECT().
		Verify(gomock.Any(), "super-secret", "stored-hash").
		Return(true, nil)
	mockTokens.EXPECT().
		Issue("ivan@example.com", 30*time.Minute).
		Return(models.Token{SignedString: "signed", Username: "ivan@example.com"}, nil)

	token, err := svc.Login(context.Background(), "ivan@example.com", "super-secret")
	require.NoError(t, err)
	assert.Equal(t, "signed", token.SignedString)
	assert.Equal(t, "ivan@example.com", token.Username)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockUsers, mockHasher, _, _ := newTestAuthSvc(t, ctrl)

	mockUsers.EXPECT().
		FindUserByUsername(gomock.Any(), "ivan@example.com").
		Return(models.User{Username: "ivan@example.com", PasswordHash: "stored-hash"}, nil)
	mockHasher.EXPECT().
		Verify(gomock.Any(), "wrong", "stored-hash").
		Return(false, nil)

	_, err := svc.Login(context.Background(), "ivan@example.com", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_LoginUnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockUsers, mockHasher, _, _ := newTestAuthSvc(t, ctrl)

	mockUsers.EXPECT().
		FindUserByUsername(gomock.Any(), "ghost@example.com").
		Return(models.User{}, store.ErrUserNotFound)
	// the dummy verification keeps unknown-user timing close to the
	// wrong-password path
	mockHasher.EXPECT().
		Verify(gomock.Any(), "pw", gomock.Any()).
		Return(false, nil)

	_, err := svc.Login(context.Background(), "ghost@example.com", "pw")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestAuthService_LoginEmptyFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _, _, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.Login(context.Background(), "ivan@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_LoginTokenIssueError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockUsers, mockHasher, mockTokens, _ := newTestAuthSvc(t, ctrl)

	mockUsers.EXPECT().
		FindUserByUsername(gomock.Any(), "ivan@example.com").
		Return(models.User{Username: "ivan@example.com", PasswordHash: "stored-hash"}, nil)
	mockHasher.EXPECT().
		Verify(gomock.Any(), "pw", "stored-hash").
		Return(true, nil)
	mockTokens.EXPECT().
		Issue("ivan@example.com", 30*time.Minute).
		Return(models.Token{}, ErrTokenCreationFailed)

	_, err := svc.Login(context.Background(), "ivan@example.com", "pw")
	assert.ErrorIs(t, err, ErrTokenCreationFailed)
}

func TestAuthService_VerifyToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _, mockTokens, _ := newTestAuthSvc(t, ctrl)

	mockTokens.EXPECT().
		Parse("signed").
		Return(models.Token{SignedString: "signed", Username: "ivan@example.com"}, nil)

	token, err := svc.VerifyToken(context.Background(), "signed")
	require.NoError(t, err)
	assert.Equal(t, "ivan@example.com", token.Username)
}

func TestAuthService_VerifyTokenRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _, mockTokens, _ := newTestAuthSvc(t, ctrl)

	mockTokens.EXPECT().
		Parse("bad").
		Return(models.Token{}, ErrTokenIsExpiredOrInvalid)

	_, err := svc.VerifyToken(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockUsers, _, _, mockResets := newTestAuthSvc(t, ctrl)

	storedUser := models.User{ID: "user-id", Username: "ivan@example.com"}

	mockUsers.EXPECT().
		FindUserByUsername(gomock.Any(), "ivan@example.com").
		Return(storedUser, nil)
	mockResets.EXPECT().
		Request(gomock.Any(), storedUser).
		Return("generated-code", nil)

	code, err := svc.RequestPasswordReset(context.Background(), "ivan@example.com")
	require.NoError(t, err)
	assert.Equal(t, "generated-code", code)
}

func TestAuthService_RequestPasswordResetUnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockUsers, _, _, _ := newTestAuthSvc(t, ctrl)

	mockUsers.EXPECT().
		FindUserByUsername(gomock.Any(), "ghost@example.com").
		Return(models.User{}, store.ErrUserNotFound)

	_, err := svc.RequestPasswordReset(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestAuthService_ConfirmPasswordReset(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockUsers, _, _, mockResets := newTestAuthSvc(t, ctrl)

	storedUser := models.User{ID: "user-id", Username: "ivan@example.com"}

	mockUsers.EXPECT().
		FindUserByUsername(gomock.Any(), "ivan@example.com").
		Return(storedUser, nil)
	mockResets.EXPECT().
		Consume(gomock.Any(), storedUser, "supplied-code", "new-password").
		Return(true, nil)

	ok, err := svc.ConfirmPasswordReset(context.Background(), "ivan@example.com", "supplied-code", "new-password")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthService_ConfirmPasswordResetMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockUsers, _, _, mockResets := newTestAuthSvc(t, ctrl)

	mockUsers.EXPECT().
		FindUserByUsername(gomock.Any(), "ivan@example.com").
		Return(models.User{Username: "ivan@example.com"}, nil)
	mockResets.EXPECT().
		Consume(gomock.Any(), gomock.Any(), "wrong-code", "new-password").
		Return(false, ErrResetCodeMismatch)

	ok, err := svc.ConfirmPasswordReset(context.Background(), "ivan@example.com", "wrong-code", "new-password")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrResetCodeMismatch)
}

func TestAuthService_GetUserByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockUsers, _, _, _ := newTestAuthSvc(t, ctrl)

	mockUsers.EXPECT().
		FindUserByID(gomock.Any(), "user-id").
		Return(models.User{ID: "user-id", Username: "ivan@example.com"}, nil)

	user, err := svc.GetUserByID(context.Background(), "user-id")
	require.NoError(t, err)
	assert.Equal(t, "ivan@example.com", user.Username)

	_, err = svc.GetUserByID(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_UpdateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockUsers, _, _, _ := newTestAuthSvc(t, ctrl)

	user := models.User{
		ID:              "user-id",
		Username:        "ivan@example.com",
		TelephoneNumber: "+79990001122",
		PasswordHash:    "hash",
	}

	mockUsers.EXPECT().UpdateUser(gomock.Any(), user).Return(nil)
	require.NoError(t, svc.UpdateUser(context.Background(), user))

	incomplete := user
	incomplete.TelephoneNumber = ""
	assert.ErrorIs(t, svc.UpdateUser(context.Background(), incomplete), ErrInvalidDataProvided)
}

func TestAuthService_UpdateUserUsernameTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockUsers, _, _, _ := newTestAuthSvc(t, ctrl)

	renamed := models.User{
		ID:              "user-id",
		Username:        "taken@example.com",
		TelephoneNumber: "+79990001122",
		PasswordHash:    "hash",
	}

	mockUsers.EXPECT().UpdateUser(gomock.Any(), renamed).Return(store.ErrUsernameAlreadyExists)
	assert.ErrorIs(t, svc.UpdateUser(context.Background(), renamed), store.ErrUsernameAlreadyExists)
}

func TestAuthService_DeleteUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockUsers, _, _, _ := newTestAuthSvc(t, ctrl)

	mockUsers.EXPECT().DeleteUser(gomock.Any(), "user-id").Return(nil)
	require.NoError(t, svc.DeleteUser(context.Background(), "user-id"))

	assert.ErrorIs(t, svc.DeleteUser(context.Background(), ""), ErrInvalidDataProvided)

	notFoundErr := store.ErrUserNotFound
	mockUsers.EXPECT().DeleteUser(gomock.Any(), "missing-id").Return(notFoundErr)
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), "missing-id"), store.ErrUserNotFound)
}

func TestAuthService_DeleteUserByUsername(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, mockUsers, _, _, _ := newTestAuthSvc(t, ctrl)

	mockUsers.EXPECT().DeleteUserByUsername(gomock.Any(), "ivan@example.com").Return(nil)
	require.NoError(t, svc.DeleteUserByUsername(context.Background(), "ivan@example.com"))

	assert.ErrorIs(t, svc.DeleteUserByUsername(context.Background(), ""), ErrInvalidDataProvided)
}
