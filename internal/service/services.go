package service

import (
	"github.com/avykov/go-auth-keeper/internal/config"
	"github.com/avykov/go-auth-keeper/internal/logger"
	"github.com/avykov/go-auth-keeper/internal/store"
)

// Services aggregates every service the transport layer depends on.
type Services struct {
	AuthService AuthService
}

// NewServices wires the full service graph: token service, reset manager,
// and the authentication facade on top of the user repository and the
// bounded credential hasher.
func NewServices(storages *store.Storages, hasher CredentialHasher, cfg config.Auth, logger *logger.Logger) *Services {
	tokens := NewTokenService(cfg)
	resets := NewResetCodeManager(storages.Users, hasher, cfg.ResetCodeTTL, logger)

	return &Services{
		AuthService: NewAuthService(storages.Users, tokens, resets, hasher, cfg, logger),
	}
}
