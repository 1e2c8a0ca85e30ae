package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/avykov/go-auth-keeper/internal/config"
	"github.com/avykov/go-auth-keeper/internal/logger"
	"github.com/avykov/go-auth-keeper/migrations"
)

// Storages aggregates every repository the service layer depends on,
// together with the shared database handle for lifecycle management.
type Storages struct {
	Users UserRepository

	db *DB
}

// NewStorages opens the store backend selected by the DSN — PostgreSQL for
// "postgres://" DSNs, a SQLite file otherwise — runs the embedded schema
// migrations, and wires the repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, dialect, err := connect(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := migrations.Migrate(db.DB, dialect); err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	return &Storages{
		Users: NewUserRepository(db, log),
		db:    db,
	}, nil
}

// Close releases the underlying database handle.
func (s *Storages) Close() error {
	return s.db.Close()
}

func connect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, string, error) {
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		db, err := NewConnectPostgres(ctx, cfg, log)
		return db, "pgx", err
	}

	db, err := NewConnectSQLite(ctx, cfg, log)
	return db, "sqlite3", err
}
