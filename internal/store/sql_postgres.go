package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/avykov/go-auth-keeper/internal/config"
	"github.com/avykov/go-auth-keeper/internal/logger"
)

// DB bundles an open database handle with the dialect-specific pieces the
// user repository needs: a squirrel builder carrying the right placeholder
// format and a classifier for unique-constraint violations.
type DB struct {
	*sql.DB

	builder           sq.StatementBuilderType
	isUniqueViolation func(error) bool
	logger            *logger.Logger
}

// NewConnectPostgres opens a PostgreSQL connection via the pgx stdlib driver
// and verifies it with a ping.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	return &DB{
		DB:                conn,
		builder:           sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		isUniqueViolation: postgresUniqueViolation,
		logger:            log,
	}, nil
}

// postgresUniqueViolation reports whether err is a PostgreSQL
// unique-constraint violation (SQLSTATE 23505).
func postgresUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	return false
}
