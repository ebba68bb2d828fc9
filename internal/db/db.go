package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"deadline_tracker/internal/config"
	"deadline_tracker/pkg/logging"
)

const pingTimeout = 5 * time.Second

// New migrates the schema when POSTGRES_AUTO_MIGRATE is set and returns a
// pool that has answered a ping.
func New(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*pgxpool.Pool, error) {
	if cfg.PostgresAutoMigrate {
		if err := migrateUp(ctx, cfg, logger); err != nil {
			return nil, err
		}
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("invalid POSTGRES_URL: %w", err)
	}
	poolCfg.MaxConns = cfg.PostgresMaxConn
	poolCfg.MinConns = cfg.PostgresMinConn
	// the scheduler holds a connection per delivery transaction
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("cannot open postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres did not answer ping: %w", err)
	}

	logger.Info(ctx, "connected to postgres",
		zap.Int32("max_conns", poolCfg.MaxConns),
		zap.Int32("min_conns", poolCfg.MinConns),
	)
	return pool, nil
}

func migrateUp(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	m, err := migrate.New(cfg.MigrationsPath, cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("cannot load migrations from %s: %w", cfg.MigrationsPath, err)
	}
	defer m.Close()
	m.Log = &migrateLogger{ctx: ctx, logger: logger}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Debug(ctx, "schema already up to date")
	case err != nil:
		return fmt.Errorf("cannot apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("cannot read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty", version)
	}
	logger.Info(ctx, "schema migrated", zap.Uint("version", version))
	return nil
}

// migrateLogger adapts logging.Logger to migrate.Logger.
type migrateLogger struct {
	ctx    context.Context
	logger *logging.Logger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.logger.Debug(l.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *migrateLogger) Verbose() bool {
	return false
}
