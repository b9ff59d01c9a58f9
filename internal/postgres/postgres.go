package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	"github.com/lensprice/lensprice/internal/config"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/sentry"
	_ "github.com/lib/pq"
	"go.uber.org/fx"
)

// DB wraps sqlx.DB so every repository query is traced
type DB struct {
	*sqlx.DB
	logger *logger.Logger
	sentry *sentry.Service
}

// Querier is the read surface the repositories use. *sqlx.DB implements it.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Module provides the database handle and closes it on shutdown
func Module() fx.Option {
	return fx.Options(
		fx.Provide(NewDB),
		fx.Invoke(func(lc fx.Lifecycle, db *DB) {
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					db.Close()
					return nil
				},
			})
		}),
	)
}

// NewDB connects to postgres, retrying with exponential backoff until
// postgres.connect_retry_max_seconds has passed
func NewDB(cfg *config.Configuration, log *logger.Logger, sentrySvc *sentry.Service) (*DB, error) {
	dsn := cfg.Postgres.GetDSN()

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = time.Duration(cfg.Postgres.ConnectRetryMaxSeconds) * time.Second

	var db *sqlx.DB
	err := backoff.RetryNotify(func() error {
		var err error
		db, err = sqlx.Connect("postgres", dsn)
		return err
	}, policy, func(err error, next time.Duration) {
		log.Warnw("postgres not reachable, retrying",
			"host", cfg.Postgres.Host,
			"error", err,
			"retry_in", next)
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not connect to postgres").
			WithReportableDetails(map[string]any{
				"host":     cfg.Postgres.Host,
				"database": cfg.Postgres.DBName,
			}).
			Mark(ierr.ErrDatabase)
	}

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Postgres.ConnMaxLifetimeMinutes) * time.Minute)

	log.Infow("connected to postgres",
		"host", cfg.Postgres.Host,
		"database", cfg.Postgres.DBName,
		"max_open_conns", cfg.Postgres.MaxOpenConns)

	return &DB{DB: db, logger: log, sentry: sentrySvc}, nil
}

func (db *DB) Close() {
	if err := db.DB.Close(); err != nil {
		db.logger.Errorw("error closing database", "error", err)
	}
}

// GetQuerier returns the traced querier for ctx
func (db *DB) GetQuerier(ctx context.Context) Querier {
	return NewTracedQuerier(db.DB, db.logger, db.sentry)
}
