package migration

import (
	"context"
	"database/sql"
	"embed"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lensprice/lensprice/internal/config"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/postgres"
	"go.uber.org/fx"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Module applies pending migrations on start when postgres.auto_migrate is set
func Module() fx.Option {
	return fx.Invoke(func(lc fx.Lifecycle, cfg *config.Configuration, db *postgres.DB, log *logger.Logger) {
		if !cfg.Postgres.AutoMigrate {
			return
		}
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return RunMigrations(db.DB.DB, log)
			},
		})
	})
}

// RunMigrations brings the schema up to the latest embedded version
func RunMigrations(db *sql.DB, log *logger.Logger) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return ierr.WithError(err).
			WithHint("Failed to apply database migrations").
			Mark(ierr.ErrDatabase)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	log.Infow("database migrations applied", "version", version, "dirty", dirty)
	return nil
}

// RollbackMigrations reverts the given number of migration steps
func RollbackMigrations(db *sql.DB, steps int, log *logger.Logger) error {
	if steps <= 0 {
		return ierr.NewError("steps must be positive").
			WithHint("Provide the number of migrations to roll back").
			Mark(ierr.ErrValidation)
	}

	m, err := newMigrator(db)
	if err != nil {
		return err
	}

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return ierr.WithError(err).
			WithHint("Failed to roll back database migrations").
			Mark(ierr.ErrDatabase)
	}
	log.Infow("database migrations rolled back", "steps", steps)
	return nil
}

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return m, nil
}
