package infra

import (
	"embed"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type migrationLogger struct {
	log *zap.Logger
}

func (l migrationLogger) Printf(format string, v ...any) {
	l.log.Sugar().Infof(format, v...)
}

func (l migrationLogger) Verbose() bool { return false }

// newMigrator opens its own connection from the postgres:// URL so that closing the migrator
// leaves the application pool untouched.
func newMigrator(dsn string, log *zap.Logger) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, errors.Wrap(err, "open embedded migrations")
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "create migrator")
	}
	m.Log = migrationLogger{log: log}
	return m, nil
}

// MigrateUp applies every pending migration.
func MigrateUp(dsn string, log *zap.Logger) error {
	m, err := newMigrator(dsn, log)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}

	if version, dirty, verr := m.Version(); verr == nil {
		log.Info("database schema is current", zap.Uint("version", version), zap.Bool("dirty", dirty))
	}
	return nil
}

// MigrateDown rolls back steps migrations.
func MigrateDown(dsn string, log *zap.Logger, steps int) error {
	m, err := newMigrator(dsn, log)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "roll back migrations")
	}
	return nil
}
