// Package migrate owns the Postgres schema through embedded SQL migrations.
package migrate

import (
	"context"
	"embed"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Register the pgx/v5 database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	"companion/config"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// Register applies all pending migrations on startup when postgres.migrate
// is enabled. It runs before the HTTP server starts accepting requests.
func Register(params Params) {
	if params.Config.Postgres == nil || !params.Config.Postgres.Migrate {
		return
	}

	params.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			params.Logger.Info("Applying database migrations")

			return Up(params.Config.Postgres.URL)
		},
	})
}

// Up applies all pending migrations against the given database URL.
func Up(databaseURL string) error {
	migrator, err := newMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "failed to apply migrations")
	}

	return nil
}

func newMigrator(databaseURL string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "sql")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create migration source")
	}

	// golang-migrate's pgx/v5 driver expects the pgx5:// scheme.
	migrateURL := databaseURL
	if rest, found := strings.CutPrefix(databaseURL, "postgres://"); found {
		migrateURL = "pgx5://" + rest
	} else if rest, found := strings.CutPrefix(databaseURL, "postgresql://"); found {
		migrateURL = "pgx5://" + rest
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, migrateURL)
	if err != nil {
		_ = source.Close()

		return nil, errors.Wrap(err, "failed to initialize migrator")
	}

	return migrator, nil
}
