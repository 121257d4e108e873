package pg

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SessionMigrations returns the migrations creating the sessions table.
func SessionMigrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrate applies every pending goose migration found at the root of fsys.
// The version table comes from cfg.MigrationsTable, goose's default when empty.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, cfg Config) error {
	if pool == nil {
		return ErrNilPool
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	dialect := goose.DialectPostgres
	var opts []goose.ProviderOption
	if cfg.MigrationsTable != "" {
		store, err := database.NewStore(database.DialectPostgres, cfg.MigrationsTable)
		if err != nil {
			return errors.Join(ErrMigrationFailed, err)
		}
		dialect = ""
		opts = append(opts, goose.WithStore(store))
	}

	provider, err := goose.NewProvider(dialect, db, fsys, opts...)
	if err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}
	return nil
}
