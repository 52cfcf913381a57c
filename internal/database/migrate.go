package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jeremyjsx/blogapi/internal/logger"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies every pending migration for the pool's dialect.
func Migrate(ctx context.Context, db *DB) error {
	log := logger.FromContext(ctx)

	var dialect goose.Dialect
	switch db.Dialect {
	case Postgres:
		dialect = goose.DialectPostgres
	case SQLite:
		dialect = goose.DialectSQLite3
	default:
		return fmt.Errorf("no migrations for dialect %q", db.Dialect)
	}

	fsys, err := fs.Sub(migrations, "migrations/"+string(db.Dialect))
	if err != nil {
		return fmt.Errorf("migrations for %s: %w", db.Dialect, err)
	}

	provider, err := goose.NewProvider(dialect, db.DB, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		log.Info("migration applied",
			"version", r.Source.Version,
			"path", r.Source.Path,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
	return nil
}
