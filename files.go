package voxo

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// RunMigrations applies the embedded schema files in name order.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	files, err := fs.Glob(migrationsFS, "data/sql/migrations/*.sql")
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to list migrations")
	}

	sort.Strings(files)

	for _, name := range files {
		contents, err := migrationsFS.ReadFile(name)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to read migration").
				WithMetadata(map[string]any{"file": name})
		}

		if _, err := db.ExecContext(ctx, string(contents)); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to apply migration").
				WithMetadata(map[string]any{"file": name})
		}
	}

	return nil
}
