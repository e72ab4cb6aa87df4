package database

import (
	"context"
	"embed"
	"fmt"

	"gorm.io/gorm"
)

//go:embed seed/seed.sql
var seedFS embed.FS

// resetScripts run in order inside one transaction: drop everything, recreate the
// schema from the same migration the server boots with, then load the demo data.
var resetScripts = []string{
	"migrations/000001_init_schema.down.sql",
	"migrations/000001_init_schema.up.sql",
}

// Reset drops every table and enum type, recreates the schema and loads the seed
// dataset. Any failure rolls the whole thing back and the previous data survives.
//
// The scripts are sent without arguments, so pgx uses the simple query protocol and
// a single Exec may carry many statements.
func Reset(ctx context.Context, db *gorm.DB) error {
	seed, err := seedFS.ReadFile("seed/seed.sql")
	if err != nil {
		return fmt.Errorf("failed to read seed data: %w", err)
	}

	scripts := make([]string, 0, len(resetScripts)+1)
	for _, name := range resetScripts {
		body, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		scripts = append(scripts, string(body))
	}
	scripts = append(scripts, string(seed))

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, script := range scripts {
			if err := tx.Exec(script).Error; err != nil {
				return fmt.Errorf("reset step %d failed: %w", i+1, err)
			}
		}
		return nil
	})
}
