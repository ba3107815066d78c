// Package migrations embeds the goose SQL migrations.
package migrations

import "embed"

// FS holds the migration files applied by database.Migrate.
//
//go:embed *.sql
var FS embed.FS
