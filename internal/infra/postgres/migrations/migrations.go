// Package migrations registers the portal's schema migrations for the bun
// migrator. SQL lives in embedded files next to the numbered Go files.
package migrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
