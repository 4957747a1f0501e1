// Package migrations embeds the versioned schema files for each supported database.
package migrations

import (
	"embed"
	"io/fs"
)

// FS holds sqlite/NNN_name.sql and postgres/NNN_name.sql
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// SQLite returns the migration files for the sqlite backend
func SQLite() (fs.FS, error) {
	return fs.Sub(FS, "sqlite")
}

// Postgres returns the migration files for the postgres backend
func Postgres() (fs.FS, error) {
	return fs.Sub(FS, "postgres")
}
