package guard

import (
	"embed"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the schema migrations for the users and policies
// tables so hosting applications can run them with their migration tool.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
