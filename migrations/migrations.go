// Package migrations embeds the SQL migration files for both supported
// database drivers. Migrations are additive only: existing rows must
// survive every step with sensible defaults.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
