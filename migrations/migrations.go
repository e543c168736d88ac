// Package migrations embeds the SQL schema migrations.
package migrations

import "embed"

// FS holds the embedded .up.sql migration files.
//
//go:embed *.up.sql
var FS embed.FS
