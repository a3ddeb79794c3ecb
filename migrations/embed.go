// Package migrations embeds the SQL schema of the session tables.
package migrations

import "embed"

// FS holds the goose migrations. Pass "." as the migrations path.
//
//go:embed *.sql
var FS embed.FS
