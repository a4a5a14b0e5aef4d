// Package migrations embeds the journal's goose migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
