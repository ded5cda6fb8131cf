// Package migrations embeds the SQL schema for the PostgreSQL store backend.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
