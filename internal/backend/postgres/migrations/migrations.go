// Package migrations embeds the goose SQL migrations that provision the
// schema consumed by the postgres backend.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
