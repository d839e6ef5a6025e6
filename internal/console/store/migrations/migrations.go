// Package migrations embeds the session database schema so the binary can
// migrate its own store on startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
