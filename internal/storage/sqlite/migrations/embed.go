package migrations

import "embed"

// FS contains embedded SQLite migrations for ads bridge storage.
//
//go:embed *.sql
var FS embed.FS
