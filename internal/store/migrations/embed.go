package migrations

import "embed"

// FS embeds the PostgreSQL schema migrations, applied in file name order.
//
//go:embed *.sql
var FS embed.FS
