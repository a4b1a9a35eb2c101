// Package migrations embeds the SQL migration files so the Postgres and
// SQLite stores can apply them through the goose provider API at startup.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// The statements stick to the subset of SQL shared by Postgres and SQLite.
//
//go:embed *.sql
var FS embed.FS
