// Package migrations embeds the versioned SQL schema for Postgres
// deployments. SQLite and in-memory stores use gorm AutoMigrate instead.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
