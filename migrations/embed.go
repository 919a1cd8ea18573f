// Package migrations embeds the goose SQL migration files so the server
// binary and the integration tests can apply the schema without a copy
// of the source tree on disk.
package migrations

import "embed"

// FS holds the embedded migration files. Pass it to goose.SetBaseFS and
// run migrations against directory ".".
//
//go:embed *.sql
var FS embed.FS
