// Package migrations embeds the review service schema for goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
