// Package migrations embeds the SQL schema migrations so the binary does not
// depend on the working directory layout.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
