// Package migrations embeds the snapshot schema so commands and tests can
// apply it with goose without a checkout-relative path.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
