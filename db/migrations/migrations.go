// Package migrations embeds the SQL schema migrations for the ad store,
// read through the iofs source driver.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Version is the schema version main migrates up to.
const Version = 1
