// Package migrations embeds the SQL schema files and registers them with
// the database layer. Importing this package for side effects is enough:
//
//	import _ "github.com/houseagent/houseagent-core/migrations"
package migrations

import (
	"embed"

	"github.com/houseagent/houseagent-core/internal/infrastructure/database"
)

//go:embed *.sql
var files embed.FS

func init() {
	database.MigrationsFS = files
	database.MigrationsDir = "."
}
