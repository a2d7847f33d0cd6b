// Package migrations embeds the SQL schema of both bounded contexts.
package migrations

import (
	"context"
	"database/sql"
	"embed"

	"github.com/ghuser/orderserver/pkg/logger"
	"github.com/ghuser/orderserver/pkg/migrator"
)

//go:embed *.sql
var FS embed.FS

// Apply brings db up to the latest schema version.
func Apply(ctx context.Context, db *sql.DB, log logger.Logger) error {
	return migrator.Up(ctx, db, FS, log)
}
