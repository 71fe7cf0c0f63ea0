// Package repomanager wires the concrete repositories to a database handle
// and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/passvault-io/passvault/internal/server/repositories/records"
	"github.com/passvault-io/passvault/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Conn() *sql.DB
	Close() error
	Users() users.Repository
	Records() records.Repository
}
