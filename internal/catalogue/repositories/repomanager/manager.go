// Package repomanager hands out catalogue repositories bound to a DBTX so
// the service can use the same repository inside and outside transactions.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/shopkeeper/internal/catalogue/repositories/history"
	"github.com/dmitrijs2005/shopkeeper/internal/catalogue/repositories/profiles"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	History(db dbx.DBTX) history.Repository
	Profiles(db dbx.DBTX) profiles.Repository
}
