// Package repomanager hands out order repositories bound to a DBTX so the
// service can use the same repository inside and outside transactions.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/orders/repositories/orders"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Orders(db dbx.DBTX) orders.Repository
}
