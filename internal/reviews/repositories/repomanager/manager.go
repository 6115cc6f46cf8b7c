// Package repomanager hands out review repositories bound to a DBTX.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/reviews/repositories/reviews"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Reviews(db dbx.DBTX) reviews.Repository
}
