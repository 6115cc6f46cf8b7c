// Package history declares the repository contract for recorded order
// history.
package history

import (
	"context"

	"github.com/dmitrijs2005/shopkeeper/internal/catalogue/models"
)

type Repository interface {
	// Create inserts the history row. Returns common.ErrorAlreadyExists
	// when the order number was recorded before.
	Create(ctx context.Context, record *models.OrderHistory) (*models.OrderHistory, error)

	// AddItems inserts line items for an existing history record.
	AddItems(ctx context.Context, historyID int64, items []models.HistoryItem) error

	// ListByUser returns the user's history, newest order first, items
	// included.
	ListByUser(ctx context.Context, userID int64) ([]*models.OrderHistory, error)

	// FindByOrderNumber returns the record with items, or
	// common.ErrorNotFound.
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.OrderHistory, error)
}
