// Package orders declares the repository contract for orders and their
// line items.
package orders

import (
	"context"

	"github.com/dmitrijs2005/shopkeeper/internal/orders/models"
)

type Repository interface {
	// Create inserts the order row. Items are added separately with
	// AddItems so both can run inside one transaction.
	Create(ctx context.Context, order *models.Order) (*models.Order, error)

	// AddItems inserts line items for an existing order.
	AddItems(ctx context.Context, orderID int64, items []models.OrderItem) error

	// GetByID returns the order with its items, or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Order, error)

	// ListByUser returns the user's orders, newest first, items included.
	ListByUser(ctx context.Context, userID int64) ([]*models.Order, error)

	// UpdateStatus sets the order status and returns the updated order with
	// its items. Returns common.ErrorNotFound for an unknown id.
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error)

	// HasDeliveredProduct reports whether the user has a DELIVERED order
	// containing the product.
	HasDeliveredProduct(ctx context.Context, userID, productID int64) (bool, error)
}
