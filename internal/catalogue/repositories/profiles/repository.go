// Package profiles declares the repository contract for user purchase
// profiles.
package profiles

import (
	"context"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/catalogue/models"
)

type Repository interface {
	// ApplyOrder folds one order into the user's profile: order count and
	// total spent grow, the last order date advances. Creates the profile
	// on first order.
	ApplyOrder(ctx context.Context, userID int64, name, email string, amount float64, orderDate time.Time) error

	// UpsertSnapshot replaces the contact fields of the profile, creating
	// it with zero aggregates when absent.
	UpsertSnapshot(ctx context.Context, userID int64, name, email string) error

	// FindByUser returns the user's profile or common.ErrorNotFound.
	FindByUser(ctx context.Context, userID int64) (*models.UserProfile, error)
}
