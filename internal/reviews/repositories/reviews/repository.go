// Package reviews declares the repository contract for product reviews.
package reviews

import (
	"context"

	"github.com/dmitrijs2005/shopkeeper/internal/reviews/models"
)

type Repository interface {
	// Create inserts a review. Returns common.ErrorAlreadyExists when the
	// user already reviewed the product.
	Create(ctx context.Context, review *models.Review) (*models.Review, error)

	// ListByProduct returns the product's reviews, newest first.
	ListByProduct(ctx context.Context, productID int64) ([]*models.Review, error)

	// ListByUser returns the user's reviews, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*models.Review, error)

	// DeleteOwn removes the review only when it belongs to userID.
	// Returns common.ErrorNotFound otherwise.
	DeleteOwn(ctx context.Context, userID int64, reviewID string) error
}
