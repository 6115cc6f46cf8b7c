// Package services contains the review service business logic: eligibility
// checked review creation and review reads.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/reviews/models"
	"github.com/dmitrijs2005/shopkeeper/internal/reviews/repositories/repomanager"
)

const (
	minRating = 1
	maxRating = 5
)

// EligibilityChecker answers whether a user may review a product.
// Implemented by clients.OrdersClient.
type EligibilityChecker interface {
	CanUserReview(ctx context.Context, userID, productID int64) (bool, error)
}

type ReviewService struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	checker EligibilityChecker
	logger  logging.Logger
}

func NewReviewService(db *sql.DB, repos repomanager.RepositoryManager, checker EligibilityChecker, logger logging.Logger) *ReviewService {
	return &ReviewService{db: db, repos: repos, checker: checker, logger: logger}
}

// AddReview creates a review after confirming the user bought and received
// the product. One review per (user, product).
func (s *ReviewService) AddReview(ctx context.Context, userID, productID int64, rating int, comment string) (*models.Review, error) {
	if rating < minRating || rating > maxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", common.ErrorValidation, minRating, maxRating)
	}

	allowed, err := s.checker.CanUserReview(ctx, userID, productID)
	if err != nil {
		s.logger.Error(ctx, "eligibility check failed", "user_id", userID, "product_id", productID, "error", err)
		return nil, common.ErrorInternal
	}
	if !allowed {
		return nil, common.ErrorReviewNotAllowed
	}

	review := &models.Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	}
	created, err := s.repos.Reviews(s.db).Create(ctx, review)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "review create failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "review added", "review_id", created.ID, "product_id", productID)
	return created, nil
}

// ListByProduct returns the product's reviews, newest first.
func (s *ReviewService) ListByProduct(ctx context.Context, productID int64) ([]*models.Review, error) {
	return s.repos.Reviews(s.db).ListByProduct(ctx, productID)
}

// ListByUser returns the user's reviews, newest first.
func (s *ReviewService) ListByUser(ctx context.Context, userID int64) ([]*models.Review, error) {
	return s.repos.Reviews(s.db).ListByUser(ctx, userID)
}

// Delete removes the user's own review.
func (s *ReviewService) Delete(ctx context.Context, userID int64, reviewID string) error {
	return s.repos.Reviews(s.db).DeleteOwn(ctx, userID, reviewID)
}
