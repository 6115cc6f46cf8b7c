// Package handlers exposes the review service REST API under /api/reviews.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/reviews/models"
	"github.com/dmitrijs2005/shopkeeper/internal/reviews/services"
)

type ReviewHandler struct {
	reviews *services.ReviewService
	logger  logging.Logger
}

func NewReviewHandler(reviews *services.ReviewService, logger logging.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: logger}
}

type addReviewRequest struct {
	ProductID int64  `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type reviewData struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	ProductID int64     `json:"productId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

func toReviewData(r *models.Review) reviewData {
	return reviewData{
		ID:        r.ID,
		UserID:    r.UserID,
		ProductID: r.ProductID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func toReviewList(reviews []*models.Review) []reviewData {
	data := make([]reviewData, 0, len(reviews))
	for _, r := range reviews {
		data = append(data, toReviewData(r))
	}
	return data
}

// Add handles POST /api/reviews.
func (h *ReviewHandler) Add(c *gin.Context) {
	identity, ok := httpx.IdentityFrom(c)
	if !ok {
		httpx.Fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req addReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProductID == 0 {
		httpx.Fail(c, http.StatusBadRequest, "Product id is required")
		return
	}

	review, err := h.reviews.AddReview(c.Request.Context(), identity.UserID, req.ProductID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			httpx.Fail(c, http.StatusBadRequest, validationMessage(err))
		case errors.Is(err, common.ErrorReviewNotAllowed):
			httpx.Fail(c, http.StatusForbidden, "Review not allowed")
		case errors.Is(err, common.ErrorAlreadyExists):
			httpx.Fail(c, http.StatusConflict, "Product already reviewed")
		default:
			httpx.Fail(c, http.StatusInternalServerError, "Failed to add review")
		}
		return
	}

	httpx.OK(c, http.StatusCreated, "Review added", toReviewData(review))
}

// ByProduct handles GET /api/reviews/product/:productId.
func (h *ReviewHandler) ByProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid product id")
		return
	}

	reviews, err := h.reviews.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}
	httpx.OK(c, http.StatusOK, "Reviews fetched", gin.H{"reviews": toReviewList(reviews), "count": len(reviews)})
}

// MyReviews handles GET /api/reviews/my-reviews.
func (h *ReviewHandler) MyReviews(c *gin.Context) {
	identity, ok := httpx.IdentityFrom(c)
	if !ok {
		httpx.Fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	reviews, err := h.reviews.ListByUser(c.Request.Context(), identity.UserID)
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}
	httpx.OK(c, http.StatusOK, "Reviews fetched", gin.H{"reviews": toReviewList(reviews), "count": len(reviews)})
}

// Delete handles DELETE /api/reviews/:reviewId.
func (h *ReviewHandler) Delete(c *gin.Context) {
	identity, ok := httpx.IdentityFrom(c)
	if !ok {
		httpx.Fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	err := h.reviews.Delete(c.Request.Context(), identity.UserID, c.Param("reviewId"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			httpx.Fail(c, http.StatusNotFound, "Review not found")
			return
		}
		httpx.Fail(c, http.StatusInternalServerError, "Failed to delete review")
		return
	}
	httpx.OK(c, http.StatusOK, "Review deleted", nil)
}

func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), "validation error: ")
}
