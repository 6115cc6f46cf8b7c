package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/shopkeeper/internal/auth"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/reviews/models"
	reviewsrepo "github.com/dmitrijs2005/shopkeeper/internal/reviews/repositories/reviews"
	"github.com/dmitrijs2005/shopkeeper/internal/reviews/services"
)

// In-memory repository so the HTTP surface runs without a database.

type stubReviewsRepo struct {
	byID map[string]*models.Review
}

func (r *stubReviewsRepo) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	for _, existing := range r.byID {
		if existing.UserID == review.UserID && existing.ProductID == review.ProductID {
			return nil, common.ErrorAlreadyExists
		}
	}
	created := *review
	created.CreatedAt = time.Now()
	stored := created
	r.byID[created.ID] = &stored
	return &created, nil
}

func (r *stubReviewsRepo) ListByProduct(ctx context.Context, productID int64) ([]*models.Review, error) {
	var result []*models.Review
	for _, review := range r.byID {
		if review.ProductID == productID {
			out := *review
			result = append(result, &out)
		}
	}
	return result, nil
}

func (r *stubReviewsRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Review, error) {
	var result []*models.Review
	for _, review := range r.byID {
		if review.UserID == userID {
			out := *review
			result = append(result, &out)
		}
	}
	return result, nil
}

func (r *stubReviewsRepo) DeleteOwn(ctx context.Context, userID int64, reviewID string) error {
	review, ok := r.byID[reviewID]
	if !ok || review.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.byID, reviewID)
	return nil
}

type stubRepoManager struct {
	r *stubReviewsRepo
}

func (m *stubRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *stubRepoManager) Reviews(dbx.DBTX) reviewsrepo.Repository      { return m.r }

type stubChecker struct {
	allowed bool
}

func (s *stubChecker) CanUserReview(ctx context.Context, userID, productID int64) (bool, error) {
	return s.allowed, nil
}

type fixture struct {
	router  *gin.Engine
	repo    *stubReviewsRepo
	checker *stubChecker
	codec   *auth.Codec
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubReviewsRepo{byID: make(map[string]*models.Review)}
	checker := &stubChecker{allowed: true}

	codec, err := auth.NewCodec([]byte("reviews-secret"), 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	logger := logging.NewJSONLogger()
	svc := services.NewReviewService(nil, &stubRepoManager{r: repo}, checker, logger)

	r := gin.New()
	RegisterRoutes(r, NewReviewHandler(svc, logger), codec)
	return &fixture{router: r, repo: repo, checker: checker, codec: codec}
}

func (f *fixture) token(t *testing.T, username string, userID int64) string {
	t.Helper()
	tok, err := f.codec.IssueAccess(username, userID)
	require.NoError(t, err)
	return tok
}

func (f *fixture) do(t *testing.T, method, path, body, bearer string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var envelope map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	}
	return w, envelope
}

func data(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	d, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "expected data object, got %v", envelope)
	return d
}

func TestAddReview_RequiresToken(t *testing.T) {
	f := newFixture(t)

	w, _ := f.do(t, http.MethodPost, "/api/reviews", `{"productId":100,"rating":5}`, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddReview_Flow(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, "alice", 1)

	w, env := f.do(t, http.MethodPost, "/api/reviews",
		`{"productId":100,"rating":5,"comment":"Great beans"}`, tok)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotEmpty(t, data(t, env)["id"])

	// Same user, same product: conflict.
	w, env = f.do(t, http.MethodPost, "/api/reviews",
		`{"productId":100,"rating":4,"comment":"Still great"}`, tok)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "Product already reviewed", env["message"])
}

func TestAddReview_NotEligible(t *testing.T) {
	f := newFixture(t)
	f.checker.allowed = false

	w, env := f.do(t, http.MethodPost, "/api/reviews",
		`{"productId":100,"rating":5}`, f.token(t, "alice", 1))
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "Review not allowed", env["message"])
}

func TestAddReview_RatingValidation(t *testing.T) {
	f := newFixture(t)

	w, env := f.do(t, http.MethodPost, "/api/reviews",
		`{"productId":100,"rating":9}`, f.token(t, "alice", 1))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "rating must be between 1 and 5", env["message"])
}

func TestByProduct_Public(t *testing.T) {
	f := newFixture(t)
	f.repo.byID["rev-1"] = &models.Review{ID: "rev-1", UserID: 1, ProductID: 100, Rating: 5}
	f.repo.byID["rev-2"] = &models.Review{ID: "rev-2", UserID: 2, ProductID: 200, Rating: 3}

	w, env := f.do(t, http.MethodGet, "/api/reviews/product/100", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1), data(t, env)["count"])
}

func TestMyReviews(t *testing.T) {
	f := newFixture(t)
	f.repo.byID["rev-1"] = &models.Review{ID: "rev-1", UserID: 1, ProductID: 100, Rating: 5}

	w, env := f.do(t, http.MethodGet, "/api/reviews/my-reviews", "", f.token(t, "alice", 1))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1), data(t, env)["count"])
}

func TestDeleteReview_OnlyOwn(t *testing.T) {
	f := newFixture(t)
	f.repo.byID["rev-1"] = &models.Review{ID: "rev-1", UserID: 1, ProductID: 100, Rating: 5}

	w, _ := f.do(t, http.MethodDelete, "/api/reviews/rev-1", "", f.token(t, "mallory", 2))
	require.Equal(t, http.StatusNotFound, w.Code)

	w, _ = f.do(t, http.MethodDelete, "/api/reviews/rev-1", "", f.token(t, "alice", 1))
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, f.repo.byID)
}
