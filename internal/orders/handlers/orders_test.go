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

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/shopkeeper/internal/auth"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/orders/models"
	ordersrepo "github.com/dmitrijs2005/shopkeeper/internal/orders/repositories/orders"
	"github.com/dmitrijs2005/shopkeeper/internal/orders/services"
)

// In-memory repository so the HTTP surface runs without a database.

type stubOrdersRepo struct {
	byID map[int64]*models.Order
	next int64
}

func (r *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	r.next++
	created := *order
	created.ID = r.next
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	stored := created
	r.byID[created.ID] = &stored
	return &created, nil
}

func (r *stubOrdersRepo) AddItems(ctx context.Context, orderID int64, items []models.OrderItem) error {
	order, ok := r.byID[orderID]
	if !ok {
		return common.ErrorNotFound
	}
	order.Items = append(order.Items, items...)
	return nil
}

func (r *stubOrdersRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	order, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *order
	return &out, nil
}

func (r *stubOrdersRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	var result []*models.Order
	for _, order := range r.byID {
		if order.UserID == userID {
			out := *order
			result = append(result, &out)
		}
	}
	return result, nil
}

func (r *stubOrdersRepo) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	order, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	order.Status = status
	out := *order
	return &out, nil
}

func (r *stubOrdersRepo) HasDeliveredProduct(ctx context.Context, userID, productID int64) (bool, error) {
	for _, order := range r.byID {
		if order.UserID != userID || order.Status != models.StatusDelivered {
			continue
		}
		for _, item := range order.Items {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

type stubRepoManager struct {
	o *stubOrdersRepo
}

func (m *stubRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *stubRepoManager) Orders(dbx.DBTX) ordersrepo.Repository        { return m.o }

type fixture struct {
	router *gin.Engine
	repo   *stubOrdersRepo
	codec  *auth.Codec
}

// newFixture wires the router over stub repositories. txCount transactions
// are pre-approved on the sqlmock handle, one per expected order creation.
func newFixture(t *testing.T, txCount int) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	for i := 0; i < txCount; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	t.Cleanup(func() { db.Close() })

	repo := &stubOrdersRepo{byID: make(map[int64]*models.Order)}

	codec, err := auth.NewCodec([]byte("orders-secret"), 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	logger := logging.NewJSONLogger()
	svc := services.NewOrderService(db, &stubRepoManager{o: repo}, logger)

	r := gin.New()
	RegisterRoutes(r, NewOrderHandler(svc, logger), codec)
	return &fixture{router: r, repo: repo, codec: codec}
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

const cartBody = `{
	"shippingAddress": "12 Main St",
	"userName": "alice",
	"userEmail": "alice@example.com",
	"items": [
		{"productId": 100, "productName": "Espresso Beans", "quantity": 2, "price": 14.99},
		{"productId": 101, "productName": "Moka Pot", "quantity": 1, "price": 29.99}
	]
}`

func TestCreateOrder_RequiresToken(t *testing.T) {
	f := newFixture(t, 0)

	w, _ := f.do(t, http.MethodPost, "/api/orders", cartBody, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateOrder_Success(t *testing.T) {
	f := newFixture(t, 1)

	w, env := f.do(t, http.MethodPost, "/api/orders", cartBody, f.token(t, "alice", 1))
	require.Equal(t, http.StatusCreated, w.Code)

	d := data(t, env)
	require.Equal(t, float64(1), d["userId"])
	require.Equal(t, "PENDING", d["status"])
	require.InDelta(t, 2*14.99+29.99, d["totalAmount"].(float64), 0.001)
	require.True(t, strings.HasPrefix(d["orderNumber"].(string), "ORD-"))
	require.Len(t, d["items"], 2)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	f := newFixture(t, 0)

	w, env := f.do(t, http.MethodPost, "/api/orders", `{"shippingAddress":"12 Main St","items":[]}`, f.token(t, "alice", 1))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Order must contain at least one item", env["message"])
}

func TestMyOrders_OnlyOwn(t *testing.T) {
	f := newFixture(t, 0)
	f.repo.byID[1] = &models.Order{ID: 1, UserID: 1, OrderNumber: "ORD-1", Status: models.StatusPending}
	f.repo.byID[2] = &models.Order{ID: 2, UserID: 2, OrderNumber: "ORD-2", Status: models.StatusPending}

	w, env := f.do(t, http.MethodGet, "/api/orders/my-orders", "", f.token(t, "alice", 1))
	require.Equal(t, http.StatusOK, w.Code)

	d := data(t, env)
	require.Equal(t, float64(1), d["count"])
}

func TestGetOrder_ForeignOrderForbidden(t *testing.T) {
	f := newFixture(t, 0)
	f.repo.byID[1] = &models.Order{ID: 1, UserID: 2, OrderNumber: "ORD-1", Status: models.StatusPending}

	w, env := f.do(t, http.MethodGet, "/api/orders/1", "", f.token(t, "alice", 1))
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "You don't have access to this order", env["message"])
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newFixture(t, 0)

	w, _ := f.do(t, http.MethodGet, "/api/orders/99", "", f.token(t, "alice", 1))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelOrder_Flow(t *testing.T) {
	f := newFixture(t, 0)
	f.repo.byID[1] = &models.Order{ID: 1, UserID: 1, OrderNumber: "ORD-1", Status: models.StatusPending}

	w, env := f.do(t, http.MethodPut, "/api/orders/1/cancel", "", f.token(t, "alice", 1))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "CANCELLED", data(t, env)["status"])

	// A cancelled order cannot be cancelled again.
	w, env = f.do(t, http.MethodPut, "/api/orders/1/cancel", "", f.token(t, "alice", 1))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Order can no longer be cancelled", env["message"])
}

func TestUpdateStatus_Flow(t *testing.T) {
	f := newFixture(t, 0)
	f.repo.byID[1] = &models.Order{ID: 1, UserID: 1, OrderNumber: "ORD-1", Status: models.StatusPending}

	w, env := f.do(t, http.MethodPut, "/api/orders/1/status?status=SHIPPED", "", f.token(t, "alice", 1))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "SHIPPED", data(t, env)["status"])

	w, env = f.do(t, http.MethodPut, "/api/orders/1/status?status=TELEPORTED", "", f.token(t, "alice", 1))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Unknown order status", env["message"])
}

func TestValidateReview_Public(t *testing.T) {
	f := newFixture(t, 0)
	f.repo.byID[1] = &models.Order{
		ID: 1, UserID: 1, Status: models.StatusDelivered,
		Items: []models.OrderItem{{ProductID: 100}},
	}

	// No Authorization header required.
	w, env := f.do(t, http.MethodGet, "/api/orders/validate-review?userId=1&productId=100", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, data(t, env)["allowed"])

	w, env = f.do(t, http.MethodGet, "/api/orders/validate-review?userId=1&productId=999", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, false, data(t, env)["allowed"])
}
