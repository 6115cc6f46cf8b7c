// Package services contains the order service business logic: order
// creation with catalogue sync, status transitions, and the review
// eligibility check the review service calls in.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/orders/clients"
	"github.com/dmitrijs2005/shopkeeper/internal/orders/models"
	"github.com/dmitrijs2005/shopkeeper/internal/orders/repositories/repomanager"
)

// CartItem is one line of an incoming order.
type CartItem struct {
	ProductID   int64
	ProductName string
	Quantity    int
	Price       float64
	Image       string
}

// CreateOrderInput carries everything needed to place an order. UserName
// and UserEmail only travel onward to the catalogue history record.
type CreateOrderInput struct {
	ShippingAddress string
	UserName        string
	UserEmail       string
	Items           []CartItem
}

// CatalogueSync pushes order history to the catalogue service.
// Implemented by clients.CatalogueClient.
type CatalogueSync interface {
	RecordOrder(ctx context.Context, rec clients.OrderRecord) error
}

// OrderService implements order lifecycle operations. Catalogue sync is
// best effort: a failed push is logged and the committed order stands.
type OrderService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	sync   CatalogueSync
	logger logging.Logger
	now    func() time.Time
}

// OrderOption customizes an OrderService.
type OrderOption func(*OrderService)

// WithCatalogueSync enables history pushes to the catalogue service.
func WithCatalogueSync(sync CatalogueSync) OrderOption {
	return func(s *OrderService) { s.sync = sync }
}

// WithClock replaces the service time source for deterministic order
// numbers in tests.
func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = now }
}

func NewOrderService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger, opts ...OrderOption) *OrderService {
	s := &OrderService{
		db:     db,
		repos:  repos,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder validates the cart, persists the order and its items in one
// transaction, and then pushes the history record to the catalogue.
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, common.ErrorEmptyOrder
	}

	var total float64
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, ci := range input.Items {
		total += ci.Price * float64(ci.Quantity)
		items = append(items, models.OrderItem{
			ProductID:   ci.ProductID,
			ProductName: ci.ProductName,
			Quantity:    ci.Quantity,
			Price:       ci.Price,
			Image:       ci.Image,
		})
	}

	order := &models.Order{
		UserID:          userID,
		OrderNumber:     fmt.Sprintf("ORD-%d", s.now().UnixMilli()),
		Status:          models.StatusPending,
		TotalAmount:     total,
		ShippingAddress: input.ShippingAddress,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repos.Orders(tx).Create(ctx, order)
		if err != nil {
			return err
		}
		if err := s.repos.Orders(tx).AddItems(ctx, created.ID, items); err != nil {
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "order create failed", "error", err)
		return nil, common.ErrorInternal
	}
	order.Items = items

	s.logger.Info(ctx, "order created", "order_number", order.OrderNumber, "user_id", userID)

	if s.sync != nil {
		if err := s.sync.RecordOrder(ctx, s.historyRecord(order, input)); err != nil {
			s.logger.Warn(ctx, "catalogue sync failed, order kept",
				"order_number", order.OrderNumber, "error", err)
		}
	}

	return order, nil
}

func (s *OrderService) historyRecord(order *models.Order, input CreateOrderInput) clients.OrderRecord {
	rec := clients.OrderRecord{
		UserID:          order.UserID,
		UserName:        input.UserName,
		UserEmail:       input.UserEmail,
		OrderNumber:     order.OrderNumber,
		ShippingAddress: order.ShippingAddress,
		Status:          string(order.Status),
		TotalAmount:     order.TotalAmount,
		OrderDate:       order.CreatedAt,
	}
	for _, item := range order.Items {
		rec.Items = append(rec.Items, clients.OrderRecordItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.Price,
			TotalPrice:  item.Price * float64(item.Quantity),
		})
	}
	return rec
}

// ListByUser returns the caller's orders, newest first.
func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	return s.repos.Orders(s.db).ListByUser(ctx, userID)
}

// GetOrder returns the order when it belongs to userID. A foreign order
// yields common.ErrorUnauthorized.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	order, err := s.repos.Orders(s.db).GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, common.ErrorUnauthorized
	}
	return order, nil
}

// UpdateStatus moves the order to the given state.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, common.ErrorInvalidOrderStatus
	}
	order, err := s.repos.Orders(s.db).UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "order status updated", "order_id", orderID, "status", status)
	return order, nil
}

// CancelOrder cancels the caller's order unless it was already delivered
// or cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	order, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.StatusDelivered || order.Status == models.StatusCancelled {
		return nil, fmt.Errorf("%w: %s", common.ErrorOrderNotCancellable, order.Status)
	}
	return s.repos.Orders(s.db).UpdateStatus(ctx, orderID, models.StatusCancelled)
}

// CanReview reports whether the user has a delivered order containing the
// product. The review service asks this before accepting a review.
func (s *OrderService) CanReview(ctx context.Context, userID, productID int64) (bool, error) {
	return s.repos.Orders(s.db).HasDeliveredProduct(ctx, userID, productID)
}
