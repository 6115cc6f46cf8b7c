// Package services contains the catalogue business logic: recording order
// history pushed in by the order service and serving per-user history,
// summaries, and profile snapshots.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/catalogue/models"
	"github.com/dmitrijs2005/shopkeeper/internal/catalogue/repositories/repomanager"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

// HistoryItemInput is one line of an incoming history record.
type HistoryItemInput struct {
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   float64
	TotalPrice  float64
}

// HistoryInput carries the order payload the order service pushes after a
// successful checkout.
type HistoryInput struct {
	UserID          int64
	UserName        string
	UserEmail       string
	OrderNumber     string
	ShippingAddress string
	Status          string
	TotalAmount     float64
	OrderDate       time.Time
	Items           []HistoryItemInput
}

// Summary bundles a user's profile with their order history.
type Summary struct {
	Profile *models.UserProfile
	History []*models.OrderHistory
}

type CatalogueService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
	now    func() time.Time
}

// CatalogueOption customizes a CatalogueService.
type CatalogueOption func(*CatalogueService)

// WithClock replaces the service time source.
func WithClock(now func() time.Time) CatalogueOption {
	return func(s *CatalogueService) { s.now = now }
}

func NewCatalogueService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger, opts ...CatalogueOption) *CatalogueService {
	s := &CatalogueService{
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

// RecordOrder stores the history record, its items, and folds the order
// into the user's profile, all in one transaction. Recording the same order
// number twice yields common.ErrorAlreadyExists and changes nothing.
func (s *CatalogueService) RecordOrder(ctx context.Context, input HistoryInput) (*models.OrderHistory, error) {
	record := &models.OrderHistory{
		UserID:          input.UserID,
		UserName:        input.UserName,
		UserEmail:       input.UserEmail,
		OrderNumber:     input.OrderNumber,
		ShippingAddress: input.ShippingAddress,
		Status:          input.Status,
		TotalAmount:     input.TotalAmount,
		OrderDate:       input.OrderDate,
	}
	if record.Status == "" {
		record.Status = "PENDING"
	}
	if record.OrderDate.IsZero() {
		record.OrderDate = s.now()
	}

	items := make([]models.HistoryItem, 0, len(input.Items))
	for _, in := range input.Items {
		items = append(items, models.HistoryItem{
			ProductID:   in.ProductID,
			ProductName: in.ProductName,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			TotalPrice:  in.TotalPrice,
		})
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repos.History(tx).Create(ctx, record)
		if err != nil {
			return err
		}
		if err := s.repos.History(tx).AddItems(ctx, created.ID, items); err != nil {
			return err
		}
		if err := s.repos.Profiles(tx).ApplyOrder(ctx, record.UserID,
			record.UserName, record.UserEmail, record.TotalAmount, record.OrderDate); err != nil {
			return err
		}
		record = created
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "order history record failed", "order_number", input.OrderNumber, "error", err)
		return nil, common.ErrorInternal
	}
	record.Items = items

	s.logger.Info(ctx, "order history recorded", "order_number", record.OrderNumber, "user_id", record.UserID)
	return record, nil
}

// UserHistory returns the user's recorded orders, newest first.
func (s *CatalogueService) UserHistory(ctx context.Context, userID int64) ([]*models.OrderHistory, error) {
	return s.repos.History(s.db).ListByUser(ctx, userID)
}

// UserSummary returns the profile aggregates together with the history.
// A user with no profile yields common.ErrorNotFound.
func (s *CatalogueService) UserSummary(ctx context.Context, userID int64) (*Summary, error) {
	profile, err := s.repos.Profiles(s.db).FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	records, err := s.repos.History(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Summary{Profile: profile, History: records}, nil
}

// UpdateSnapshot upserts the contact part of the user's profile.
func (s *CatalogueService) UpdateSnapshot(ctx context.Context, userID int64, name, email string) (*models.UserProfile, error) {
	if err := s.repos.Profiles(s.db).UpsertSnapshot(ctx, userID, name, email); err != nil {
		s.logger.Error(ctx, "profile snapshot upsert failed", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	return s.repos.Profiles(s.db).FindByUser(ctx, userID)
}

// OrderByNumber returns a single recorded order.
func (s *CatalogueService) OrderByNumber(ctx context.Context, orderNumber string) (*models.OrderHistory, error) {
	return s.repos.History(s.db).FindByOrderNumber(ctx, orderNumber)
}
