package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/shopkeeper/internal/catalogue/models"
	historyrepo "github.com/dmitrijs2005/shopkeeper/internal/catalogue/repositories/history"
	profilesrepo "github.com/dmitrijs2005/shopkeeper/internal/catalogue/repositories/profiles"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

// --- in-memory fakes ---

type memHistoryRepo struct {
	byNumber map[string]*models.OrderHistory
	nextID   int64
}

func newMemHistoryRepo() *memHistoryRepo {
	return &memHistoryRepo{byNumber: map[string]*models.OrderHistory{}, nextID: 1}
}

func (f *memHistoryRepo) Create(ctx context.Context, record *models.OrderHistory) (*models.OrderHistory, error) {
	if _, ok := f.byNumber[record.OrderNumber]; ok {
		return nil, common.ErrorAlreadyExists
	}
	created := *record
	created.ID = f.nextID
	created.RecordedAt = time.Now()
	f.nextID++
	stored := created
	f.byNumber[created.OrderNumber] = &stored
	return &created, nil
}

func (f *memHistoryRepo) AddItems(ctx context.Context, historyID int64, items []models.HistoryItem) error {
	for _, record := range f.byNumber {
		if record.ID == historyID {
			record.Items = append(record.Items, items...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *memHistoryRepo) ListByUser(ctx context.Context, userID int64) ([]*models.OrderHistory, error) {
	var result []*models.OrderHistory
	for _, record := range f.byNumber {
		if record.UserID == userID {
			copied := *record
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *memHistoryRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.OrderHistory, error) {
	record, ok := f.byNumber[orderNumber]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *record
	return &copied, nil
}

type memProfilesRepo struct {
	byUser map[int64]*models.UserProfile
}

func newMemProfilesRepo() *memProfilesRepo {
	return &memProfilesRepo{byUser: map[int64]*models.UserProfile{}}
}

func (f *memProfilesRepo) ApplyOrder(ctx context.Context, userID int64, name, email string, amount float64, orderDate time.Time) error {
	p, ok := f.byUser[userID]
	if !ok {
		p = &models.UserProfile{ID: userID, UserID: userID}
		f.byUser[userID] = p
	}
	p.Name = name
	p.Email = email
	p.TotalOrders++
	p.TotalSpent += amount
	if orderDate.After(p.LastOrderDate) {
		p.LastOrderDate = orderDate
	}
	return nil
}

func (f *memProfilesRepo) UpsertSnapshot(ctx context.Context, userID int64, name, email string) error {
	p, ok := f.byUser[userID]
	if !ok {
		p = &models.UserProfile{ID: userID, UserID: userID}
		f.byUser[userID] = p
	}
	p.Name = name
	p.Email = email
	return nil
}

func (f *memProfilesRepo) FindByUser(ctx context.Context, userID int64) (*models.UserProfile, error) {
	p, ok := f.byUser[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *p
	return &copied, nil
}

type fakeRepoManager struct {
	h *memHistoryRepo
	p *memProfilesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) History(dbx.DBTX) historyrepo.Repository      { return m.h }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profilesrepo.Repository    { return m.p }

// newTxDB returns a sqlmock DB expecting committed and rolled back
// transactions in the given order.
func newTxDB(t *testing.T, commits, rollbacks int) *sql.DB {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	for i := 0; i < commits; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	for i := 0; i < rollbacks; i++ {
		mock.ExpectBegin()
		mock.ExpectRollback()
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newHistoryInput(orderNumber string) HistoryInput {
	return HistoryInput{
		UserID:          1,
		UserName:        "alice",
		UserEmail:       "alice@example.com",
		OrderNumber:     orderNumber,
		ShippingAddress: "12 Main St",
		Status:          "PENDING",
		TotalAmount:     59.97,
		OrderDate:       time.Now(),
		Items: []HistoryItemInput{
			{ProductID: 100, ProductName: "Espresso Beans", Quantity: 2, UnitPrice: 14.99, TotalPrice: 29.98},
			{ProductID: 101, ProductName: "Moka Pot", Quantity: 1, UnitPrice: 29.99, TotalPrice: 29.99},
		},
	}
}

func TestRecordOrder_Success(t *testing.T) {
	rm := &fakeRepoManager{h: newMemHistoryRepo(), p: newMemProfilesRepo()}
	s := NewCatalogueService(newTxDB(t, 1, 0), rm, logging.NewJSONLogger())

	record, err := s.RecordOrder(context.Background(), newHistoryInput("ORD-1"))
	require.NoError(t, err)
	require.Len(t, record.Items, 2)

	profile, err := rm.p.FindByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), profile.TotalOrders)
	require.InDelta(t, 59.97, profile.TotalSpent, 0.001)
}

func TestRecordOrder_DuplicateNumber(t *testing.T) {
	rm := &fakeRepoManager{h: newMemHistoryRepo(), p: newMemProfilesRepo()}
	s := NewCatalogueService(newTxDB(t, 1, 1), rm, logging.NewJSONLogger())

	_, err := s.RecordOrder(context.Background(), newHistoryInput("ORD-1"))
	require.NoError(t, err)

	_, err = s.RecordOrder(context.Background(), newHistoryInput("ORD-1"))
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	// Profile aggregates were not double counted.
	profile, err := rm.p.FindByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), profile.TotalOrders)
}

func TestRecordOrder_DefaultsApplied(t *testing.T) {
	rm := &fakeRepoManager{h: newMemHistoryRepo(), p: newMemProfilesRepo()}
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewCatalogueService(newTxDB(t, 1, 0), rm, logging.NewJSONLogger(),
		WithClock(func() time.Time { return current }))

	input := newHistoryInput("ORD-2")
	input.Status = ""
	input.OrderDate = time.Time{}

	record, err := s.RecordOrder(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, "PENDING", record.Status)
	require.Equal(t, current, record.OrderDate)
}

func TestUserSummary(t *testing.T) {
	rm := &fakeRepoManager{h: newMemHistoryRepo(), p: newMemProfilesRepo()}
	s := NewCatalogueService(newTxDB(t, 2, 0), rm, logging.NewJSONLogger())

	_, err := s.RecordOrder(context.Background(), newHistoryInput("ORD-1"))
	require.NoError(t, err)
	_, err = s.RecordOrder(context.Background(), newHistoryInput("ORD-2"))
	require.NoError(t, err)

	summary, err := s.UserSummary(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), summary.Profile.TotalOrders)
	require.InDelta(t, 2*59.97, summary.Profile.TotalSpent, 0.001)
	require.Len(t, summary.History, 2)
}

func TestUserSummary_NoProfile(t *testing.T) {
	rm := &fakeRepoManager{h: newMemHistoryRepo(), p: newMemProfilesRepo()}
	s := NewCatalogueService(nil, rm, logging.NewJSONLogger())

	_, err := s.UserSummary(context.Background(), 42)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateSnapshot_KeepsAggregates(t *testing.T) {
	rm := &fakeRepoManager{h: newMemHistoryRepo(), p: newMemProfilesRepo()}
	s := NewCatalogueService(newTxDB(t, 1, 0), rm, logging.NewJSONLogger())

	_, err := s.RecordOrder(context.Background(), newHistoryInput("ORD-1"))
	require.NoError(t, err)

	profile, err := s.UpdateSnapshot(context.Background(), 1, "Alice Doe", "alice.doe@example.com")
	require.NoError(t, err)
	require.Equal(t, "Alice Doe", profile.Name)
	require.Equal(t, int64(1), profile.TotalOrders)
}
