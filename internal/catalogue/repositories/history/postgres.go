package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/shopkeeper/internal/catalogue/models"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, record *models.OrderHistory) (*models.OrderHistory, error) {
	query := `
		INSERT INTO order_history (user_id, user_name, user_email, order_number, shipping_address, status, total_amount, order_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, recorded_at
	`
	created := *record
	err := r.db.QueryRowContext(ctx, query,
		record.UserID, record.UserName, record.UserEmail, record.OrderNumber,
		record.ShippingAddress, record.Status, record.TotalAmount, record.OrderDate).
		Scan(&created.ID, &created.RecordedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &created, nil
}

func (r *PostgresRepository) AddItems(ctx context.Context, historyID int64, items []models.HistoryItem) error {
	query := `
		INSERT INTO order_history_items (history_id, product_id, product_name, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, item := range items {
		_, err := r.db.ExecContext(ctx, query,
			historyID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.TotalPrice)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.OrderHistory, error) {
	query := `
		SELECT id, user_id, user_name, user_email, order_number, shipping_address, status, total_amount, order_date, recorded_at
		FROM order_history
		WHERE user_id = $1
		ORDER BY order_date DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.OrderHistory
	for rows.Next() {
		h := &models.OrderHistory{}
		if err := rows.Scan(&h.ID, &h.UserID, &h.UserName, &h.UserEmail, &h.OrderNumber,
			&h.ShippingAddress, &h.Status, &h.TotalAmount, &h.OrderDate, &h.RecordedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	for _, h := range result {
		if err := r.loadItems(ctx, h); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *PostgresRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.OrderHistory, error) {
	query := `
		SELECT id, user_id, user_name, user_email, order_number, shipping_address, status, total_amount, order_date, recorded_at
		FROM order_history
		WHERE order_number = $1
	`
	h := &models.OrderHistory{}
	err := r.db.QueryRowContext(ctx, query, orderNumber).
		Scan(&h.ID, &h.UserID, &h.UserName, &h.UserEmail, &h.OrderNumber,
			&h.ShippingAddress, &h.Status, &h.TotalAmount, &h.OrderDate, &h.RecordedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := r.loadItems(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, record *models.OrderHistory) error {
	query := `
		SELECT id, history_id, product_id, product_name, quantity, unit_price, total_price
		FROM order_history_items
		WHERE history_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, record.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := models.HistoryItem{}
		if err := rows.Scan(&item.ID, &item.HistoryID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		record.Items = append(record.Items, item)
	}
	return rows.Err()
}
