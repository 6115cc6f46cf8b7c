package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/catalogue/models"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ApplyOrder is a single upsert so concurrent order recordings for the same
// user never lose an increment.
func (r *PostgresRepository) ApplyOrder(ctx context.Context, userID int64, name, email string, amount float64, orderDate time.Time) error {
	query := `
		INSERT INTO user_profiles (user_id, name, email, total_orders, total_spent, last_order_date)
		VALUES ($1, $2, $3, 1, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			total_orders = user_profiles.total_orders + 1,
			total_spent = user_profiles.total_spent + EXCLUDED.total_spent,
			last_order_date = GREATEST(user_profiles.last_order_date, EXCLUDED.last_order_date)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, name, email, amount, orderDate); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpsertSnapshot(ctx context.Context, userID int64, name, email string) error {
	query := `
		INSERT INTO user_profiles (user_id, name, email, total_orders, total_spent, last_order_date)
		VALUES ($1, $2, $3, 0, 0, to_timestamp(0))
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email
	`
	if _, err := r.db.ExecContext(ctx, query, userID, name, email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByUser(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query := `
		SELECT id, user_id, name, email, total_orders, total_spent, last_order_date
		FROM user_profiles
		WHERE user_id = $1
	`
	p := &models.UserProfile{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&p.ID, &p.UserID, &p.Name, &p.Email, &p.TotalOrders, &p.TotalSpent, &p.LastOrderDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
