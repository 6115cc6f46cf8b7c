// Package refreshtokens declares the repository contract for the refresh
// token records owned exclusively by the auth subsystem.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/users/models"
)

// Repository defines operations for issuing, retrieving, and revoking
// refresh tokens. Both user_id and token are unique: a user has at most one
// live record, and a token string identifies at most one record.
type Repository interface {
	// Upsert atomically replaces the user's refresh record, creating it if
	// absent. Replacement invalidates any previously issued refresh token
	// for that user, even an unexpired one.
	Upsert(ctx context.Context, userID int64, token string, expiresAt time.Time) error

	// FindByToken looks up a record by its token string.
	// Returns common.ErrorNotFound when absent.
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)

	// FindByUser looks up the user's live record.
	// Returns common.ErrorNotFound when absent.
	FindByUser(ctx context.Context, userID int64) (*models.RefreshToken, error)

	// DeleteByUser removes the user's record. Deleting a non-existent
	// record is not an error.
	DeleteByUser(ctx context.Context, userID int64) error
}
