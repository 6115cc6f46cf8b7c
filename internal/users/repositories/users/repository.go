// Package users declares the repository contract for user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/shopkeeper/internal/users/models"
)

type Repository interface {
	// Create inserts a new user. Returns common.ErrorAlreadyExists when the
	// username or email is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername returns the user or common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID returns the user or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// UpdateEmail changes the user's email address.
	UpdateEmail(ctx context.Context, id int64, email string) (*models.User, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
