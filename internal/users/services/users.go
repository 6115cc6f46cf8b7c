package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/users/models"
	"github.com/dmitrijs2005/shopkeeper/internal/users/repositories/repomanager"
)

const minPasswordLength = 6

const defaultRole = "USER"

// UserService manages account CRUD: registration, profile and password
// changes. Session concerns live in AuthService.
type UserService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func NewUserService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *UserService {
	return &UserService{db: db, repos: repos, logger: logger}
}

// Register creates a user after validating the password policy. The returned
// user carries no password hash.
func (s *UserService) Register(ctx context.Context, username, email, password, confirmPassword string) (*models.User, error) {
	if password != confirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters long", common.ErrorValidation, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error(ctx, "register: password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         defaultRole,
	}
	created, err := s.repos.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "register: user create failed", "error", err)
		return nil, common.ErrorInternal
	}
	created.PasswordHash = ""

	s.logger.Info(ctx, "user registered", "user_id", created.ID)
	return created, nil
}

// GetByID returns the user profile for userId lookups by other services.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repos.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateEmail changes the email of the user identified by username.
func (s *UserService) UpdateEmail(ctx context.Context, username, email string) (*models.User, error) {
	user, err := s.repos.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	updated, err := s.repos.Users(s.db).UpdateEmail(ctx, user.ID, email)
	if err != nil {
		s.logger.Error(ctx, "profile update failed", "error", err)
		return nil, common.ErrorInternal
	}
	updated.PasswordHash = ""
	return updated, nil
}

// ChangePassword verifies the old password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters long", common.ErrorValidation, minPasswordLength)
	}

	user, err := s.repos.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return common.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error(ctx, "change password: hashing failed", "error", err)
		return common.ErrorInternal
	}

	if err := s.repos.Users(s.db).UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		s.logger.Error(ctx, "change password: update failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}
