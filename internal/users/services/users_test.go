package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/users/models"
)

func newUserFixture(t *testing.T) (*UserService, *fakeRepoManager) {
	t.Helper()
	rm := &fakeRepoManager{
		u: &memUsersRepo{byUsername: map[string]*models.User{
			"alice": {ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: hashOf(t, "secret1")},
		}},
		r: newMemRefreshRepo(),
	}
	return NewUserService(nil, rm, logging.NewJSONLogger()), rm
}

func TestRegister_PasswordPolicy(t *testing.T) {
	s, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "bob", "bob@example.com", "short", "short")
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Register(ctx, "bob", "bob@example.com", "secret1", "different")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestRegister_Success(t *testing.T) {
	s, _ := newUserFixture(t)

	user, err := s.Register(context.Background(), "bob", "bob@example.com", "secret1", "secret1")
	require.NoError(t, err)
	require.Equal(t, "bob", user.Username)
	require.Equal(t, "USER", user.Role)
	// The hash never leaves the service layer.
	require.Empty(t, user.PasswordHash)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	s, _ := newUserFixture(t)

	err := s.ChangePassword(context.Background(), "alice", "wrong", "newsecret")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestChangePassword_Success(t *testing.T) {
	s, rm := newUserFixture(t)

	require.NoError(t, s.ChangePassword(context.Background(), "alice", "secret1", "newsecret"))

	stored := rm.u.byUsername["alice"].PasswordHash
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("newsecret")))
}

func TestChangePassword_TooShort(t *testing.T) {
	s, _ := newUserFixture(t)

	err := s.ChangePassword(context.Background(), "alice", "secret1", "abc")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestUpdateEmail_Success(t *testing.T) {
	s, rm := newUserFixture(t)

	user, err := s.UpdateEmail(context.Background(), "alice", "new@example.com")
	require.NoError(t, err)
	require.Equal(t, "new@example.com", user.Email)
	require.Equal(t, "new@example.com", rm.u.byUsername["alice"].Email)
}

func TestGetByID_NotFound(t *testing.T) {
	s, _ := newUserFixture(t)

	_, err := s.GetByID(context.Background(), 999)
	require.ErrorIs(t, err, common.ErrorNotFound)
}
