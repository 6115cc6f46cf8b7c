// Package services contains the user service business logic: registration,
// credential verification, and the session-token lifecycle (issue, refresh,
// revoke, validate).
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/shopkeeper/internal/auth"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/users/repositories/repomanager"
)

// dummyHash is a valid bcrypt hash compared against when the username does
// not exist, so unknown-user and wrong-password logins take similar time.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Session bundles everything a successful login or refresh returns.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       int64
	Username     string
	Email        string
}

// LoginThrottle limits login attempts. Implemented by ratelimit.LoginLimiter.
type LoginThrottle interface {
	Allow(ctx context.Context, key string) bool
	Reset(ctx context.Context, key string)
}

// AuthService issues and verifies sessions. Every login failure cause (user
// absent, wrong password, token or store trouble) surfaces as
// common.ErrInvalidCredentials so the caller cannot probe for usernames.
type AuthService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	codec    *auth.Codec
	throttle LoginThrottle
	logger   logging.Logger
	now      func() time.Time
}

// AuthOption customizes an AuthService.
type AuthOption func(*AuthService)

// WithThrottle enables login attempt limiting.
func WithThrottle(t LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

// WithClock replaces the service time source for expiry tests.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(db *sql.DB, repos repomanager.RepositoryManager, codec *auth.Codec, logger logging.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		db:     db,
		repos:  repos,
		codec:  codec,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login verifies credentials and mints a token pair. The refresh token is
// persisted with an atomic replace, so the user's previous refresh token, if
// any, stops working immediately: one active session per user.
func (s *AuthService) Login(ctx context.Context, username, password, clientIP string) (*Session, error) {
	throttleKey := username + "|" + clientIP
	if s.throttle != nil && !s.throttle.Allow(ctx, throttleKey) {
		return nil, common.ErrTooManyAttempts
	}

	user, err := s.repos.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "login: user lookup failed", "error", err)
		}
		return nil, common.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	accessToken, err := s.codec.IssueAccess(user.Username, user.ID)
	if err != nil {
		s.logger.Error(ctx, "login: access token issue failed", "error", err)
		return nil, common.ErrInvalidCredentials
	}
	refreshToken, err := s.codec.IssueRefresh(user.Username, user.ID)
	if err != nil {
		s.logger.Error(ctx, "login: refresh token issue failed", "error", err)
		return nil, common.ErrInvalidCredentials
	}

	expiresAt := s.now().Add(s.codec.RefreshTTL())
	if err := s.repos.RefreshTokens(s.db).Upsert(ctx, user.ID, refreshToken, expiresAt); err != nil {
		s.logger.Error(ctx, "login: refresh token persist failed", "error", err)
		return nil, common.ErrInvalidCredentials
	}

	if s.throttle != nil {
		s.throttle.Reset(ctx, throttleKey)
	}

	s.logger.Info(ctx, "login successful", "user_id", user.ID)

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
	}, nil
}

// Refresh exchanges a live refresh token for a fresh access token. The
// refresh token itself is not rotated; only a new login replaces it.
// Expired records are deleted on detection (lazy cleanup, no sweeper).
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	record, err := s.repos.RefreshTokens(s.db).FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "refresh: token lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !record.ExpiresAt.After(s.now()) {
		if err := s.repos.RefreshTokens(s.db).DeleteByUser(ctx, record.UserID); err != nil {
			s.logger.Warn(ctx, "refresh: expired record cleanup failed", "error", err)
		}
		return nil, common.ErrRefreshTokenExpired
	}

	if _, err := s.codec.VerifyKind(refreshToken, auth.KindRefresh); err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := s.repos.Users(s.db).GetByID(ctx, record.UserID)
	if err != nil {
		s.logger.Error(ctx, "refresh: user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	accessToken, err := s.codec.IssueAccess(user.Username, user.ID)
	if err != nil {
		s.logger.Error(ctx, "refresh: access token issue failed", "error", err)
		return nil, common.ErrorInternal
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
	}, nil
}

// Logout deletes the user's refresh record. Outstanding access tokens stay
// valid until natural expiry; access tokens are never tracked server-side.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.repos.RefreshTokens(s.db).DeleteByUser(ctx, userID); err != nil {
		s.logger.Error(ctx, "logout: refresh token delete failed", "error", err)
		return common.ErrorInternal
	}
	s.logger.Info(ctx, "logout successful", "user_id", userID)
	return nil
}

// Identity verifies an access token and returns its claims. Access tokens
// are self-certifying: no store lookup happens here.
func (s *AuthService) Identity(tokenString string) (*auth.Claims, error) {
	return s.codec.VerifyKind(tokenString, auth.KindAccess)
}
