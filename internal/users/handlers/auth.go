// Package handlers exposes the user service REST API under /api/auth.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/users/models"
	"github.com/dmitrijs2005/shopkeeper/internal/users/services"
)

type AuthHandler struct {
	auth   *services.AuthService
	users  *services.UserService
	logger logging.Logger
}

func NewAuthHandler(auth *services.AuthService, users *services.UserService, logger logging.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, logger: logger}
}

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type updateProfileRequest struct {
	Email string `json:"email"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type sessionData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       int64  `json:"userId"`
	Username     string `json:"username"`
	Email        string `json:"email"`
}

type userData struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func toSessionData(s *services.Session) sessionData {
	return sessionData{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		UserID:       s.UserID,
		Username:     s.Username,
		Email:        s.Email,
	}
}

func toUserData(u *models.User) userData {
	return userData{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		httpx.Fail(c, http.StatusBadRequest, "Username is required")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		httpx.Fail(c, http.StatusBadRequest, "Email is required")
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		httpx.Fail(c, http.StatusBadRequest, "Password is required")
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			httpx.Fail(c, http.StatusBadRequest, validationMessage(err))
		case errors.Is(err, common.ErrorAlreadyExists):
			httpx.Fail(c, http.StatusConflict, "Username or email already exists")
		default:
			httpx.Fail(c, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	httpx.OK(c, http.StatusCreated, "User registered successfully", toUserData(user))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		httpx.Fail(c, http.StatusBadRequest, "Username is required")
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		httpx.Fail(c, http.StatusBadRequest, "Password is required")
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Username, req.Password, c.ClientIP())
	if err != nil {
		if errors.Is(err, common.ErrTooManyAttempts) {
			httpx.Fail(c, http.StatusTooManyRequests, "Too many login attempts, try again later")
			return
		}
		// Every other failure cause gets the same response.
		httpx.Fail(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	httpx.OK(c, http.StatusOK, "Login successful", toSessionData(session))
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		httpx.Fail(c, http.StatusBadRequest, "Refresh token is required")
		return
	}

	session, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorInternal) {
			httpx.Fail(c, http.StatusInternalServerError, "Token refresh failed")
			return
		}
		// NotFound, expired and invalid all collapse to one message.
		httpx.Fail(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	httpx.OK(c, http.StatusOK, "Token refreshed successfully", toSessionData(session))
}

// Logout handles POST /api/auth/logout. Requires a valid access token; the
// guard has already attached the identity.
func (h *AuthHandler) Logout(c *gin.Context) {
	id, ok := httpx.IdentityFrom(c)
	if !ok {
		httpx.Fail(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	if err := h.auth.Logout(c.Request.Context(), id.UserID); err != nil {
		httpx.Fail(c, http.StatusInternalServerError, "Logout failed")
		return
	}

	httpx.OK(c, http.StatusOK, "Logged out successfully", nil)
}

// Validate handles GET /api/auth/validate. Consumed by other services to
// stamp ownership on created resources.
func (h *AuthHandler) Validate(c *gin.Context) {
	token, ok := httpx.BearerToken(c)
	if !ok {
		httpx.Fail(c, http.StatusBadRequest, "No token provided")
		return
	}

	claims, err := h.auth.Identity(token)
	if err != nil {
		httpx.Fail(c, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}

	httpx.OK(c, http.StatusOK, "Token is valid", gin.H{
		"userId":   claims.UserID,
		"username": claims.Username(),
		"valid":    true,
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	id, _ := httpx.IdentityFrom(c)

	user, err := h.users.GetByID(c.Request.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			httpx.Fail(c, http.StatusNotFound, "User not found")
			return
		}
		httpx.Fail(c, http.StatusInternalServerError, "Failed to retrieve user info")
		return
	}

	httpx.OK(c, http.StatusOK, "User info retrieved successfully", toUserData(user))
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		httpx.Fail(c, http.StatusBadRequest, "Email is required")
		return
	}

	id, _ := httpx.IdentityFrom(c)

	user, err := h.users.UpdateEmail(c.Request.Context(), id.Username, req.Email)
	if err != nil {
		httpx.Fail(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	httpx.OK(c, http.StatusOK, "Profile updated successfully", toUserData(user))
}

// ChangePassword handles POST /api/auth/change-password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OldPassword == "" {
		httpx.Fail(c, http.StatusBadRequest, "Old password is required")
		return
	}
	if req.NewPassword == "" {
		httpx.Fail(c, http.StatusBadRequest, "New password is required")
		return
	}

	id, _ := httpx.IdentityFrom(c)

	if err := h.users.ChangePassword(c.Request.Context(), id.Username, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			httpx.Fail(c, http.StatusBadRequest, validationMessage(err))
		case errors.Is(err, common.ErrInvalidCredentials):
			httpx.Fail(c, http.StatusBadRequest, "Old password is incorrect")
		default:
			httpx.Fail(c, http.StatusInternalServerError, "Failed to change password")
		}
		return
	}

	httpx.OK(c, http.StatusOK, "Password changed successfully", nil)
}

// validationMessage strips the sentinel prefix from a wrapped validation
// error, leaving the human-readable part.
func validationMessage(err error) string {
	msg := err.Error()
	if cut, ok := strings.CutPrefix(msg, common.ErrorValidation.Error()+": "); ok {
		return cut
	}
	return msg
}
