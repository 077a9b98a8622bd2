package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Divy2003/realstate/config"
	"github.com/Divy2003/realstate/db"
	"github.com/Divy2003/realstate/middleware"
	"github.com/Divy2003/realstate/pkg/apperr"
	"github.com/Divy2003/realstate/pkg/logger"
)

type AuthHandler struct {
	db  *db.DB
	cfg *config.Config
}

func NewAuthHandler(database *db.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: database, cfg: cfg}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// Login authenticates an admin account and issues the access/refresh token
// pair that is the whole unit of session state.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	user, err := h.db.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		// Same message for unknown email and bad password
		fail(c, apperr.Auth("Invalid email or password"))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		fail(c, apperr.Auth("Invalid email or password"))
		return
	}

	token, expiresAt, err := middleware.GenerateToken(user.ID, user.Email, user.Role, &h.cfg.Auth)
	if err != nil {
		fail(c, apperr.Internal("Failed to generate token", err))
		return
	}
	refresh, _, err := middleware.GenerateRefreshToken(user.ID, user.Email, user.Role, &h.cfg.Auth)
	if err != nil {
		fail(c, apperr.Internal("Failed to generate token", err))
		return
	}

	logger.Info(c.Request.Context(), "admin login", "email", user.Email)

	respond(c, http.StatusOK, gin.H{
		"user":         user,
		"token":        token,
		"refreshToken": refresh,
		"expiresAt":    expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// Refresh exchanges a valid refresh token for a fresh access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "refreshToken is required")
		return
	}

	claims, err := middleware.ParseToken(req.RefreshToken, h.cfg.Auth.JWTSecret)
	if err != nil || claims.Kind != middleware.TokenRefresh {
		fail(c, apperr.Auth("Invalid or expired token"))
		return
	}

	token, expiresAt, err := middleware.GenerateToken(claims.UserID, claims.Email, claims.Role, &h.cfg.Auth)
	if err != nil {
		fail(c, apperr.Internal("Failed to generate token", err))
		return
	}

	respond(c, http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// Me returns the authenticated account's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.db.GetUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": user})
}

// ChangePassword verifies the current password before replacing it.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "currentPassword and newPassword (min 8 chars) are required")
		return
	}

	user, err := h.db.GetUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		fail(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		fail(c, apperr.Auth("Current password is incorrect"))
		return
	}

	if err := h.db.UpdatePassword(c.Request.Context(), user.ID, req.NewPassword); err != nil {
		fail(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Password updated")
}
