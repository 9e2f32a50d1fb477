package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/realty-books/config"
	"github.com/yourusername/realty-books/middleware"
	"github.com/yourusername/realty-books/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		DB:  db,
		Cfg: cfg,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates against the users table and issues access and refresh
// tokens carrying the user's role name.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	err := h.DB.Where("email = ? AND is_deleted = ?", req.Email, false).
		Preload("Role").First(&user).Error
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if !user.IsActive {
		fail(c, http.StatusForbidden, "user account is inactive")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		fail(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}

	accessToken, err := middleware.GenerateToken(user.ID, roleName, h.Cfg.JWTSecret, 15*time.Minute)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to generate access token")
		return
	}
	refreshToken, err := middleware.GenerateToken(user.ID, roleName, h.Cfg.JWTRefreshSecret, 7*24*time.Hour)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to generate refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          user,
	})
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh exchanges a valid refresh token for a fresh token pair. The user
// must still exist and be active at refresh time.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	claims, err := middleware.ValidateToken(req.RefreshToken, h.Cfg.JWTRefreshSecret)
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	var user models.User
	err = h.DB.Where("is_deleted = ?", false).Preload("Role").First(&user, claims.UserID).Error
	if err != nil {
		fail(c, http.StatusUnauthorized, "user not found")
		return
	}
	if !user.IsActive {
		fail(c, http.StatusForbidden, "user account is inactive")
		return
	}

	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}

	accessToken, err := middleware.GenerateToken(user.ID, roleName, h.Cfg.JWTSecret, 15*time.Minute)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to generate access token")
		return
	}
	refreshToken, err := middleware.GenerateToken(user.ID, roleName, h.Cfg.JWTRefreshSecret, 7*24*time.Hour)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to generate refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}
