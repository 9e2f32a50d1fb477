package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/realty-books/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	RoleID   uint   `json:"role_id" binding:"required"`
}

type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleID   uint   `json:"role_id"`
	IsActive *bool  `json:"is_active"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.RoleID == models.SuperAdminRoleID {
		fail(c, http.StatusForbidden, "the Super Admin role cannot be assigned")
		return
	}

	var role models.Role
	if err := h.db.Where("is_deleted = ?", false).First(&role, req.RoleID).Error; err != nil {
		fail(c, http.StatusNotFound, "role not found")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		RoleID:       req.RoleID,
	}
	if err := h.db.Create(&user).Error; err != nil {
		fail(c, http.StatusBadRequest, "email is already in use by an active user")
		return
	}
	user.Role = &role

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	err := h.db.Where("is_deleted = ? AND role_id <> ?", false, models.SuperAdminRoleID).
		Preload("Role").Order("id").Find(&users).Error
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Update(c *gin.Context) {
	var user models.User
	if err := h.db.Where("is_deleted = ?", false).First(&user, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	if user.RoleID == models.SuperAdminRoleID {
		fail(c, http.StatusForbidden, "the Super Admin user cannot be modified")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.RoleID == models.SuperAdminRoleID {
		fail(c, http.StatusForbidden, "the Super Admin role cannot be assigned")
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.RoleID != 0 {
		var role models.Role
		if err := h.db.Where("is_deleted = ?", false).First(&role, req.RoleID).Error; err != nil {
			fail(c, http.StatusNotFound, "role not found")
			return
		}
		user.RoleID = req.RoleID
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			fail(c, http.StatusInternalServerError, "failed to hash password")
			return
		}
		user.PasswordHash = string(hash)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.db.Save(&user).Error; err != nil {
		fail(c, http.StatusBadRequest, "email is already in use by an active user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	var user models.User
	if err := h.db.Where("is_deleted = ?", false).First(&user, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	if user.RoleID == models.SuperAdminRoleID {
		fail(c, http.StatusForbidden, "the Super Admin user cannot be deleted")
		return
	}

	if err := h.db.Model(&user).Update("is_deleted", true).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "user moved to trash"})
}

func (h *UserHandler) Trash(c *gin.Context) {
	var users []models.User
	err := h.db.Where("is_deleted = ?", true).Preload("Role").
		Order("updated_at DESC").Find(&users).Error
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch trash")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Restore(c *gin.Context) {
	var user models.User
	if err := h.db.First(&user, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	if !user.IsDeleted {
		fail(c, http.StatusBadRequest, "user is not deleted")
		return
	}

	if err := h.db.Model(&user).Update("is_deleted", false).Error; err != nil {
		fail(c, http.StatusBadRequest, "an active user already uses this email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "user restored"})
}
