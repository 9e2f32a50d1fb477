package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/realty-books/models"
	"gorm.io/gorm"
)

type RoleHandler struct {
	db *gorm.DB
}

func NewRoleHandler(db *gorm.DB) *RoleHandler {
	return &RoleHandler{db: db}
}

type RoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	role := models.Role{Name: req.Name, Description: req.Description}
	if err := h.db.Create(&role).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to create role")
		return
	}
	c.JSON(http.StatusCreated, role)
}

// List never includes the protected Super Admin role.
func (h *RoleHandler) List(c *gin.Context) {
	var roles []models.Role
	err := h.db.Where("is_deleted = ? AND id <> ?", false, models.SuperAdminRoleID).
		Order("id").Find(&roles).Error
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch roles")
		return
	}
	c.JSON(http.StatusOK, roles)
}

func (h *RoleHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id")
		return
	}
	if id == models.SuperAdminRoleID {
		fail(c, http.StatusForbidden, "the Super Admin role cannot be modified")
		return
	}

	var role models.Role
	if err := h.db.Where("is_deleted = ?", false).First(&role, id).Error; err != nil {
		fail(c, http.StatusNotFound, "role not found")
		return
	}

	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	role.Name = req.Name
	role.Description = req.Description

	if err := h.db.Save(&role).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to update role")
		return
	}
	c.JSON(http.StatusOK, role)
}

func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id")
		return
	}
	if id == models.SuperAdminRoleID {
		fail(c, http.StatusForbidden, "the Super Admin role cannot be deleted")
		return
	}

	var role models.Role
	if err := h.db.Where("is_deleted = ?", false).First(&role, id).Error; err != nil {
		fail(c, http.StatusNotFound, "role not found")
		return
	}

	if err := h.db.Model(&role).Update("is_deleted", true).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to delete role")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "role moved to trash"})
}

func (h *RoleHandler) Trash(c *gin.Context) {
	var roles []models.Role
	err := h.db.Where("is_deleted = ? AND id <> ?", true, models.SuperAdminRoleID).
		Order("updated_at DESC").Find(&roles).Error
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch trash")
		return
	}
	c.JSON(http.StatusOK, roles)
}

func (h *RoleHandler) Restore(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id")
		return
	}
	if id == models.SuperAdminRoleID {
		fail(c, http.StatusForbidden, "the Super Admin role cannot be modified")
		return
	}

	var role models.Role
	if err := h.db.First(&role, id).Error; err != nil {
		fail(c, http.StatusNotFound, "role not found")
		return
	}
	if !role.IsDeleted {
		fail(c, http.StatusBadRequest, "role is not deleted")
		return
	}

	if err := h.db.Model(&role).Update("is_deleted", false).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to restore role")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "role restored"})
}
