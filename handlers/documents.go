package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/realty-books/models"
	"github.com/yourusername/realty-books/storage"
	"gorm.io/gorm"
)

type DocumentHandler struct {
	db    *gorm.DB
	store storage.StoreInterface
}

func NewDocumentHandler(db *gorm.DB, store storage.StoreInterface) *DocumentHandler {
	return &DocumentHandler{db: db, store: store}
}

// Upload attaches a file to a property, optionally scoped to one of its sale
// deals via the sell_property_id form field.
func (h *DocumentHandler) Upload(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id")
		return
	}

	var prop models.Property
	if err := h.db.Where("is_deleted = ?", false).First(&prop, id).Error; err != nil {
		fail(c, http.StatusNotFound, "property not found")
		return
	}

	var sellPropertyID *uint
	if raw := c.PostForm("sell_property_id"); raw != "" {
		sid64, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid sell_property_id")
			return
		}
		sid := uint(sid64)
		var sale models.SellProperty
		if err := h.db.Where("is_deleted = ? AND property_id = ?", false, prop.ID).First(&sale, sid).Error; err != nil {
			fail(c, http.StatusNotFound, "sale not found for this property")
			return
		}
		sellPropertyID = &sid
	}

	title := c.PostForm("title")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "file is required")
		return
	}
	if title == "" {
		title = fileHeader.Filename
	}

	f, err := fileHeader.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "failed to read file")
		return
	}
	defer f.Close()

	path, err := h.store.Save("documents", fileHeader.Filename, f)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to store file")
		return
	}

	doc := models.PropertyDocument{
		PropertyID:     &prop.ID,
		SellPropertyID: sellPropertyID,
		Title:          title,
		FileName:       fileHeader.Filename,
		FilePath:       path,
	}
	if err := h.db.Create(&doc).Error; err != nil {
		h.store.Delete(path)
		fail(c, http.StatusInternalServerError, "failed to save document")
		return
	}

	c.JSON(http.StatusCreated, doc)
}

func (h *DocumentHandler) ListForProperty(c *gin.Context) {
	var docs []models.PropertyDocument
	err := h.db.Where("property_id = ? AND is_deleted = ?", c.Param("id"), false).
		Order("id DESC").Find(&docs).Error
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch documents")
		return
	}
	c.JSON(http.StatusOK, docs)
}

// Delete soft-deletes the row only; the stored file stays for audit.
func (h *DocumentHandler) Delete(c *gin.Context) {
	var doc models.PropertyDocument
	if err := h.db.Where("is_deleted = ?", false).First(&doc, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "document not found")
		return
	}

	if err := h.db.Model(&doc).Update("is_deleted", true).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to delete document")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "document moved to trash"})
}

func (h *DocumentHandler) Trash(c *gin.Context) {
	var docs []models.PropertyDocument
	if err := h.db.Where("is_deleted = ?", true).Order("updated_at DESC").Find(&docs).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch trash")
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *DocumentHandler) Restore(c *gin.Context) {
	var doc models.PropertyDocument
	if err := h.db.First(&doc, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "document not found")
		return
	}
	if !doc.IsDeleted {
		fail(c, http.StatusBadRequest, "document is not deleted")
		return
	}

	if err := h.db.Model(&doc).Update("is_deleted", false).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to restore document")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "document restored"})
}
