package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/realty-books/models"
	"github.com/yourusername/realty-books/storage"
	"gorm.io/gorm"
)

type CustomerHandler struct {
	db    *gorm.DB
	store storage.StoreInterface
}

func NewCustomerHandler(db *gorm.DB, store storage.StoreInterface) *CustomerHandler {
	return &CustomerHandler{db: db, store: store}
}

type CustomerRequest struct {
	Name         string  `json:"name" binding:"required"`
	CustomerType string  `json:"customer_type" binding:"required"`
	Phone        string  `json:"phone" binding:"required"`
	Pan          *string `json:"pan"`
	Aadhar       *string `json:"aadhar"`
	Email        string  `json:"email"`
	Address      string  `json:"address"`
}

var customerTypes = map[string]bool{
	models.CustomerSeller: true,
	models.CustomerBuyer:  true,
	models.CustomerBoth:   true,
}

// uniquenessConflict reports whether err is the composite-unique violation on
// phone/PAN/Aadhar. Both sqlite and postgres surface the index name.
func uniquenessConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "uniq_customer_") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if !customerTypes[req.CustomerType] {
		fail(c, http.StatusBadRequest, "customer_type must be SELLER, BUYER or BOTH")
		return
	}

	customer := models.Customer{
		Name:         req.Name,
		CustomerType: req.CustomerType,
		Phone:        req.Phone,
		Pan:          req.Pan,
		Aadhar:       req.Aadhar,
		Email:        req.Email,
		Address:      req.Address,
	}
	if err := h.db.Create(&customer).Error; err != nil {
		if uniquenessConflict(err) {
			fail(c, http.StatusBadRequest, "phone, PAN or Aadhar is already in use by an active customer")
			return
		}
		fail(c, http.StatusInternalServerError, "failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) List(c *gin.Context) {
	q := h.db.Where("is_deleted = ?", false).Order("name")
	if t := c.Query("customer_type"); t != "" {
		q = q.Where("customer_type = ?", t)
	}

	var customers []models.Customer
	if err := q.Find(&customers).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	var customer models.Customer
	if err := h.db.Where("is_deleted = ?", false).First(&customer, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "customer not found")
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	var customer models.Customer
	if err := h.db.Where("is_deleted = ?", false).First(&customer, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "customer not found")
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if !customerTypes[req.CustomerType] {
		fail(c, http.StatusBadRequest, "customer_type must be SELLER, BUYER or BOTH")
		return
	}

	customer.Name = req.Name
	customer.CustomerType = req.CustomerType
	customer.Phone = req.Phone
	customer.Pan = req.Pan
	customer.Aadhar = req.Aadhar
	customer.Email = req.Email
	customer.Address = req.Address

	if err := h.db.Save(&customer).Error; err != nil {
		if uniquenessConflict(err) {
			fail(c, http.StatusBadRequest, "phone, PAN or Aadhar is already in use by an active customer")
			return
		}
		fail(c, http.StatusInternalServerError, "failed to update customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	var customer models.Customer
	if err := h.db.Where("is_deleted = ?", false).First(&customer, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "customer not found")
		return
	}

	if err := h.db.Model(&customer).Update("is_deleted", true).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to delete customer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "customer moved to trash"})
}

func (h *CustomerHandler) Trash(c *gin.Context) {
	var customers []models.Customer
	if err := h.db.Where("is_deleted = ?", true).Order("updated_at DESC").Find(&customers).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch trash")
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) Restore(c *gin.Context) {
	var customer models.Customer
	if err := h.db.First(&customer, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "customer not found")
		return
	}
	if !customer.IsDeleted {
		fail(c, http.StatusBadRequest, "customer is not deleted")
		return
	}

	if err := h.db.Model(&customer).Update("is_deleted", false).Error; err != nil {
		if uniquenessConflict(err) {
			fail(c, http.StatusBadRequest, "an active customer already uses this phone, PAN or Aadhar")
			return
		}
		fail(c, http.StatusInternalServerError, "failed to restore customer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "customer restored"})
}

// UploadDocument attaches a KYC file to a customer.
func (h *CustomerHandler) UploadDocument(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id")
		return
	}

	var customer models.Customer
	if err := h.db.Where("is_deleted = ?", false).First(&customer, id).Error; err != nil {
		fail(c, http.StatusNotFound, "customer not found")
		return
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

	path, err := h.store.Save("kyc", fileHeader.Filename, f)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to store file")
		return
	}

	doc := models.PropertyDocument{
		CustomerID: &customer.ID,
		Title:      title,
		FileName:   fileHeader.Filename,
		FilePath:   path,
	}
	if err := h.db.Create(&doc).Error; err != nil {
		h.store.Delete(path)
		fail(c, http.StatusInternalServerError, "failed to save document")
		return
	}

	c.JSON(http.StatusCreated, doc)
}
