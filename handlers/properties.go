package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/realty-books/ledger"
	"github.com/yourusername/realty-books/models"
	"github.com/yourusername/realty-books/storage"
	"gorm.io/gorm"
)

type PropertyHandler struct {
	db    *gorm.DB
	store storage.StoreInterface
}

func NewPropertyHandler(db *gorm.DB, store storage.StoreInterface) *PropertyHandler {
	return &PropertyHandler{db: db, store: store}
}

type CreatePropertyRequest struct {
	Name          string          `json:"name" binding:"required"`
	Location      string          `json:"location"`
	VendorID      *uint           `json:"vendor_id"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	Rate          decimal.Decimal `json:"rate" binding:"required"`
	GstPercent    decimal.Decimal `json:"gst_percent"`
	OtherExpenses decimal.Decimal `json:"other_expenses"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentMode   string          `json:"payment_mode"`
	Remarks       string          `json:"remarks"`
}

type UpdatePropertyRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	VendorID *uint  `json:"vendor_id"`
	Remarks  string `json:"remarks"`
}

// Create records a purchase entry. The total is computed once here and never
// mutated again; an opening DEBIT journal entry covers any initial payment so
// the journal always reconciles with the ledger.
func (h *PropertyHandler) Create(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) || req.Rate.LessThanOrEqual(decimal.Zero) {
		fail(c, http.StatusBadRequest, "quantity and rate must be greater than zero")
		return
	}
	if req.PaidAmount.IsNegative() {
		fail(c, http.StatusBadRequest, "paid_amount cannot be negative")
		return
	}

	total := ledger.PurchaseTotal(req.Quantity, req.Rate, req.GstPercent, req.OtherExpenses)
	if req.PaidAmount.GreaterThan(total.Add(ledger.Epsilon)) {
		failErr(c, ledger.ErrExceedsDue)
		return
	}

	if req.VendorID != nil {
		var vendor models.Customer
		if err := h.db.Where("is_deleted = ?", false).First(&vendor, *req.VendorID).Error; err != nil {
			fail(c, http.StatusNotFound, "vendor not found")
			return
		}
		if vendor.CustomerType == models.CustomerBuyer {
			fail(c, http.StatusBadRequest, "vendor must be a SELLER or BOTH customer")
			return
		}
	}

	prop := models.Property{
		TransactionType: models.TransactionTypePurchase,
		Name:            req.Name,
		Location:        req.Location,
		VendorID:        req.VendorID,
		Quantity:        req.Quantity,
		Rate:            req.Rate,
		GstPercent:      req.GstPercent,
		OtherExpenses:   req.OtherExpenses,
		TotalAmount:     total,
		PaidAmount:      req.PaidAmount.Round(2),
		DueAmount:       total.Sub(req.PaidAmount).Round(2),
		Remarks:         req.Remarks,
		Status:          models.PropertyAvailable,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&prop).Error; err != nil {
			return err
		}
		if prop.PaidAmount.GreaterThan(decimal.Zero) {
			mode := req.PaymentMode
			if !models.PaymentModes[mode] {
				mode = "CASH"
			}
			opening := models.Transaction{
				Type:        models.TxnDebit,
				Amount:      prop.PaidAmount,
				PaymentDate: time.Now(),
				PaymentMode: mode,
				Remarks:     "opening payment",
				PropertyID:  prop.ID,
			}
			return tx.Create(&opening).Error
		}
		return nil
	})
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, prop)
}

func (h *PropertyHandler) List(c *gin.Context) {
	q := h.db.Where("is_deleted = ?", false).Preload("Vendor").Order("id DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var props []models.Property
	if err := q.Find(&props).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch properties")
		return
	}
	c.JSON(http.StatusOK, props)
}

func (h *PropertyHandler) Get(c *gin.Context) {
	var prop models.Property
	err := h.db.Where("is_deleted = ?", false).
		Preload("Vendor").
		Preload("Transactions", "is_deleted = ?", false).
		Preload("Emis").
		First(&prop, c.Param("id")).Error
	if err != nil {
		fail(c, http.StatusNotFound, "property not found")
		return
	}
	c.JSON(http.StatusOK, prop)
}

// Update changes descriptive fields only; the balance triple is owned by the
// journal and EMI flows.
func (h *PropertyHandler) Update(c *gin.Context) {
	var prop models.Property
	if err := h.db.Where("is_deleted = ?", false).First(&prop, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "property not found")
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.Name != "" {
		prop.Name = req.Name
	}
	if req.Location != "" {
		prop.Location = req.Location
	}
	if req.VendorID != nil {
		prop.VendorID = req.VendorID
	}
	if req.Remarks != "" {
		prop.Remarks = req.Remarks
	}

	if err := h.db.Save(&prop).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to update property")
		return
	}
	c.JSON(http.StatusOK, prop)
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	var prop models.Property
	if err := h.db.Where("is_deleted = ?", false).First(&prop, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "property not found")
		return
	}

	if err := h.db.Model(&prop).Update("is_deleted", true).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to delete property")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "property moved to trash"})
}

func (h *PropertyHandler) Trash(c *gin.Context) {
	var props []models.Property
	if err := h.db.Where("is_deleted = ?", true).Order("updated_at DESC").Find(&props).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch trash")
		return
	}
	c.JSON(http.StatusOK, props)
}

func (h *PropertyHandler) Restore(c *gin.Context) {
	var prop models.Property
	if err := h.db.First(&prop, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "property not found")
		return
	}
	if !prop.IsDeleted {
		fail(c, http.StatusBadRequest, "property is not deleted")
		return
	}

	if err := h.db.Model(&prop).Update("is_deleted", false).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to restore property")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "property restored"})
}

// Destroy hard-deletes a trashed property together with everything it owns:
// journal entries, EMI schedules, sale deals, documents and their stored
// blobs.
func (h *PropertyHandler) Destroy(c *gin.Context) {
	var prop models.Property
	if err := h.db.First(&prop, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "property not found")
		return
	}
	if !prop.IsDeleted {
		fail(c, http.StatusBadRequest, "property must be in trash before permanent deletion")
		return
	}

	var blobPaths []string
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PropertyDocument{}).
			Where("property_id = ? AND file_path <> ''", prop.ID).
			Pluck("file_path", &blobPaths).Error; err != nil {
			return err
		}
		var receiptPaths []string
		if err := tx.Model(&models.Transaction{}).
			Where("property_id = ? AND receipt_path <> ''", prop.ID).
			Pluck("receipt_path", &receiptPaths).Error; err != nil {
			return err
		}
		blobPaths = append(blobPaths, receiptPaths...)

		var saleIDs []uint
		if err := tx.Model(&models.SellProperty{}).Where("property_id = ?", prop.ID).
			Pluck("id", &saleIDs).Error; err != nil {
			return err
		}
		if len(saleIDs) > 0 {
			if err := tx.Where("sell_property_id IN ?", saleIDs).Delete(&models.SellEmi{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("property_id = ?", prop.ID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", prop.ID).Delete(&models.Emi{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", prop.ID).Delete(&models.SellProperty{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", prop.ID).Delete(&models.PropertyDocument{}).Error; err != nil {
			return err
		}
		return tx.Delete(&prop).Error
	})
	if err != nil {
		failErr(c, err)
		return
	}

	// rows are gone; drop the blobs best-effort
	for _, path := range blobPaths {
		if err := h.store.Delete(path); err != nil {
			logrus.WithError(err).WithField("path", path).Warn("failed to delete stored file")
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "message": "property permanently deleted"})
}
