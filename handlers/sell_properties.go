package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yourusername/realty-books/ledger"
	"github.com/yourusername/realty-books/models"
	"gorm.io/gorm"
)

type SellPropertyHandler struct {
	db *gorm.DB
}

func NewSellPropertyHandler(db *gorm.DB) *SellPropertyHandler {
	return &SellPropertyHandler{db: db}
}

type CreateSellPropertyRequest struct {
	PropertyID     uint            `json:"property_id" binding:"required"`
	CustomerID     uint            `json:"customer_id" binding:"required"`
	SaleRate       decimal.Decimal `json:"sale_rate" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	GstPercent     decimal.Decimal `json:"gst_percent"`
	OtherCharges   decimal.Decimal `json:"other_charges"`
	Discount       decimal.Decimal `json:"discount"`
	InitialPayment decimal.Decimal `json:"initial_payment"`
	PaymentMode    string          `json:"payment_mode"`
	Remarks        string          `json:"remarks"`
}

// Create opens a sale deal on an AVAILABLE property and marks it SOLD. An
// initial payment posts an opening CREDIT entry against the sale ledger
// inside the same unit.
func (h *SellPropertyHandler) Create(c *gin.Context) {
	var req CreateSellPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.SaleRate.LessThanOrEqual(decimal.Zero) || req.Quantity.LessThanOrEqual(decimal.Zero) {
		fail(c, http.StatusBadRequest, "sale_rate and quantity must be greater than zero")
		return
	}
	if req.InitialPayment.IsNegative() {
		fail(c, http.StatusBadRequest, "initial_payment cannot be negative")
		return
	}

	total := ledger.SaleTotal(req.Quantity, req.SaleRate, req.GstPercent, req.OtherCharges, req.Discount)
	if total.LessThanOrEqual(decimal.Zero) {
		fail(c, http.StatusBadRequest, "total sale amount must be greater than zero")
		return
	}

	var sale models.SellProperty
	err := h.db.Transaction(func(tx *gorm.DB) error {
		prop, err := ledger.LockProperty(tx, req.PropertyID)
		if err != nil {
			return err
		}
		if prop.Status != models.PropertyAvailable {
			return errPropertyNotAvailable
		}

		var buyer models.Customer
		if err := tx.Where("is_deleted = ?", false).First(&buyer, req.CustomerID).Error; err != nil {
			return err
		}
		if buyer.CustomerType == models.CustomerSeller {
			return errCustomerNotBuyer
		}

		sale = models.SellProperty{
			PropertyID:      prop.ID,
			CustomerID:      buyer.ID,
			SaleRate:        req.SaleRate,
			Quantity:        req.Quantity,
			GstPercent:      req.GstPercent,
			OtherCharges:    req.OtherCharges,
			Discount:        req.Discount,
			TotalSaleAmount: total,
			ReceivedAmount:  decimal.Zero,
			PendingAmount:   total,
			Remarks:         req.Remarks,
		}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		if req.InitialPayment.GreaterThan(decimal.Zero) {
			if err := ledger.Postable(sale.PendingAmount, req.InitialPayment); err != nil {
				return err
			}
			mode := req.PaymentMode
			if !models.PaymentModes[mode] {
				mode = "CASH"
			}
			opening := models.Transaction{
				Type:           models.TxnCredit,
				Amount:         req.InitialPayment,
				PaymentDate:    time.Now(),
				PaymentMode:    mode,
				Remarks:        "initial sale payment",
				PropertyID:     prop.ID,
				SellPropertyID: &sale.ID,
			}
			if err := tx.Create(&opening).Error; err != nil {
				return err
			}
			if err := ledger.ApplySaleDelta(tx, &sale, req.InitialPayment); err != nil {
				return err
			}
		}

		return tx.Model(&models.Property{}).Where("id = ?", prop.ID).
			Update("status", models.PropertySold).Error
	})
	if err != nil {
		switch err {
		case errPropertyNotAvailable, errCustomerNotBuyer:
			fail(c, http.StatusBadRequest, err.Error())
		default:
			failErr(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, sale)
}

func (h *SellPropertyHandler) List(c *gin.Context) {
	q := h.db.Where("is_deleted = ?", false).Preload("Property").Preload("Customer").Order("id DESC")
	if pid := c.Query("property_id"); pid != "" {
		q = q.Where("property_id = ?", pid)
	}

	var sales []models.SellProperty
	if err := q.Find(&sales).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch sales")
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *SellPropertyHandler) Get(c *gin.Context) {
	var sale models.SellProperty
	err := h.db.Where("is_deleted = ?", false).
		Preload("Property").
		Preload("Customer").
		Preload("Emis").
		First(&sale, c.Param("id")).Error
	if err != nil {
		fail(c, http.StatusNotFound, "sale not found")
		return
	}
	c.JSON(http.StatusOK, sale)
}

// Delete soft-deletes a sale deal and puts the property back on the market.
func (h *SellPropertyHandler) Delete(c *gin.Context) {
	var sale models.SellProperty
	if err := h.db.Where("is_deleted = ?", false).First(&sale, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "sale not found")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&sale).Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.Property{}).Where("id = ?", sale.PropertyID).
			Update("status", models.PropertyAvailable).Error
	})
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "message": "sale moved to trash"})
}

func (h *SellPropertyHandler) Trash(c *gin.Context) {
	var sales []models.SellProperty
	if err := h.db.Where("is_deleted = ?", true).Order("updated_at DESC").Find(&sales).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch trash")
		return
	}
	c.JSON(http.StatusOK, sales)
}

// Restore re-activates a trashed deal; the property must still be on the
// market, otherwise another deal has claimed it in the meantime.
func (h *SellPropertyHandler) Restore(c *gin.Context) {
	var sale models.SellProperty
	if err := h.db.First(&sale, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "sale not found")
		return
	}
	if !sale.IsDeleted {
		fail(c, http.StatusBadRequest, "sale is not deleted")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		prop, err := ledger.LockProperty(tx, sale.PropertyID)
		if err != nil {
			return err
		}
		if prop.Status != models.PropertyAvailable {
			return errPropertyNotAvailable
		}
		if err := tx.Model(&sale).Update("is_deleted", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Property{}).Where("id = ?", prop.ID).
			Update("status", models.PropertySold).Error
	})
	if err != nil {
		if err == errPropertyNotAvailable {
			fail(c, http.StatusBadRequest, err.Error())
		} else {
			failErr(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "message": "sale restored"})
}
