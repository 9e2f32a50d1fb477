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

type TransactionHandler struct {
	db *gorm.DB
}

func NewTransactionHandler(db *gorm.DB) *TransactionHandler {
	return &TransactionHandler{db: db}
}

type CreateTransactionRequest struct {
	PropertyID     uint            `json:"property_id" binding:"required"`
	SellPropertyID *uint           `json:"sell_property_id"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate    string          `json:"payment_date" binding:"required"`
	PaymentMode    string          `json:"payment_mode" binding:"required"`
	ReferenceNo    string          `json:"reference_no"`
	Remarks        string          `json:"remarks"`
}

type UpdateTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate string          `json:"payment_date"`
	PaymentMode string          `json:"payment_mode"`
	ReferenceNo string          `json:"reference_no"`
	Remarks     string          `json:"remarks"`
}

// Create posts a cash movement against a property ledger, or against a sale
// ledger when sell_property_id is given. The parent row is locked before the
// balance check so concurrent postings serialize.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if !models.PaymentModes[req.PaymentMode] {
		fail(c, http.StatusBadRequest, "invalid payment mode")
		return
	}
	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		fail(c, http.StatusBadRequest, "payment_date must be YYYY-MM-DD")
		return
	}

	txn := models.Transaction{
		Amount:         req.Amount,
		PaymentDate:    paymentDate,
		PaymentMode:    req.PaymentMode,
		ReferenceNo:    req.ReferenceNo,
		Remarks:        req.Remarks,
		PropertyID:     req.PropertyID,
		SellPropertyID: req.SellPropertyID,
	}

	var balances gin.H
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if req.SellPropertyID != nil {
			sale, err := ledger.LockSale(tx, *req.SellPropertyID)
			if err != nil {
				return err
			}
			if sale.PropertyID != req.PropertyID {
				return gorm.ErrRecordNotFound
			}
			if err := ledger.Postable(sale.PendingAmount, req.Amount); err != nil {
				return err
			}
			txn.Type = models.TxnCredit
			if err := tx.Create(&txn).Error; err != nil {
				return err
			}
			if err := ledger.ApplySaleDelta(tx, sale, req.Amount); err != nil {
				return err
			}
			balances = gin.H{"received_amount": sale.ReceivedAmount, "pending_amount": sale.PendingAmount}
			return nil
		}

		prop, err := ledger.LockProperty(tx, req.PropertyID)
		if err != nil {
			return err
		}
		if err := ledger.Postable(prop.DueAmount, req.Amount); err != nil {
			return err
		}
		txn.Type = models.TxnDebit
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}
		if err := ledger.ApplyPropertyDelta(tx, prop, req.Amount); err != nil {
			return err
		}
		balances = gin.H{"paid_amount": prop.PaidAmount, "due_amount": prop.DueAmount}
		return nil
	})
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":      true,
		"transaction": txn,
		"balances":    balances,
	})
}

// Update re-derives the parent balances by un-applying the old amount first:
// the new amount is checked against total - (paid - old), not the current due.
func (h *TransactionHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		failErr(c, ledger.ErrNonPositiveAmount)
		return
	}
	if req.PaymentMode != "" && !models.PaymentModes[req.PaymentMode] {
		fail(c, http.StatusBadRequest, "invalid payment mode")
		return
	}
	var paymentDate *time.Time
	if req.PaymentDate != "" {
		d, err := parseDate(req.PaymentDate)
		if err != nil {
			fail(c, http.StatusBadRequest, "payment_date must be YYYY-MM-DD")
			return
		}
		paymentDate = &d
	}

	var txn models.Transaction
	var balances gin.H
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("is_deleted = ?", false).First(&txn, id).Error; err != nil {
			return err
		}

		delta := req.Amount.Sub(txn.Amount)
		if txn.SellPropertyID != nil {
			sale, err := ledger.LockSale(tx, *txn.SellPropertyID)
			if err != nil {
				return err
			}
			rolledBack := sale.TotalSaleAmount.Sub(sale.ReceivedAmount.Sub(txn.Amount))
			if req.Amount.GreaterThan(rolledBack.Add(ledger.Epsilon)) {
				return ledger.ErrExceedsDue
			}
			if err := ledger.ApplySaleDelta(tx, sale, delta); err != nil {
				return err
			}
			balances = gin.H{"received_amount": sale.ReceivedAmount, "pending_amount": sale.PendingAmount}
		} else {
			prop, err := ledger.LockProperty(tx, txn.PropertyID)
			if err != nil {
				return err
			}
			rolledBack := prop.TotalAmount.Sub(prop.PaidAmount.Sub(txn.Amount))
			if req.Amount.GreaterThan(rolledBack.Add(ledger.Epsilon)) {
				return ledger.ErrExceedsDue
			}
			if err := ledger.ApplyPropertyDelta(tx, prop, delta); err != nil {
				return err
			}
			balances = gin.H{"paid_amount": prop.PaidAmount, "due_amount": prop.DueAmount}
		}

		txn.Amount = req.Amount
		if paymentDate != nil {
			txn.PaymentDate = *paymentDate
		}
		if req.PaymentMode != "" {
			txn.PaymentMode = req.PaymentMode
		}
		if req.ReferenceNo != "" {
			txn.ReferenceNo = req.ReferenceNo
		}
		if req.Remarks != "" {
			txn.Remarks = req.Remarks
		}
		return tx.Save(&txn).Error
	})
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      true,
		"transaction": txn,
		"balances":    balances,
	})
}

// Delete soft-deletes a journal entry and reverses its ledger delta.
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id")
		return
	}

	var balances gin.H
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var txn models.Transaction
		if err := tx.Where("is_deleted = ?", false).First(&txn, id).Error; err != nil {
			return err
		}

		if txn.SellPropertyID != nil {
			sale, err := ledger.LockSale(tx, *txn.SellPropertyID)
			if err != nil {
				return err
			}
			if err := ledger.ApplySaleDelta(tx, sale, txn.Amount.Neg()); err != nil {
				return err
			}
			balances = gin.H{"received_amount": sale.ReceivedAmount, "pending_amount": sale.PendingAmount}
		} else {
			prop, err := ledger.LockProperty(tx, txn.PropertyID)
			if err != nil {
				return err
			}
			if err := ledger.ApplyPropertyDelta(tx, prop, txn.Amount.Neg()); err != nil {
				return err
			}
			balances = gin.H{"paid_amount": prop.PaidAmount, "due_amount": prop.DueAmount}
		}

		return tx.Model(&txn).Update("is_deleted", true).Error
	})
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "balances": balances})
}

// List returns non-deleted journal entries, optionally filtered by parent.
func (h *TransactionHandler) List(c *gin.Context) {
	q := h.db.Where("is_deleted = ?", false).Order("payment_date DESC, id DESC")
	if pid := c.Query("property_id"); pid != "" {
		q = q.Where("property_id = ?", pid)
	}
	if sid := c.Query("sell_property_id"); sid != "" {
		q = q.Where("sell_property_id = ?", sid)
	}

	var txns []models.Transaction
	if err := q.Find(&txns).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}
	c.JSON(http.StatusOK, txns)
}

func (h *TransactionHandler) Get(c *gin.Context) {
	var txn models.Transaction
	if err := h.db.Where("is_deleted = ?", false).First(&txn, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "transaction not found")
		return
	}
	c.JSON(http.StatusOK, txn)
}
