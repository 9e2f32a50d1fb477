package handlers

import (
	"fmt"
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

type EmiHandler struct {
	db    *gorm.DB
	store storage.StoreInterface
}

func NewEmiHandler(db *gorm.DB, store storage.StoreInterface) *EmiHandler {
	return &EmiHandler{db: db, store: store}
}

type GenerateEmisRequest struct {
	Installments int             `json:"installments" binding:"required,gt=0"`
	EmiAmount    decimal.Decimal `json:"emi_amount" binding:"required"`
	FirstDueDate string          `json:"first_due_date" binding:"required"`
}

// GenerateForProperty creates a monthly vendor-financing schedule.
func (h *EmiHandler) GenerateForProperty(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id")
		return
	}

	var req GenerateEmisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.EmiAmount.LessThanOrEqual(decimal.Zero) {
		failErr(c, ledger.ErrNonPositiveAmount)
		return
	}
	firstDue, err := parseDate(req.FirstDueDate)
	if err != nil {
		fail(c, http.StatusBadRequest, "first_due_date must be YYYY-MM-DD")
		return
	}

	var prop models.Property
	if err := h.db.Where("is_deleted = ?", false).First(&prop, id).Error; err != nil {
		fail(c, http.StatusNotFound, "property not found")
		return
	}

	emis := make([]models.Emi, req.Installments)
	for i := range emis {
		emis[i] = models.Emi{
			PropertyID: prop.ID,
			EmiNumber:  i + 1,
			EmiAmount:  req.EmiAmount,
			DueDate:    firstDue.AddDate(0, i, 0),
			Status:     models.EmiPending,
		}
	}
	if err := h.db.Create(&emis).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to create EMI schedule")
		return
	}

	c.JSON(http.StatusCreated, emis)
}

// GenerateForSale creates a monthly buyer-financing schedule.
func (h *EmiHandler) GenerateForSale(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id")
		return
	}

	var req GenerateEmisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.EmiAmount.LessThanOrEqual(decimal.Zero) {
		failErr(c, ledger.ErrNonPositiveAmount)
		return
	}
	firstDue, err := parseDate(req.FirstDueDate)
	if err != nil {
		fail(c, http.StatusBadRequest, "first_due_date must be YYYY-MM-DD")
		return
	}

	var sale models.SellProperty
	if err := h.db.Where("is_deleted = ?", false).First(&sale, id).Error; err != nil {
		fail(c, http.StatusNotFound, "sale not found")
		return
	}

	emis := make([]models.SellEmi, req.Installments)
	for i := range emis {
		emis[i] = models.SellEmi{
			SellPropertyID: sale.ID,
			EmiNumber:      i + 1,
			EmiAmount:      req.EmiAmount,
			DueDate:        firstDue.AddDate(0, i, 0),
			Status:         models.EmiPending,
		}
	}
	if err := h.db.Create(&emis).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to create EMI schedule")
		return
	}

	c.JSON(http.StatusCreated, emis)
}

func (h *EmiHandler) ListForProperty(c *gin.Context) {
	var emis []models.Emi
	if err := h.db.Where("property_id = ?", c.Param("id")).Order("emi_number").Find(&emis).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch EMIs")
		return
	}
	c.JSON(http.StatusOK, emis)
}

func (h *EmiHandler) ListForSale(c *gin.Context) {
	var emis []models.SellEmi
	if err := h.db.Where("sell_property_id = ?", c.Param("id")).Order("emi_number").Find(&emis).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch EMIs")
		return
	}
	c.JSON(http.StatusOK, emis)
}

// payForm reads the multipart pay form and stores the mandatory receipt.
// The caller must delete the stored file if the surrounding unit rolls back.
func (h *EmiHandler) payForm(c *gin.Context) (amount decimal.Decimal, mode, txnNo, receiptPath string, err error) {
	amount, err = decimal.NewFromString(c.PostForm("paid_amount"))
	if err != nil {
		return amount, "", "", "", fmt.Errorf("invalid paid_amount")
	}
	mode = c.PostForm("payment_mode")
	if mode == "" {
		mode = "CASH"
	}
	if !models.PaymentModes[mode] {
		return amount, "", "", "", fmt.Errorf("invalid payment mode")
	}
	txnNo = c.PostForm("transaction_no")

	fileHeader, err := c.FormFile("payment_receipt")
	if err != nil {
		return amount, "", "", "", fmt.Errorf("payment_receipt file is required")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return amount, "", "", "", fmt.Errorf("failed to read payment_receipt")
	}
	defer f.Close()

	receiptPath, err = h.store.Save("receipts", fileHeader.Filename, f)
	if err != nil {
		return amount, "", "", "", fmt.Errorf("failed to store receipt: %w", err)
	}
	return amount, mode, txnNo, receiptPath, nil
}

// Pay posts an additive (possibly partial) payment against a vendor EMI:
// one DEBIT journal entry, the EMI row, and the property ledger move together
// or not at all.
func (h *EmiHandler) Pay(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id")
		return
	}

	amount, mode, txnNo, receiptPath, err := h.payForm(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var emi models.Emi
	var txn models.Transaction
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&emi, id).Error; err != nil {
			return err
		}
		prop, err := ledger.LockProperty(tx, emi.PropertyID)
		if err != nil {
			return err
		}
		if err := ledger.Postable(prop.DueAmount, amount); err != nil {
			return err
		}

		txn = models.Transaction{
			Type:        models.TxnDebit,
			Amount:      amount,
			PaymentDate: time.Now(),
			PaymentMode: mode,
			ReferenceNo: fmt.Sprintf("EMI-%d-%d", emi.ID, time.Now().Unix()),
			Remarks:     txnNo,
			ReceiptPath: receiptPath,
			PropertyID:  emi.PropertyID,
			EmiID:       &emi.ID,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		emi.PaidAmount = emi.PaidAmount.Add(amount).Round(2)
		if emi.PaidAmount.GreaterThanOrEqual(emi.EmiAmount.Sub(ledger.Epsilon)) {
			emi.Status = models.EmiPaid
		}
		if err := tx.Save(&emi).Error; err != nil {
			return err
		}

		return ledger.ApplyPropertyDelta(tx, prop, amount)
	})
	if err != nil {
		// the unit rolled back; drop the orphaned receipt
		h.dropReceipt(receiptPath)
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "emi": emi, "transaction": txn})
}

func (h *EmiHandler) dropReceipt(path string) {
	if err := h.store.Delete(path); err != nil {
		logrus.WithError(err).WithField("path", path).Warn("failed to delete orphaned receipt")
	}
}

// Unpay fully reverses a vendor EMI: its journal entries are soft-deleted,
// the cumulative paid amount comes back off the property ledger, and the row
// returns to PENDING.
func (h *EmiHandler) Unpay(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id")
		return
	}

	var emi models.Emi
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&emi, id).Error; err != nil {
			return err
		}
		if emi.PaidAmount.LessThanOrEqual(decimal.Zero) {
			return ledger.ErrNothingToReverse
		}
		prop, err := ledger.LockProperty(tx, emi.PropertyID)
		if err != nil {
			return err
		}

		// only entries this EMI generated; manual postings keep their own
		// references and stay live
		if err := tx.Model(&models.Transaction{}).
			Where("emi_id = ? AND is_deleted = ?", emi.ID, false).
			Update("is_deleted", true).Error; err != nil {
			return err
		}

		if err := ledger.ApplyPropertyDelta(tx, prop, emi.PaidAmount.Neg()); err != nil {
			return err
		}

		emi.PaidAmount = decimal.Zero
		emi.Status = models.EmiPending
		return tx.Save(&emi).Error
	})
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "emi": emi})
}

// PaySell is Pay for a buyer EMI: a CREDIT entry against the sale ledger.
func (h *EmiHandler) PaySell(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id")
		return
	}

	amount, mode, txnNo, receiptPath, err := h.payForm(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var emi models.SellEmi
	var txn models.Transaction
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&emi, id).Error; err != nil {
			return err
		}
		sale, err := ledger.LockSale(tx, emi.SellPropertyID)
		if err != nil {
			return err
		}
		if err := ledger.Postable(sale.PendingAmount, amount); err != nil {
			return err
		}

		txn = models.Transaction{
			Type:           models.TxnCredit,
			Amount:         amount,
			PaymentDate:    time.Now(),
			PaymentMode:    mode,
			ReferenceNo:    fmt.Sprintf("SELLEMI-%d-%d", emi.ID, time.Now().Unix()),
			Remarks:        txnNo,
			ReceiptPath:    receiptPath,
			PropertyID:     sale.PropertyID,
			SellPropertyID: &sale.ID,
			SellEmiID:      &emi.ID,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		emi.PaidAmount = emi.PaidAmount.Add(amount).Round(2)
		if emi.PaidAmount.GreaterThanOrEqual(emi.EmiAmount.Sub(ledger.Epsilon)) {
			emi.Status = models.EmiPaid
		}
		if err := tx.Save(&emi).Error; err != nil {
			return err
		}

		return ledger.ApplySaleDelta(tx, sale, amount)
	})
	if err != nil {
		h.dropReceipt(receiptPath)
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "emi": emi, "transaction": txn})
}

// UnpaySell fully reverses a buyer EMI against the sale ledger.
func (h *EmiHandler) UnpaySell(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id")
		return
	}

	var emi models.SellEmi
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&emi, id).Error; err != nil {
			return err
		}
		if emi.PaidAmount.LessThanOrEqual(decimal.Zero) {
			return ledger.ErrNothingToReverse
		}
		sale, err := ledger.LockSale(tx, emi.SellPropertyID)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Transaction{}).
			Where("sell_emi_id = ? AND is_deleted = ?", emi.ID, false).
			Update("is_deleted", true).Error; err != nil {
			return err
		}

		if err := ledger.ApplySaleDelta(tx, sale, emi.PaidAmount.Neg()); err != nil {
			return err
		}

		emi.PaidAmount = decimal.Zero
		emi.Status = models.EmiPending
		return tx.Save(&emi).Error
	})
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "emi": emi})
}

// Overdue marks PENDING installments past their due date OVERDUE and
// returns them, vendor and buyer side.
func (h *EmiHandler) Overdue(c *gin.Context) {
	now := time.Now()

	if err := h.db.Model(&models.Emi{}).
		Where("status = ? AND due_date < ?", models.EmiPending, now).
		Update("status", models.EmiOverdue).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to mark overdue EMIs")
		return
	}
	if err := h.db.Model(&models.SellEmi{}).
		Where("status = ? AND due_date < ?", models.EmiPending, now).
		Update("status", models.EmiOverdue).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to mark overdue EMIs")
		return
	}

	var emis []models.Emi
	var sellEmis []models.SellEmi
	h.db.Where("status = ?", models.EmiOverdue).Order("due_date").Find(&emis)
	h.db.Where("status = ?", models.EmiOverdue).Order("due_date").Find(&sellEmis)

	c.JSON(http.StatusOK, gin.H{"emis": emis, "sell_emis": sellEmis})
}
