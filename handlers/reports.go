package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/realty-books/models"
	"gorm.io/gorm"
)

type ReportHandler struct {
	db *gorm.DB
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{db: db}
}

// Summary aggregates the two ledgers over non-deleted rows only.
func (h *ReportHandler) Summary(c *gin.Context) {
	var props []models.Property
	if err := h.db.Where("is_deleted = ?", false).Find(&props).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch properties")
		return
	}
	var sales []models.SellProperty
	if err := h.db.Where("is_deleted = ?", false).Find(&sales).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch sales")
		return
	}

	inventoryTotal, inventoryPaid, inventoryDue := decimal.Zero, decimal.Zero, decimal.Zero
	statusCounts := map[string]int{}
	for _, p := range props {
		inventoryTotal = inventoryTotal.Add(p.TotalAmount)
		inventoryPaid = inventoryPaid.Add(p.PaidAmount)
		inventoryDue = inventoryDue.Add(p.DueAmount)
		statusCounts[p.Status]++
	}

	saleTotal, saleReceived, salePending := decimal.Zero, decimal.Zero, decimal.Zero
	for _, s := range sales {
		saleTotal = saleTotal.Add(s.TotalSaleAmount)
		saleReceived = saleReceived.Add(s.ReceivedAmount)
		salePending = salePending.Add(s.PendingAmount)
	}

	c.JSON(http.StatusOK, gin.H{
		"inventory": gin.H{
			"count":        len(props),
			"total_amount": inventoryTotal,
			"paid_amount":  inventoryPaid,
			"due_amount":   inventoryDue,
			"by_status":    statusCounts,
		},
		"sales": gin.H{
			"count":           len(sales),
			"total_amount":    saleTotal,
			"received_amount": saleReceived,
			"pending_amount":  salePending,
		},
	})
}

// ExportLedger streams an .xlsx workbook with one sheet per ledger.
func (h *ReportHandler) ExportLedger(c *gin.Context) {
	var props []models.Property
	if err := h.db.Where("is_deleted = ?", false).Preload("Vendor").Order("id").Find(&props).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch properties")
		return
	}
	var sales []models.SellProperty
	err := h.db.Where("is_deleted = ?", false).
		Preload("Property").Preload("Customer").Order("id").Find(&sales).Error
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch sales")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Properties")
	headers := []string{"ID", "Name", "Location", "Vendor", "Status", "Total", "Paid", "Due"}
	for i, hdr := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue("Properties", cell, hdr)
	}
	for row, p := range props {
		vendor := ""
		if p.Vendor != nil {
			vendor = p.Vendor.Name
		}
		values := []interface{}{
			p.ID, p.Name, p.Location, vendor, p.Status,
			p.TotalAmount.StringFixed(2), p.PaidAmount.StringFixed(2), p.DueAmount.StringFixed(2),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue("Properties", cell, v)
		}
	}

	f.NewSheet("Sales")
	headers = []string{"ID", "Property", "Buyer", "Total", "Received", "Pending"}
	for i, hdr := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue("Sales", cell, hdr)
	}
	for row, s := range sales {
		propName, buyer := "", ""
		if s.Property != nil {
			propName = s.Property.Name
		}
		if s.Customer != nil {
			buyer = s.Customer.Name
		}
		values := []interface{}{
			s.ID, propName, buyer,
			s.TotalSaleAmount.StringFixed(2), s.ReceivedAmount.StringFixed(2), s.PendingAmount.StringFixed(2),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue("Sales", cell, v)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"ledger_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		fail(c, http.StatusInternalServerError, "failed to write workbook")
	}
}
