package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Property status values
const (
	PropertyAvailable = "AVAILABLE"
	PropertyBooked    = "BOOKED"
	PropertySold      = "SOLD"
)

// Property transaction types. SELL is a legacy direct-sale marker kept for
// imported data; new sales go through SellProperty.
const (
	TransactionTypePurchase = "PURCHASE"
	TransactionTypeSell     = "SELL"
)

type Property struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	TransactionType string          `gorm:"size:20;default:'PURCHASE'" json:"transaction_type"` // PURCHASE, SELL (legacy)
	Name            string          `gorm:"size:255;not null" json:"name"`
	Location        string          `gorm:"size:255" json:"location"`
	VendorID        *uint           `gorm:"index" json:"vendor_id"`
	Vendor          *Customer       `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Quantity        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"quantity"`
	Rate            decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"rate"`
	GstPercent      decimal.Decimal `gorm:"type:decimal(14,2)" json:"gst_percent"`
	OtherExpenses   decimal.Decimal `gorm:"type:decimal(14,2)" json:"other_expenses"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"` // immutable once computed
	PaidAmount      decimal.Decimal `gorm:"type:decimal(14,2)" json:"paid_amount"`
	DueAmount       decimal.Decimal `gorm:"type:decimal(14,2)" json:"due_amount"`
	Remarks         string          `gorm:"type:text" json:"remarks"`
	Status          string          `gorm:"size:20;default:'AVAILABLE'" json:"status"` // AVAILABLE, BOOKED, SOLD
	IsDeleted       bool            `gorm:"default:false;index" json:"is_deleted"`

	Transactions []Transaction `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
	Emis         []Emi         `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"emis,omitempty"`
}

// TableName overrides the table name
func (Property) TableName() string {
	return "properties"
}
