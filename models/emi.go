package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EMI statuses
const (
	EmiPending = "PENDING"
	EmiPaid    = "PAID"
	EmiOverdue = "OVERDUE"
)

// Emi is one vendor-financing installment belonging to a Property.
type Emi struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	PropertyID uint            `gorm:"index;not null" json:"property_id"`
	EmiNumber  int             `gorm:"not null" json:"emi_number"`
	EmiAmount  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"emi_amount"`
	DueDate    time.Time       `gorm:"index;not null" json:"due_date"`
	PaidAmount decimal.Decimal `gorm:"type:decimal(14,2)" json:"paid_amount"`
	Status     string          `gorm:"size:20;default:'PENDING';index" json:"status"` // PENDING, PAID, OVERDUE
}

// TableName overrides the table name
func (Emi) TableName() string {
	return "emis"
}

// SellEmi is one buyer-financing installment belonging to a SellProperty.
type SellEmi struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	SellPropertyID uint            `gorm:"index;not null" json:"sell_property_id"`
	EmiNumber      int             `gorm:"not null" json:"emi_number"`
	EmiAmount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"emi_amount"`
	DueDate        time.Time       `gorm:"index;not null" json:"due_date"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(14,2)" json:"paid_amount"`
	Status         string          `gorm:"size:20;default:'PENDING';index" json:"status"` // PENDING, PAID, OVERDUE
}

// TableName overrides the table name
func (SellEmi) TableName() string {
	return "sell_emis"
}
