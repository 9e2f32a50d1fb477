package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TxnCredit = "CREDIT"
	TxnDebit  = "DEBIT"
)

// Accepted payment modes
var PaymentModes = map[string]bool{
	"CASH":   true,
	"ONLINE": true,
	"CHEQUE": true,
	"UPI":    true,
	"DD":     true,
}

// Transaction is one cash-flow event in the journal. Entries are never
// physically removed; deletion flips is_deleted and reverses the ledger delta.
type Transaction struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Type           string          `gorm:"size:10;not null;index" json:"type"` // CREDIT, DEBIT
	Amount         decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	PaymentDate    time.Time       `gorm:"not null" json:"payment_date"`
	PaymentMode    string          `gorm:"size:20;not null" json:"payment_mode"` // CASH, ONLINE, CHEQUE, UPI, DD
	ReferenceNo    string          `gorm:"size:100" json:"reference_no"`
	Remarks        string          `gorm:"type:text" json:"remarks"`
	ReceiptPath    string          `gorm:"size:500" json:"receipt_path"`
	PropertyID     uint            `gorm:"index;not null" json:"property_id"`
	SellPropertyID *uint           `gorm:"index" json:"sell_property_id"`
	EmiID          *uint           `gorm:"index" json:"emi_id"`
	SellEmiID      *uint           `gorm:"index" json:"sell_emi_id"`
	IsDeleted      bool            `gorm:"default:false;index" json:"is_deleted"`
}

// TableName overrides the table name
func (Transaction) TableName() string {
	return "transactions"
}
