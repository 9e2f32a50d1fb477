package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SellProperty is one sale deal linking a Property to a buying Customer.
// Creating it marks the parent property SOLD; soft-deleting it reverts the
// property to AVAILABLE.
type SellProperty struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	PropertyID      uint            `gorm:"index;not null" json:"property_id"`
	Property        *Property       `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	CustomerID      uint            `gorm:"index;not null" json:"customer_id"`
	Customer        *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	SaleRate        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"sale_rate"`
	Quantity        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"quantity"`
	GstPercent      decimal.Decimal `gorm:"type:decimal(14,2)" json:"gst_percent"`
	OtherCharges    decimal.Decimal `gorm:"type:decimal(14,2)" json:"other_charges"`
	Discount        decimal.Decimal `gorm:"type:decimal(14,2)" json:"discount"`
	TotalSaleAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_sale_amount"`
	ReceivedAmount  decimal.Decimal `gorm:"type:decimal(14,2)" json:"received_amount"`
	PendingAmount   decimal.Decimal `gorm:"type:decimal(14,2)" json:"pending_amount"`
	Remarks         string          `gorm:"type:text" json:"remarks"`
	IsDeleted       bool            `gorm:"default:false;index" json:"is_deleted"`

	Emis []SellEmi `gorm:"foreignKey:SellPropertyID;constraint:OnDelete:CASCADE" json:"emis,omitempty"`
}

// TableName overrides the table name
func (SellProperty) TableName() string {
	return "sell_properties"
}
