package models

import "time"

// Customer party types
const (
	CustomerSeller = "SELLER"
	CustomerBuyer  = "BUYER"
	CustomerBoth   = "BOTH"
)

// Customer is a party we buy from or sell to. Identifier uniqueness is scoped
// by is_deleted so a new active customer can reuse a phone/PAN/Aadhar freed by
// a soft-deleted one.
type Customer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	CustomerType string    `gorm:"size:10;not null" json:"customer_type"` // SELLER, BUYER, BOTH
	Phone        string    `gorm:"size:15;not null;uniqueIndex:uniq_customer_phone" json:"phone"`
	Pan          *string   `gorm:"size:10;uniqueIndex:uniq_customer_pan" json:"pan"`
	Aadhar       *string   `gorm:"size:12;uniqueIndex:uniq_customer_aadhar" json:"aadhar"`
	Email        string    `gorm:"size:255" json:"email"`
	Address      string    `gorm:"type:text" json:"address"`
	IsDeleted    bool      `gorm:"default:false;index;uniqueIndex:uniq_customer_phone;uniqueIndex:uniq_customer_pan;uniqueIndex:uniq_customer_aadhar" json:"is_deleted"`
}

// TableName overrides the table name
func (Customer) TableName() string {
	return "customers"
}
