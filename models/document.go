package models

import "time"

// PropertyDocument is a file attachment scoped to a property, a specific sale
// deal, or a customer KYC record. Soft-delete keeps the underlying file for
// audit; only a hard delete of the parent removes rows.
type PropertyDocument struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	PropertyID     *uint     `gorm:"index" json:"property_id"`
	SellPropertyID *uint     `gorm:"index" json:"sell_property_id"`
	CustomerID     *uint     `gorm:"index" json:"customer_id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	FileName       string    `gorm:"size:255" json:"file_name"`
	FilePath       string    `gorm:"size:500;not null" json:"file_path"`
	IsDeleted      bool      `gorm:"default:false;index" json:"is_deleted"`
}

// TableName overrides the table name
func (PropertyDocument) TableName() string {
	return "property_documents"
}
