package models

import "time"

// SuperAdminRoleID is the hardcoded protected role: excluded from all
// listings and never editable, deletable, or assignable.
const SuperAdminRoleID uint = 1

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"size:64;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	IsDeleted   bool      `gorm:"default:false;index" json:"is_deleted"`
}

// TableName overrides the table name
func (Role) TableName() string {
	return "roles"
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:uniq_user_email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	RoleID       uint      `gorm:"index;not null" json:"role_id"`
	Role         *Role     `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	IsDeleted    bool      `gorm:"default:false;index;uniqueIndex:uniq_user_email" json:"is_deleted"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}
