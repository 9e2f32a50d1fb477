package handlers

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/realty-books/config"
	"github.com/yourusername/realty-books/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// :memory: gives every connection its own database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return date
}

func makeProperty(t *testing.T, db *gorm.DB, total, paid string) models.Property {
	t.Helper()
	totalD, paidD := d(total), d(paid)
	prop := models.Property{
		TransactionType: models.TransactionTypePurchase,
		Name:            "Sunrise Apartments",
		Location:        "Pune",
		Quantity:        d("1"),
		Rate:            totalD,
		TotalAmount:     totalD,
		PaidAmount:      paidD,
		DueAmount:       totalD.Sub(paidD),
		Status:          models.PropertyAvailable,
	}
	if err := db.Create(&prop).Error; err != nil {
		t.Fatalf("failed to create property: %v", err)
	}
	return prop
}

func makeCustomer(t *testing.T, db *gorm.DB, customerType, phone string) models.Customer {
	t.Helper()
	customer := models.Customer{
		Name:         "Ravi Sharma",
		CustomerType: customerType,
		Phone:        phone,
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}
	return customer
}

func makeSale(t *testing.T, db *gorm.DB, propertyID, customerID uint, total, received string) models.SellProperty {
	t.Helper()
	totalD, receivedD := d(total), d(received)
	sale := models.SellProperty{
		PropertyID:      propertyID,
		CustomerID:      customerID,
		SaleRate:        totalD,
		Quantity:        d("1"),
		TotalSaleAmount: totalD,
		ReceivedAmount:  receivedD,
		PendingAmount:   totalD.Sub(receivedD),
	}
	if err := db.Create(&sale).Error; err != nil {
		t.Fatalf("failed to create sale: %v", err)
	}
	return sale
}

func reloadProperty(t *testing.T, db *gorm.DB, id uint) models.Property {
	t.Helper()
	var prop models.Property
	if err := db.First(&prop, id).Error; err != nil {
		t.Fatalf("failed to reload property: %v", err)
	}
	return prop
}

func reloadSale(t *testing.T, db *gorm.DB, id uint) models.SellProperty {
	t.Helper()
	var sale models.SellProperty
	if err := db.First(&sale, id).Error; err != nil {
		t.Fatalf("failed to reload sale: %v", err)
	}
	return sale
}

// MockStore records blob operations without touching the filesystem.
type MockStore struct {
	Saved    []string
	Deleted  []string
	FailSave bool
}

func (m *MockStore) Save(dir, fileName string, r io.Reader) (string, error) {
	if m.FailSave {
		return "", errors.New("store unavailable")
	}
	path := filepath.Join(dir, fileName)
	m.Saved = append(m.Saved, path)
	return path, nil
}

func (m *MockStore) Delete(path string) error {
	m.Deleted = append(m.Deleted, path)
	return nil
}
