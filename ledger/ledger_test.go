package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
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
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Property{}, &models.SellProperty{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newProperty(t *testing.T, db *gorm.DB, total, paid string) *models.Property {
	t.Helper()
	totalD, paidD := d(total), d(paid)
	prop := models.Property{
		Name:        "Green Villa",
		Quantity:    d("1"),
		Rate:        totalD,
		TotalAmount: totalD,
		PaidAmount:  paidD,
		DueAmount:   totalD.Sub(paidD),
		Status:      models.PropertyAvailable,
	}
	if err := db.Create(&prop).Error; err != nil {
		t.Fatalf("failed to create property: %v", err)
	}
	return &prop
}

func TestPostable(t *testing.T) {
	tests := []struct {
		name    string
		due     string
		amount  string
		wantErr error
	}{
		{"exact due", "1000", "1000", nil},
		{"partial", "1000", "400", nil},
		{"within epsilon", "1000", "1000.01", nil},
		{"beyond epsilon", "1000", "1000.02", ErrExceedsDue},
		{"exceeds due", "1000", "1500", ErrExceedsDue},
		{"already settled", "0", "1", ErrAlreadySettled},
		{"negative due", "-5", "1", ErrAlreadySettled},
		{"zero amount", "1000", "0", ErrNonPositiveAmount},
		{"negative amount", "1000", "-10", ErrNonPositiveAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Postable(d(tt.due), d(tt.amount))
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPurchaseTotal(t *testing.T) {
	// 1 * 1000000 + 5% GST + 50000 other
	total := PurchaseTotal(d("1"), d("1000000"), d("5"), d("50000"))
	assert.True(t, total.Equal(d("1100000")), "got %s", total)
}

func TestSaleTotal(t *testing.T) {
	// 1 * 2500000 + 5% GST
	total := SaleTotal(d("1"), d("2500000"), d("5"), d("0"), d("0"))
	assert.True(t, total.Equal(d("2625000")), "got %s", total)

	withDiscount := SaleTotal(d("2"), d("1000"), d("0"), d("100"), d("300"))
	assert.True(t, withDiscount.Equal(d("1800")), "got %s", withDiscount)
}

func TestApplyPropertyDelta(t *testing.T) {
	db := setupTestDB(t)

	t.Run("normal posting", func(t *testing.T) {
		prop := newProperty(t, db, "1000", "0")
		err := db.Transaction(func(tx *gorm.DB) error {
			locked, err := LockProperty(tx, prop.ID)
			if err != nil {
				return err
			}
			return ApplyPropertyDelta(tx, locked, d("400"))
		})
		assert.NoError(t, err)

		var got models.Property
		db.First(&got, prop.ID)
		assert.True(t, got.PaidAmount.Equal(d("400")))
		assert.True(t, got.DueAmount.Equal(d("600")))
		assert.True(t, got.PaidAmount.Add(got.DueAmount).Equal(got.TotalAmount))
	})

	t.Run("due clamps at zero on overpayment", func(t *testing.T) {
		prop := newProperty(t, db, "100", "90")
		err := db.Transaction(func(tx *gorm.DB) error {
			locked, err := LockProperty(tx, prop.ID)
			if err != nil {
				return err
			}
			return ApplyPropertyDelta(tx, locked, d("15"))
		})
		assert.NoError(t, err)

		var got models.Property
		db.First(&got, prop.ID)
		assert.True(t, got.PaidAmount.Equal(d("105")))
		assert.True(t, got.DueAmount.IsZero())
	})

	t.Run("paid clamps at zero on reversal", func(t *testing.T) {
		prop := newProperty(t, db, "1000", "100")
		err := db.Transaction(func(tx *gorm.DB) error {
			locked, err := LockProperty(tx, prop.ID)
			if err != nil {
				return err
			}
			return ApplyPropertyDelta(tx, locked, d("-250"))
		})
		assert.NoError(t, err)

		var got models.Property
		db.First(&got, prop.ID)
		assert.True(t, got.PaidAmount.IsZero())
		assert.True(t, got.DueAmount.Equal(d("1000")))
	})

	t.Run("deleted property is not lockable", func(t *testing.T) {
		prop := newProperty(t, db, "1000", "0")
		db.Model(&models.Property{}).Where("id = ?", prop.ID).Update("is_deleted", true)

		err := db.Transaction(func(tx *gorm.DB) error {
			_, err := LockProperty(tx, prop.ID)
			return err
		})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestApplySaleDelta(t *testing.T) {
	db := setupTestDB(t)

	sale := models.SellProperty{
		PropertyID:      1,
		CustomerID:      1,
		SaleRate:        d("2000"),
		Quantity:        d("1"),
		TotalSaleAmount: d("2000"),
		PendingAmount:   d("2000"),
	}
	assert.NoError(t, db.Create(&sale).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := LockSale(tx, sale.ID)
		if err != nil {
			return err
		}
		return ApplySaleDelta(tx, locked, d("500"))
	})
	assert.NoError(t, err)

	var got models.SellProperty
	db.First(&got, sale.ID)
	assert.True(t, got.ReceivedAmount.Equal(d("500")))
	assert.True(t, got.PendingAmount.Equal(d("1500")))
	assert.True(t, got.ReceivedAmount.Add(got.PendingAmount).Equal(got.TotalSaleAmount))
}

// A failure anywhere inside the unit must leave the ledger exactly as it was.
func TestRollbackLeavesLedgerUnchanged(t *testing.T) {
	db := setupTestDB(t)
	prop := newProperty(t, db, "1000", "250")

	boom := errors.New("journal write failed")
	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := LockProperty(tx, prop.ID)
		if err != nil {
			return err
		}
		if err := ApplyPropertyDelta(tx, locked, d("500")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var got models.Property
	db.First(&got, prop.ID)
	assert.True(t, got.PaidAmount.Equal(d("250")), "paid changed after rollback: %s", got.PaidAmount)
	assert.True(t, got.DueAmount.Equal(d("750")), "due changed after rollback: %s", got.DueAmount)
}
