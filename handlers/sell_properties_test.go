package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yourusername/realty-books/models"
	"gorm.io/gorm"
)

func newSellRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSellPropertyHandler(db)
	router := gin.New()
	router.POST("/sell-properties", h.Create)
	router.GET("/sell-properties", h.List)
	router.GET("/sell-properties/trash", h.Trash)
	router.GET("/sell-properties/:id", h.Get)
	router.DELETE("/sell-properties/:id", h.Delete)
	router.POST("/sell-properties/:id/restore", h.Restore)
	return router
}

func TestCreateSellProperty(t *testing.T) {
	db := setupTestDB(t)
	router := newSellRouter(db)
	prop := makeProperty(t, db, "2000000", "0")
	buyer := makeCustomer(t, db, models.CustomerBuyer, "9000000010")

	// 1 * 2500000 + 5% GST = 2625000, fully paid up front
	w := postJSON(t, router, "POST", "/sell-properties", gin.H{
		"property_id":     prop.ID,
		"customer_id":     buyer.ID,
		"sale_rate":       2500000,
		"quantity":        1,
		"gst_percent":     5,
		"initial_payment": 2625000,
		"payment_mode":    "ONLINE",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var sale models.SellProperty
	assert.NoError(t, db.Where("property_id = ?", prop.ID).First(&sale).Error)
	assert.True(t, sale.TotalSaleAmount.Equal(d("2625000")), "total: %s", sale.TotalSaleAmount)
	assert.True(t, sale.ReceivedAmount.Equal(d("2625000")))
	assert.True(t, sale.PendingAmount.IsZero())
	assert.True(t, sale.ReceivedAmount.Add(sale.PendingAmount).Equal(sale.TotalSaleAmount))

	gotProp := reloadProperty(t, db, prop.ID)
	assert.Equal(t, models.PropertySold, gotProp.Status, "sale must flip the property to SOLD")

	// the opening payment is a CREDIT journal entry against the sale
	var txn models.Transaction
	assert.NoError(t, db.Where("sell_property_id = ?", sale.ID).First(&txn).Error)
	assert.Equal(t, models.TxnCredit, txn.Type)
	assert.True(t, txn.Amount.Equal(d("2625000")))

	t.Run("sold property cannot be sold again", func(t *testing.T) {
		w := postJSON(t, router, "POST", "/sell-properties", gin.H{
			"property_id": prop.ID,
			"customer_id": buyer.ID,
			"sale_rate":   100,
			"quantity":    1,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "not available")
	})
}

func TestCreateSellPropertyRejectsSeller(t *testing.T) {
	db := setupTestDB(t)
	router := newSellRouter(db)
	prop := makeProperty(t, db, "2000000", "0")
	seller := makeCustomer(t, db, models.CustomerSeller, "9000000011")

	w := postJSON(t, router, "POST", "/sell-properties", gin.H{
		"property_id": prop.ID,
		"customer_id": seller.ID,
		"sale_rate":   100,
		"quantity":    1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "BUYER")

	gotProp := reloadProperty(t, db, prop.ID)
	assert.Equal(t, models.PropertyAvailable, gotProp.Status, "rejected sale must not change the property")
}

func TestSellPropertyTrashLifecycle(t *testing.T) {
	db := setupTestDB(t)
	router := newSellRouter(db)
	prop := makeProperty(t, db, "2000000", "0")
	buyer := makeCustomer(t, db, models.CustomerBoth, "9000000012")

	w := postJSON(t, router, "POST", "/sell-properties", gin.H{
		"property_id": prop.ID,
		"customer_id": buyer.ID,
		"sale_rate":   1000000,
		"quantity":    1,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var sale models.SellProperty
	assert.NoError(t, db.Where("property_id = ?", prop.ID).First(&sale).Error)

	t.Run("soft delete puts the property back on the market", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", fmt.Sprintf("/sell-properties/%d", sale.ID), nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		gotProp := reloadProperty(t, db, prop.ID)
		assert.Equal(t, models.PropertyAvailable, gotProp.Status)

		gotSale := reloadSale(t, db, sale.ID)
		assert.True(t, gotSale.IsDeleted)
	})

	t.Run("restore re-marks the property SOLD", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", fmt.Sprintf("/sell-properties/%d/restore", sale.ID), nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		gotProp := reloadProperty(t, db, prop.ID)
		assert.Equal(t, models.PropertySold, gotProp.Status)

		gotSale := reloadSale(t, db, sale.ID)
		assert.False(t, gotSale.IsDeleted)
	})

	t.Run("restore fails when another deal holds the property", func(t *testing.T) {
		// trash the first deal, then sell the property to someone else
		req, _ := http.NewRequest("DELETE", fmt.Sprintf("/sell-properties/%d", sale.ID), nil)
		router.ServeHTTP(httptest.NewRecorder(), req)

		other := makeCustomer(t, db, models.CustomerBuyer, "9000000013")
		w := postJSON(t, router, "POST", "/sell-properties", gin.H{
			"property_id": prop.ID,
			"customer_id": other.ID,
			"sale_rate":   900000,
			"quantity":    1,
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		w2 := httptest.NewRecorder()
		req, _ = http.NewRequest("POST", fmt.Sprintf("/sell-properties/%d/restore", sale.ID), nil)
		router.ServeHTTP(w2, req)
		assert.Equal(t, http.StatusBadRequest, w2.Code)
	})
}
