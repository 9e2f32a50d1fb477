package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/realty-books/models"
	"gorm.io/gorm"
)

func newCustomerRouter(db *gorm.DB, store *MockStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCustomerHandler(db, store)
	router := gin.New()
	router.POST("/customers", h.Create)
	router.GET("/customers", h.List)
	router.GET("/customers/trash", h.Trash)
	router.GET("/customers/:id", h.Get)
	router.PUT("/customers/:id", h.Update)
	router.DELETE("/customers/:id", h.Delete)
	router.POST("/customers/:id/restore", h.Restore)
	router.POST("/customers/:id/documents", h.UploadDocument)
	return router
}

func TestCreateCustomerUniquePhone(t *testing.T) {
	db := setupTestDB(t)
	router := newCustomerRouter(db, &MockStore{})

	w := postJSON(t, router, "POST", "/customers", gin.H{
		"name":          "Ravi Sharma",
		"customer_type": "BUYER",
		"phone":         "9876543210",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("active duplicate rejected", func(t *testing.T) {
		w := postJSON(t, router, "POST", "/customers", gin.H{
			"name":          "Someone Else",
			"customer_type": "SELLER",
			"phone":         "9876543210",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already in use")
	})

	t.Run("phone is free again after soft delete", func(t *testing.T) {
		var first models.Customer
		require.NoError(t, db.Where("phone = ?", "9876543210").First(&first).Error)

		req, _ := http.NewRequest("DELETE", fmt.Sprintf("/customers/%d", first.ID), nil)
		router.ServeHTTP(httptest.NewRecorder(), req)

		w := postJSON(t, router, "POST", "/customers", gin.H{
			"name":          "Customer B",
			"customer_type": "BUYER",
			"phone":         "9876543210",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("restore blocked while an active customer holds the phone", func(t *testing.T) {
		var first models.Customer
		require.NoError(t, db.Where("phone = ? AND is_deleted = ?", "9876543210", true).First(&first).Error)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", fmt.Sprintf("/customers/%d/restore", first.ID), nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCustomerValidation(t *testing.T) {
	db := setupTestDB(t)
	router := newCustomerRouter(db, &MockStore{})

	w := postJSON(t, router, "POST", "/customers", gin.H{
		"name":          "Bad Type",
		"customer_type": "TENANT",
		"phone":         "9000000001",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "SELLER, BUYER or BOTH")

	w = postJSON(t, router, "POST", "/customers", gin.H{
		"customer_type": "BUYER",
		"phone":         "9000000002",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "name is mandatory")
}

func TestCustomerTrashLifecycle(t *testing.T) {
	db := setupTestDB(t)
	router := newCustomerRouter(db, &MockStore{})
	cust := makeCustomer(t, db, models.CustomerBoth, "9000000003")

	req, _ := http.NewRequest("DELETE", fmt.Sprintf("/customers/%d", cust.ID), nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	req, _ = http.NewRequest("GET", fmt.Sprintf("/customers/%d", cust.ID), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "trashed customers are hidden")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", fmt.Sprintf("/customers/%d/restore", cust.ID), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", fmt.Sprintf("/customers/%d", cust.ID), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadCustomerDocument(t *testing.T) {
	db := setupTestDB(t)
	store := &MockStore{}
	router := newCustomerRouter(db, store)
	cust := makeCustomer(t, db, models.CustomerBuyer, "9000000004")

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("title", "PAN card"))
	fw, err := mw.CreateFormFile("file", "pan.pdf")
	require.NoError(t, err)
	fw.Write([]byte("%PDF-1.4 pan"))
	mw.Close()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", fmt.Sprintf("/customers/%d/documents", cust.ID), body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Len(t, store.Saved, 1)

	var doc models.PropertyDocument
	require.NoError(t, db.Where("customer_id = ?", cust.ID).First(&doc).Error)
	assert.Equal(t, "PAN card", doc.Title)
	assert.Equal(t, "pan.pdf", doc.FileName)

	t.Run("file is mandatory", func(t *testing.T) {
		body := &bytes.Buffer{}
		mw := multipart.NewWriter(body)
		mw.WriteField("title", "no file")
		mw.Close()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", fmt.Sprintf("/customers/%d/documents", cust.ID), body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
