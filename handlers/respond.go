package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/realty-books/ledger"
	"gorm.io/gorm"
)

var (
	errPropertyNotAvailable = errors.New("property is not available for sale")
	errCustomerNotBuyer     = errors.New("customer must be a BUYER or BOTH customer")
)

// fail writes the uniform failure envelope. Every mutating endpoint responds
// with it, and the ledger is exactly as it was before the failed call.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": false, "message": message})
}

// failErr translates an error escaping a ledger-mutating unit into a status
// code: business rejections are 400, missing rows 404, anything else 500
// (the unit has already rolled back).
func failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrNonPositiveAmount),
		errors.Is(err, ledger.ErrAlreadySettled),
		errors.Is(err, ledger.ErrExceedsDue),
		errors.Is(err, ledger.ErrNothingToReverse):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		fail(c, http.StatusNotFound, "record not found")
	default:
		fail(c, http.StatusInternalServerError, err.Error())
	}
}

// parseDate accepts YYYY-MM-DD dates from request payloads.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func idParam(c *gin.Context) (uint, error) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id64), nil
}
