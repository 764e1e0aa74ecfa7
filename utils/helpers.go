package utils

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fintrack-backend/ledger"
)

// Standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, message)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message)
}

func Conflict(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusConflict, message)
}

func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, message)
}

// LedgerError maps the ledger error taxonomy onto HTTP statuses:
// validation 400, not-found 404, conflict 409, overpayment 422.
func LedgerError(c *gin.Context, err error) {
	var (
		validation  *ledger.ValidationError
		notFound    *ledger.NotFoundError
		conflict    *ledger.ConflictError
		overpayment *ledger.OverpaymentError
	)
	switch {
	case errors.As(err, &validation):
		BadRequest(c, validation.Error())
	case errors.As(err, &notFound):
		NotFound(c, notFound.Error())
	case errors.As(err, &conflict):
		Conflict(c, conflict.Error())
	case errors.As(err, &overpayment):
		ErrorResponse(c, http.StatusUnprocessableEntity, overpayment.Error())
	default:
		InternalError(c, err.Error())
	}
}

// Parse UUID from string
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// ParseDate parses a YYYY-MM-DD request field.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// AsOfDate reads the optional as_of query parameter, defaulting to today.
func AsOfDate(c *gin.Context) (time.Time, error) {
	raw := c.Query("as_of")
	if raw == "" {
		return time.Now(), nil
	}
	return ParseDate(raw)
}

// Get current user ID from context (set by auth middleware)
func GetCurrentUserID(c *gin.Context) uuid.UUID {
	userID, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil
	}
	return userID.(uuid.UUID)
}
