package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/nlim89/countrycat/pkg/errors"
)

// Status values used by the legacy API envelope.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the base API payload. The {status, data, pagination, message}
// shape is kept for compatibility with existing consumers of the countries API.
type Envelope struct {
	Status     string      `json:"status"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Message    string      `json:"message,omitempty"`
	Code       string      `json:"code,omitempty"`
}

// Pagination describes the window of a paginated listing.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// Success writes a JSON success response with a data payload.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Envelope{
		Status: StatusSuccess,
		Data:   data,
	})
}

// SuccessWithPagination writes a paginated success response.
func SuccessWithPagination(c *gin.Context, statusCode int, data interface{}, pagination *Pagination) {
	c.JSON(statusCode, Envelope{
		Status:     StatusSuccess,
		Data:       data,
		Pagination: pagination,
	})
}

// Message writes a success response that carries only a human-readable message.
func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Envelope{
		Status:  StatusSuccess,
		Message: message,
	})
}

// Error writes a JSON error response derived from an AppError.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	c.JSON(status, Envelope{
		Status:  StatusError,
		Message: appErr.Message,
		Code:    appErr.Code,
	})
}
