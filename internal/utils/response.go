// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhi7515/shopdev/internal/apperrors"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	if message == "" {
		message = "Invalid request"
	}
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func UnauthorizedResponse(c *gin.Context) {
	// Never says which check failed.
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or disabled API key", nil)
}

func NotFoundResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

func InternalErrorResponse(c *gin.Context) {
	// No internal detail leakage.
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", errors)
}

// RespondError maps the error taxonomy onto HTTP statuses. Anything
// unclassified is a sanitized 500.
func RespondError(c *gin.Context, err error) {
	kind, ok := apperrors.KindOf(err)
	if !ok {
		InternalErrorResponse(c)
		return
	}

	switch kind {
	case apperrors.KindValidation:
		BadRequestResponse(c, err.Error(), nil)
	case apperrors.KindNotFound:
		NotFoundResponse(c, err.Error())
	case apperrors.KindAuth:
		UnauthorizedResponse(c)
	case apperrors.KindUpstream:
		ErrorResponse(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Upstream service failed", nil)
	default:
		InternalErrorResponse(c)
	}
}
