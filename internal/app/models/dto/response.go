package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// APIResponse is the standard success envelope for all endpoints
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2026-08-30T12:01:05.123Z"`
}

// NewSuccessResponse creates a standard success response wrapping data
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// PaginationInfo carries 1-based pagination metadata
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage" example:"1"`
	TotalPages  int   `json:"totalPages" example:"5"`
	PageSize    int   `json:"pageSize" example:"10"`
	TotalItems  int64 `json:"totalItems" example:"42"`
}

// PaginatedResponse wraps a list payload with pagination metadata
type PaginatedResponse struct {
	Items      interface{}    `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// HandleValidationError converts a binding/validation error into an ErrorDetail,
// listing per-field failures when the error is a validator.ValidationErrors.
func HandleValidationError(err error) *ErrorDetail {
	detail := NewErrorDetail(ErrorCodeValidationFailed, "Request validation failed")

	var fieldErrors validator.ValidationErrors
	if ok := asValidationErrors(err, &fieldErrors); ok {
		issues := NewValidationErrors()
		for _, fe := range fieldErrors {
			issues.AddError(fe.Field(), validationMessage(fe))
		}
		detail = detail.WithDetails(issues.Errors)
	} else if err != nil {
		detail.Message = err.Error()
	}

	return detail
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	if err == nil {
		return false
	}
	if ve, ok := err.(validator.ValidationErrors); ok {
		*target = ve
		return true
	}
	return false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Value is below the minimum of " + fe.Param()
	case "max":
		return "Value exceeds the maximum of " + fe.Param()
	case "oneof":
		return "Must be one of: " + fe.Param()
	default:
		return "Failed validation on rule: " + fe.Tag()
	}
}
