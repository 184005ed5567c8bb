// internal/common/errors/handler.go
package errors

import (
	"net/http"
	"time"
)

// HTTPStatus maps an internal error code to the HTTP status it surfaces as.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeSectionIncomplete,
		ErrCodeDocumentRequired, ErrCodeLoanTypeUnknown:
		return http.StatusBadRequest
	case ErrCodeAuthenticationFailed, ErrCodeOTPInvalid, ErrCodeOTPExpired:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeRecordNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicateLoanID:
		return http.StatusConflict
	case ErrCodeInvariantViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Normalize ensures any error is represented as a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// GetErrorCategory classifies codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed, ErrCodeSectionIncomplete,
		ErrCodeDocumentRequired, ErrCodeInvariantViolation:
		return "validation"
	case ErrCodeLoanTypeUnknown, ErrCodeSequenceExhausted:
		return "identifier"
	case ErrCodeAuthenticationFailed, ErrCodeOTPInvalid, ErrCodeOTPExpired, ErrCodeForbidden:
		return "auth"
	case ErrCodeDatabaseConnectionFailed, ErrCodeDatabaseInsertFailed,
		ErrCodeDuplicateLoanID, ErrCodeRecordNotFound, ErrCodeQueryExecutionFailed:
		return "persistence"
	case ErrCodeNotificationSendFailed, ErrCodeSearchQueryFailed:
		return "integration"
	default:
		return "internal"
	}
}
