// Package errors provides standardized error handling for the Finance Flow service.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Wizard / validation errors
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeSectionIncomplete  ErrorCode = "SECTION_INCOMPLETE"
	ErrCodeDocumentRequired   ErrorCode = "DOCUMENT_REQUIRED"
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"

	// Loan identifier errors
	ErrCodeLoanTypeUnknown   ErrorCode = "LOAN_TYPE_UNKNOWN"
	ErrCodeSequenceExhausted ErrorCode = "SEQUENCE_EXHAUSTED"

	// Persistence errors
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateLoanID          ErrorCode = "DUPLICATE_LOAN_ID"
	ErrCodeRecordNotFound           ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"

	// Auth errors
	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeOTPInvalid           ErrorCode = "OTP_INVALID"
	ErrCodeOTPExpired           ErrorCode = "OTP_EXPIRED"
	ErrCodeForbidden            ErrorCode = "FORBIDDEN"

	// Integration errors
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeSearchQueryFailed      ErrorCode = "SEARCH_QUERY_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationFailedError creates a non-retryable field validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Application data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSectionIncompleteError creates a non-retryable error for submitting with
// unvalidated wizard sections.
func NewSectionIncompleteError(section string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSectionIncomplete,
		Message:   "Wizard section has not passed validation",
		Details:   fmt.Sprintf("section: %s", section),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentRequiredError creates a non-retryable missing-document error.
func NewDocumentRequiredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentRequired,
		Message:   "Identity document is required for submission",
		Details:   "no resolvable document attached to the draft",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvariantViolationError creates a non-retryable internal invariant error.
func NewInvariantViolationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvariantViolation,
		Message:   "Computed loan figures violate submission invariant",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLoanTypeUnknownError creates a non-retryable unknown loan type error.
func NewLoanTypeUnknownError(loanType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLoanTypeUnknown,
		Message:   "Loan type has no registered identifier prefix",
		Details:   fmt.Sprintf("loanType: %s", loanType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSequenceExhaustedError creates a non-retryable daily sequence overflow error.
func NewSequenceExhaustedError(prefix, day string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSequenceExhausted,
		Message:   "Daily loan identifier sequence exhausted",
		Details:   fmt.Sprintf("prefix: %s, day: %s", prefix, day),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateLoanIDError creates a non-retryable uniqueness conflict error.
func NewDuplicateLoanIDError(loanID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateLoanID,
		Message:   "Loan identifier already exists",
		Details:   fmt.Sprintf("loanId: %s", loanID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordNotFoundError creates a non-retryable not-found error.
func NewRecordNotFoundError(resource, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthenticationError creates a non-retryable authentication error.
func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthenticationFailed,
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOTPInvalidError creates a non-retryable invalid OTP error.
func NewOTPInvalidError() *StandardError {
	return &StandardError{
		Code:      ErrCodeOTPInvalid,
		Message:   "One-time passcode does not match",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOTPExpiredError creates a non-retryable expired OTP error.
func NewOTPExpiredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeOTPExpired,
		Message:   "One-time passcode has expired",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewForbiddenError creates a non-retryable authorization error.
func NewForbiddenError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeForbidden,
		Message:   "Caller is not authorized for this operation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Elasticsearch query error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
