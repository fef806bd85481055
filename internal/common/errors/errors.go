// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Validation errors: malformed input or out-of-range values.
const (
	ErrCodeValidationFailed      ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount         ErrorCode = "INVALID_AMOUNT"
	ErrCodePaymentAmountMismatch ErrorCode = "PAYMENT_AMOUNT_MISMATCH"
)

// Authorization errors: the caller is not permitted to perform the action.
const (
	ErrCodeUnauthorizedAction      ErrorCode = "UNAUTHORIZED_ACTION"
	ErrCodePaymentSignatureInvalid ErrorCode = "PAYMENT_SIGNATURE_INVALID"
	ErrCodeTokenInvalid            ErrorCode = "TOKEN_INVALID"
)

// State conflict errors: the action is not legal in the entity's current state.
const (
	ErrCodeInvalidGigState         ErrorCode = "INVALID_GIG_STATE"
	ErrCodeGigAlreadyCompleted     ErrorCode = "GIG_ALREADY_COMPLETED"
	ErrCodeEscrowAlreadyLocked     ErrorCode = "ESCROW_ALREADY_LOCKED"
	ErrCodeEscrowNotLocked         ErrorCode = "ESCROW_NOT_LOCKED"
	ErrCodeInsufficientBalance     ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodeDuplicatePayment        ErrorCode = "DUPLICATE_PAYMENT"
	ErrCodePaymentNotCaptured      ErrorCode = "PAYMENT_NOT_CAPTURED"
	ErrCodeInvalidTransactionState ErrorCode = "INVALID_TRANSACTION_STATE"
)

// Integrity and infrastructure errors.
const (
	ErrCodeLedgerIntegrity          ErrorCode = "LEDGER_INTEGRITY_VIOLATION"
	ErrCodeResourceNotFound         ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeSearchQueryFailed        ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeLockTimeout              ErrorCode = "LOCK_TIMEOUT"
	ErrCodeExternalService          ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout                  ErrorCode = "TIMEOUT_ERROR"
)

// Error categories used to classify codes.
const (
	CategoryValidation     = "VALIDATION"
	CategoryAuthorization  = "AUTHORIZATION"
	CategoryStateConflict  = "STATE_CONFLICT"
	CategoryIntegrity      = "INTEGRITY"
	CategoryNotFound       = "NOT_FOUND"
	CategoryInfrastructure = "INFRASTRUCTURE"
	CategoryOther          = "OTHER"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError creates a non-retryable input validation error.
func NewValidationError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Input validation failed", details, false)
}

// NewInvalidAmountError creates a non-retryable error for a bad monetary amount.
func NewInvalidAmountError(details string) *StandardError {
	return newError(ErrCodeInvalidAmount, "Invalid amount", details, false)
}

// NewPaymentAmountMismatchError is returned when a client-supplied amount disagrees with the gateway.
func NewPaymentAmountMismatchError(details string) *StandardError {
	return newError(ErrCodePaymentAmountMismatch, "Payment amount does not match verified amount", details, false)
}

// NewUnauthorizedError creates a non-retryable authorization error.
func NewUnauthorizedError(details string) *StandardError {
	return newError(ErrCodeUnauthorizedAction, "Caller is not permitted to perform this action", details, false)
}

// NewPaymentSignatureInvalidError is returned when a payment signature does not verify.
func NewPaymentSignatureInvalidError(details string) *StandardError {
	return newError(ErrCodePaymentSignatureInvalid, "Payment signature verification failed", details, false)
}

// NewTokenInvalidError creates a non-retryable identity token error.
func NewTokenInvalidError(details string) *StandardError {
	return newError(ErrCodeTokenInvalid, "Identity token is invalid or inactive", details, false)
}

// NewStateConflictError creates a non-retryable state conflict with a specific code.
func NewStateConflictError(code ErrorCode, message, details string) *StandardError {
	return newError(code, message, details, false)
}

// NewGigAlreadyCompletedError is returned for any action against a completed gig.
func NewGigAlreadyCompletedError(gigID string) *StandardError {
	return newError(ErrCodeGigAlreadyCompleted, "Gig is already completed", fmt.Sprintf("gigId: %s", gigID), false)
}

// NewInsufficientBalanceError is returned when a withdrawal exceeds the available balance.
func NewInsufficientBalanceError(details string) *StandardError {
	return newError(ErrCodeInsufficientBalance, "Insufficient available balance", details, false)
}

// NewIntegrityError marks a failed atomic ledger write. The operation must be rolled back.
func NewIntegrityError(operation string, err error) *StandardError {
	e := newError(ErrCodeLedgerIntegrity, "Ledger write failed and was rolled back",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), false)
	e.cause = err
	return e
}

// NewResourceNotFoundError creates a non-retryable not-found error.
func NewResourceNotFoundError(service, details string) *StandardError {
	return newError(ErrCodeResourceNotFound, fmt.Sprintf("Resource not found in %s", service), details, false)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	e := newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
	e.cause = err
	return e
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	e := newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true)
	e.cause = err
	return e
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(queryType string, err error) *StandardError {
	e := newError(ErrCodeSearchQueryFailed, "Elasticsearch query error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true)
	e.cause = err
	return e
}

// NewLockTimeoutError creates a retryable error for a lock that could not be acquired in time.
func NewLockTimeoutError(key string) *StandardError {
	return newError(ErrCodeLockTimeout, "Timed out waiting for lock", fmt.Sprintf("key: %s", key), true)
}

func NewExternalServiceError(service string, err error) *StandardError {
	e := newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err.Error(), true)
	e.cause = err
	return e
}

func NewTimeoutError(service string, err error) *StandardError {
	e := newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
	e.cause = err
	return e
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended job retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeLockTimeout,
		ErrCodeTimeout:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"errorCategory": CategoryOf(stdErr.Code),
		"timestamp":     stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// CategoryOf returns the category of the error code.
func CategoryOf(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidAmount, ErrCodePaymentAmountMismatch:
		return CategoryValidation
	case ErrCodeUnauthorizedAction, ErrCodePaymentSignatureInvalid, ErrCodeTokenInvalid:
		return CategoryAuthorization
	case ErrCodeInvalidGigState, ErrCodeGigAlreadyCompleted, ErrCodeEscrowAlreadyLocked,
		ErrCodeEscrowNotLocked, ErrCodeInsufficientBalance, ErrCodeDuplicatePayment,
		ErrCodePaymentNotCaptured, ErrCodeInvalidTransactionState:
		return CategoryStateConflict
	case ErrCodeLedgerIntegrity:
		return CategoryIntegrity
	case ErrCodeResourceNotFound:
		return CategoryNotFound
	case ErrCodeDatabaseConnectionFailed, ErrCodeQueryExecutionFailed, ErrCodeSearchQueryFailed,
		ErrCodeLockTimeout, ErrCodeExternalService, ErrCodeTimeout:
		return CategoryInfrastructure
	default:
		return CategoryOther
	}
}

// AsStandard extracts a StandardError from an error chain.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first StandardError in the chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, category string) bool {
	code := CodeOf(err)
	return code != "" && CategoryOf(code) == category
}
