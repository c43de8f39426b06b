package internal

import (
	"encoding/json"
	"errors"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNoMatch      ErrorType = "NO_MATCH"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeRateLimited  ErrorType = "RATE_LIMITED"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidHours     ErrorCode = "INVALID_HOURS"
	ErrCodeInvalidCategory  ErrorCode = "INVALID_CATEGORY"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidRange     ErrorCode = "INVALID_RANGE"
	ErrCodeInvalidCurrency  ErrorCode = "INVALID_CURRENCY"
	ErrCodeMissingReason    ErrorCode = "MISSING_REASON"
	ErrCodeEmptyIDs         ErrorCode = "EMPTY_IDS"

	ErrCodeNoMatchingEntries ErrorCode = "NO_MATCHING_ENTRIES"

	ErrCodeEntryNotFound      ErrorCode = "TIME_ENTRY_NOT_FOUND"
	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeCannotModifyEntry  ErrorCode = "CANNOT_MODIFY_ENTRY"
	ErrCodeUnauthorizedAccess ErrorCode = "UNAUTHORIZED_ACCESS"
	ErrCodeCrossTenant        ErrorCode = "CROSS_TENANT_ACCESS"

	ErrCodeMissingToken ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"

	ErrCodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

// Error prefers the first field message of a validation failure.
func (e *AppError) Error() string {
	if v, ok := e.Details.(ValidationErrors); ok && len(v.Errors) > 0 {
		return v.Errors[0].Message
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Type and Code so sentinel values work with errors.Is even
// after WithDetails/WithCause produced a copy.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func newError(t ErrorType, status int, code ErrorCode, message string) *AppError {
	return &AppError{Type: t, Code: code, Message: message, StatusCode: status}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return newError(ErrorTypeValidation, http.StatusBadRequest, code, message)
}

// NewValidationFieldError reports a single bad field under VALIDATION_FAILED.
func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return NewValidationError("Validation failed", ErrCodeValidationFailed).WithDetails(ValidationErrors{
		Errors: []ValidationError{{Field: field, Message: message, Code: string(code)}},
	})
}

// NewNoMatchError reports that a transition filter matched zero rows. It maps
// to 422, apart from the 400 of malformed input.
func NewNoMatchError(message string, code ErrorCode) *AppError {
	return newError(ErrorTypeNoMatch, http.StatusUnprocessableEntity, code, message)
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, code, message)
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return newError(ErrorTypeUnauthorized, http.StatusUnauthorized, code, message)
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return newError(ErrorTypeForbidden, http.StatusForbidden, code, message)
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return newError(ErrorTypeConflict, http.StatusConflict, code, message)
}

func NewInternalError(message string, cause error) *AppError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, "INTERNAL_ERROR", message).WithCause(cause)
}

var (
	ErrNoMatchingEntries = NewNoMatchError("no entries matched the requested transition", ErrCodeNoMatchingEntries)
	ErrMissingReason     = NewValidationError("a reason is required for this operation", ErrCodeMissingReason)
	ErrEmptyIDs          = NewValidationError("at least one id is required", ErrCodeEmptyIDs)
	ErrInvalidDate       = NewValidationError("invalid date", ErrCodeInvalidDate)

	ErrEntryNotFound      = NewNotFoundError("Time entry not found", ErrCodeEntryNotFound)
	ErrUserNotFound       = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrCannotModifyEntry  = NewConflictError("Cannot modify entry in current status", ErrCodeCannotModifyEntry)
	ErrUnauthorizedAccess = NewForbiddenError("insufficient role for this operation", ErrCodeUnauthorizedAccess)
	ErrCrossTenant        = NewForbiddenError("target user does not belong to this company", ErrCodeCrossTenant)

	ErrMissingToken = NewUnauthorizedError("missing authorization token", ErrCodeMissingToken)
	ErrInvalidToken = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)

	ErrTooManyRequests = newError(ErrorTypeRateLimited, http.StatusTooManyRequests, ErrCodeTooManyRequests, "too many requests")
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

// MarshalJSON drops the status code and cause from the wire form.
func (e *AppError) MarshalJSON() ([]byte, error) {
	type wire struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(wire{e.Type, e.Code, e.Message, e.Details})
}
