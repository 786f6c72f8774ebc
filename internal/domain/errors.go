package domain

import (
	"errors"
	"net/http"
)

// Wire error codes. Each code resolves through the catalog below to a fixed
// HTTP status and message, so call sites never re-derive response text.
const (
	CodeNotFound     = "RESOURCE_NOT_FOUND"
	CodeDuplicate    = "DUPLICATE_RECORD"
	CodeValidation   = "VALIDATION_FAILED"
	CodeWrongLogin   = "AUTH_WRONG_DATA"
	CodeWrongToken   = "AUTH_WRONG_TOKEN"
	CodeNoLogin      = "NO_LOGIN"
	CodeNoPermission = "NO_PERMISSION"
	CodePageNotFound = "PAGE_NOT_FOUND"
	CodeInternal     = "INTERNAL_ERROR"
)

type catalogEntry struct {
	Status  int
	Message string
	Cause   string
}

// errorCatalog is the static code → (status, message, cause) lookup table.
var errorCatalog = map[string]catalogEntry{
	CodeNotFound:     {http.StatusNotFound, "No data exists for the provided ID.", ""},
	CodeDuplicate:    {http.StatusBadRequest, "This record already exists.", ""},
	CodeValidation:   {http.StatusBadRequest, "Some fields are missing or invalid.", ""},
	CodeWrongLogin:   {http.StatusUnauthorized, "Wrong email or password.", ""},
	CodeWrongToken:   {http.StatusUnauthorized, "Wrong Token.", "Authorization info not found or not valid."},
	CodeNoLogin:      {http.StatusUnauthorized, "It must be logged user.", ""},
	CodeNoPermission: {http.StatusUnauthorized, "It must be has permission for this process.", ""},
	CodePageNotFound: {http.StatusNotFound, "Page Not Found.", ""},
	CodeInternal:     {http.StatusInternalServerError, "Internal error.", ""},
}

// AppError is a business error carrying a catalog code, an optional field
// detail list (validation failures), and an optional wrapped error.
type AppError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	Err     error    `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error for use with errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined business errors. Use the helper functions (IsNotFound,
// IsDuplicate, ...) rather than errors.Is: the helpers compare catalog codes
// via errors.As, so freshly constructed and wrapped instances match too.
var (
	ErrNotFound     = NewAppError(CodeNotFound, nil)
	ErrDuplicate    = NewAppError(CodeDuplicate, nil)
	ErrValidation   = NewAppError(CodeValidation, nil)
	ErrWrongLogin   = NewAppError(CodeWrongLogin, nil)
	ErrWrongToken   = NewAppError(CodeWrongToken, nil)
	ErrNoLogin      = NewAppError(CodeNoLogin, nil)
	ErrNoPermission = NewAppError(CodeNoPermission, nil)
	ErrInternal     = NewAppError(CodeInternal, nil)
)

// NewAppError creates an AppError for a catalog code, wrapping err.
// Unknown codes resolve to the internal-error entry.
func NewAppError(code string, err error) *AppError {
	entry, ok := errorCatalog[code]
	if !ok {
		entry = errorCatalog[CodeInternal]
	}
	return &AppError{
		Code:    code,
		Message: entry.Message,
		Err:     err,
	}
}

// NewValidationError creates a validation AppError listing the offending fields.
func NewValidationError(details []string) *AppError {
	e := NewAppError(CodeValidation, nil)
	e.Details = details
	return e
}

// NewMessageError creates an AppError with a caller-supplied message,
// keeping the given code's status mapping.
func NewMessageError(code, message string) *AppError {
	e := NewAppError(code, nil)
	e.Message = message
	return e
}

// IsNotFound reports whether err is or wraps an AppError with CodeNotFound.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsDuplicate reports whether err is or wraps an AppError with CodeDuplicate.
func IsDuplicate(err error) bool { return hasCode(err, CodeDuplicate) }

// IsValidation reports whether err is or wraps an AppError with CodeValidation.
func IsValidation(err error) bool { return hasCode(err, CodeValidation) }

// IsUnauthorized reports whether err is or wraps an AppError whose catalog
// status is 401. The auth protocol collapses signature failure, session
// absence, and hijack detection into the same code on purpose.
func IsUnauthorized(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPStatusCode(appErr) == http.StatusUnauthorized
	}
	return false
}

func hasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatusCode maps an error to an HTTP status code through the catalog.
// Anything that is not an *AppError is a 500.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if err != nil && errors.As(err, &appErr) {
		if entry, ok := errorCatalog[appErr.Code]; ok {
			return entry.Status
		}
	}
	return http.StatusInternalServerError
}

// CatalogCause returns the static cause text for an error's catalog code,
// or the empty string when none is declared.
func CatalogCause(err error) string {
	var appErr *AppError
	if err != nil && errors.As(err, &appErr) {
		if entry, ok := errorCatalog[appErr.Code]; ok {
			return entry.Cause
		}
	}
	return ""
}
