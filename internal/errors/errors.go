package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a catfact error code.
type ErrorCode string

const (
	ErrCatalogUnavailable ErrorCode = "CATALOG_UNAVAILABLE" // 503
	ErrEmptyCatalog       ErrorCode = "EMPTY_CATALOG"       // 503
	ErrFactNotFound       ErrorCode = "FACT_NOT_FOUND"      // 404
	ErrFactCorrupt        ErrorCode = "FACT_CORRUPT"        // 500
	ErrRenderFailure      ErrorCode = "RENDER_FAILURE"      // 500
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"     // 400
	ErrInternal           ErrorCode = "INTERNAL"            // 500
)

// CatfactError represents a structured error with code, status, and details.
type CatfactError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *CatfactError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewCatalogUnavailable creates a 503 error for a missing or unreadable facts root.
func NewCatalogUnavailable(root string, err error) *CatfactError {
	msg := fmt.Sprintf("fact catalog unavailable: %s", root)
	if err != nil {
		msg = fmt.Sprintf("%s (%v)", msg, err)
	}
	return &CatfactError{
		Code:    ErrCatalogUnavailable,
		Status:  503,
		Message: msg,
		Details: map[string]any{"root": root},
	}
}

// NewEmptyCatalog creates a 503 error when the catalog holds no fact folders.
func NewEmptyCatalog(root string) *CatfactError {
	return &CatfactError{
		Code:    ErrEmptyCatalog,
		Status:  503,
		Message: fmt.Sprintf("fact catalog is empty: %s", root),
		Details: map[string]any{"root": root},
	}
}

// NewFactNotFound creates a 404 error for a fact folder that does not exist.
func NewFactNotFound(id int) *CatfactError {
	return &CatfactError{
		Code:    ErrFactNotFound,
		Status:  404,
		Message: fmt.Sprintf("fact not found: %d", id),
		Details: map[string]any{"fact_id": id},
	}
}

// NewFactCorrupt creates a 500 error when a fact's caption or image cannot be used.
func NewFactCorrupt(id int, file string, err error) *CatfactError {
	msg := fmt.Sprintf("fact %d is corrupt: %s", id, file)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &CatfactError{
		Code:    ErrFactCorrupt,
		Status:  500,
		Message: msg,
		Details: map[string]any{"fact_id": id, "file": file},
	}
}

// NewRenderFailure creates a 500 error for measurement, drawing or encoding failures.
func NewRenderFailure(err error) *CatfactError {
	msg := "render failed"
	if err != nil {
		msg = fmt.Sprintf("render failed: %v", err)
	}
	return &CatfactError{
		Code:    ErrRenderFailure,
		Status:  500,
		Message: msg,
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *CatfactError {
	return &CatfactError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the cause is kept in Details for logging.
func NewInternal(err error) *CatfactError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &CatfactError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// As extracts a *CatfactError from err, unwrapping as needed.
func As(err error) (*CatfactError, bool) {
	var cErr *CatfactError
	if stderrors.As(err, &cErr) {
		return cErr, true
	}
	return nil, false
}

// Is checks if an error is (or wraps) a CatfactError with the given code.
func Is(err error, code ErrorCode) bool {
	if cErr, ok := As(err); ok {
		return cErr.Code == code
	}
	return false
}

// CodeOf returns the error code carried by err, or ErrInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if cErr, ok := As(err); ok {
		return cErr.Code
	}
	return ErrInternal
}
