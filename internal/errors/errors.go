package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized    = "UNAUTHENTICATED"
	ErrCodeAccountDisabled = "ACCOUNT_DISABLED"

	// Authorization errors
	ErrCodeForbidden = "PERMISSION_DENIED"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_DATA"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeConflict = "CONFLICT"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
)

// Kind classifies domain failures raised below the HTTP boundary.
type Kind string

const (
	KindNotFound         Kind = ErrCodeNotFound
	KindPermissionDenied Kind = ErrCodeForbidden
	KindUnauthenticated  Kind = ErrCodeUnauthorized
	KindAccountDisabled  Kind = ErrCodeAccountDisabled
	KindInvalidData      Kind = ErrCodeInvalidInput
	KindConflict         Kind = ErrCodeConflict
)

// Error is a domain failure with a diagnostic reason/description pair.
type Error struct {
	Kind        Kind
	Reason      string
	Description string
	Err         error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Description != "" {
		msg += " (" + e.Description + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// regardless of reason.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrUnauthenticated  = &Error{Kind: KindUnauthenticated}
	ErrAccountDisabled  = &Error{Kind: KindAccountDisabled}
	ErrInvalidData      = &Error{Kind: KindInvalidData}
	ErrConflict         = &Error{Kind: KindConflict}
)

func NewNotFound(object string) *Error {
	return &Error{
		Kind:        KindNotFound,
		Reason:      "Object not found",
		Description: fmt.Sprintf("%s does not exist", object),
	}
}

func NewPermissionDenied(description string) *Error {
	return &Error{
		Kind:        KindPermissionDenied,
		Reason:      "Permission denied",
		Description: description,
	}
}

func NewUnauthenticated(description string, err error) *Error {
	return &Error{
		Kind:        KindUnauthenticated,
		Reason:      "Could not validate credentials",
		Description: description,
		Err:         err,
	}
}

func NewAccountDisabled() *Error {
	return &Error{
		Kind:        KindAccountDisabled,
		Reason:      "Account disabled",
		Description: "The user account is inactive",
	}
}

func NewInvalidData(description string) *Error {
	return &Error{
		Kind:        KindInvalidData,
		Reason:      "Invalid data",
		Description: description,
	}
}

func NewConflict(description string, err error) *Error {
	return &Error{
		Kind:        KindConflict,
		Reason:      "Already exists",
		Description: description,
		Err:         err,
	}
}

// KindOf returns the kind of the first domain error in err's chain.
func KindOf(err error) (Kind, bool) {
	var domainErr *Error
	if goerrors.As(err, &domainErr) {
		return domainErr.Kind, true
	}
	return "", false
}

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

var statusByKind = map[Kind]int{
	KindNotFound:         http.StatusNotFound,
	KindPermissionDenied: http.StatusForbidden,
	KindUnauthenticated:  http.StatusUnauthorized,
	KindAccountDisabled:  http.StatusForbidden,
	KindInvalidData:      http.StatusBadRequest,
	KindConflict:         http.StatusConflict,
}

// Respond maps err onto an HTTP response. Non-domain errors become a 500 and
// are attached to the context for the request logger.
func Respond(c *gin.Context, err error) {
	var domainErr *Error
	if !goerrors.As(err, &domainErr) {
		_ = c.Error(err)
		InternalError(c, "")
		return
	}

	status, ok := statusByKind[domainErr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	apiErr := NewAPIError(string(domainErr.Kind), domainErr.Reason)
	if domainErr.Description != "" {
		apiErr.Details = domainErr.Description
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	if domainErr.Kind == KindUnauthenticated {
		c.Header("WWW-Authenticate", "Bearer")
	}
	RespondWithError(c, status, apiErr)
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	c.Header("WWW-Authenticate", "Bearer")
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// BadRequestWithDetails sends a 400 response with details
func BadRequestWithDetails(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, NewAPIErrorWithDetails(ErrCodeInvalidInput, message, details))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeServiceUnavailable, message))
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *gin.Context) {
	RespondWithError(c, http.StatusTooManyRequests, NewAPIError(ErrCodeTooManyRequests, "Too many requests"))
}
