// Package errors defines the coded application error returned by the
// services and rendered by the HTTP layer
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode is the stable machine-readable part of an error
type ErrorCode string

const (
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	CodeInternal           ErrorCode = "INTERNAL_ERROR"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	CodeDatabaseError      ErrorCode = "DATABASE_ERROR"
	CodeTimeout            ErrorCode = "TIMEOUT"

	CodeCatalogEmpty   ErrorCode = "CATALOG_EMPTY"
	CodeUserNotFound   ErrorCode = "USER_NOT_FOUND"
	CodeRecipeNotFound ErrorCode = "RECIPE_NOT_FOUND"
	CodePlanNotFound   ErrorCode = "PLAN_NOT_FOUND"
	CodeSlotNotFound   ErrorCode = "SLOT_NOT_FOUND"
	CodeItemNotFound   ErrorCode = "ITEM_NOT_FOUND"
)

// statusByCode maps codes to HTTP statuses; unknown codes are 500
var statusByCode = map[ErrorCode]int{
	CodeBadRequest:         http.StatusBadRequest,
	CodeValidationFailed:   http.StatusBadRequest,
	CodeConflict:           http.StatusConflict,
	CodeTooManyRequests:    http.StatusTooManyRequests,
	CodeServiceUnavailable: http.StatusServiceUnavailable,
	CodeTimeout:            http.StatusGatewayTimeout,
	CodeCatalogEmpty:       http.StatusUnprocessableEntity,
	CodeUserNotFound:       http.StatusNotFound,
	CodeRecipeNotFound:     http.StatusNotFound,
	CodePlanNotFound:       http.StatusNotFound,
	CodeSlotNotFound:       http.StatusNotFound,
	CodeItemNotFound:       http.StatusNotFound,
}

// AppError is a coded error with a human message and optional details
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
}

func (e *AppError) Unwrap() error { return e.Cause }

// StatusCode returns the HTTP status for the error's code
func (e *AppError) StatusCode() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WithMetadata attaches a key to the response metadata
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause records the underlying error for errors.Is/As
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates an error with the given code
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, message, "")
}

// NewValidationError reports invalid input; details names the problem
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

func NewConflictError(message string) *AppError {
	return NewAppError(CodeConflict, message, "")
}

func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// NewDatabaseError wraps a repository failure
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(CodeDatabaseError, "Database operation failed", "Failed to "+operation).
		WithCause(cause)
}

// NewTimeoutError wraps a deadline hit while running operation
func NewTimeoutError(operation string, cause error) *AppError {
	return NewAppError(CodeTimeout, "Operation timed out", operation+" did not finish in time").
		WithCause(cause)
}

func NewTooManyRequestsError() *AppError {
	return NewAppError(CodeTooManyRequests, "Too many requests", "")
}

// NewCatalogEmptyError is returned when filtering leaves nothing to plan with
func NewCatalogEmptyError() *AppError {
	return NewAppError(CodeCatalogEmpty, "Recipe catalog is empty", "No recipes are available for planning")
}

func NewUserNotFoundError(userID string) *AppError {
	return notFound(CodeUserNotFound, "User", "user_id", userID)
}

func NewRecipeNotFoundError(recipeID string) *AppError {
	return notFound(CodeRecipeNotFound, "Recipe", "recipe_id", recipeID)
}

func NewPlanNotFoundError(planID string) *AppError {
	return notFound(CodePlanNotFound, "Meal plan", "plan_id", planID)
}

// NewSlotNotFoundError is returned when a plan has no such meal; day is 1-based
func NewSlotNotFoundError(day int, mealType string) *AppError {
	return NewAppError(CodeSlotNotFound, "Meal slot not found",
		fmt.Sprintf("The plan has no %s on day %d", mealType, day)).
		WithMetadata("day", day).
		WithMetadata("meal_type", mealType)
}

// NewItemNotFoundError is returned for unknown or non-removable grocery keys
func NewItemNotFoundError(key string) *AppError {
	return NewAppError(CodeItemNotFound, "Grocery item not found", "No removable item with key "+key).
		WithMetadata("key", key)
}

func notFound(code ErrorCode, resource, key, id string) *AppError {
	return NewAppError(code, resource+" not found", fmt.Sprintf("%s with ID %s does not exist", resource, id)).
		WithMetadata(key, id)
}

// Wrap returns err as an AppError, wrapping foreign errors as internal
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := asAppError(err); ok {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// Is reports whether err carries the given code anywhere in its chain
func Is(err error, code ErrorCode) bool {
	appErr, ok := asAppError(err)
	return ok && appErr.Code == code
}

// GetCode returns the code in err's chain, or CodeInternal
func GetCode(err error) ErrorCode {
	if appErr, ok := asAppError(err); ok {
		return appErr.Code
	}
	return CodeInternal
}

func asAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}

// ValidationError describes one rejected request field
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

// ValidationErrors is the list reported under validation_errors
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// NewValidationErrors builds a validation error listing every field
func NewValidationErrors(errs []ValidationError) *AppError {
	v := ValidationErrors(errs)
	return NewValidationError(v.Error()).WithMetadata("validation_errors", v)
}

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails is the body of ErrorResponse
type ErrorDetails struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// ToErrorResponse renders err for the API
func ToErrorResponse(err *AppError, requestID string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetails{
		Code:      err.Code,
		Message:   err.Message,
		Details:   err.Details,
		Metadata:  err.Metadata,
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}}
}
