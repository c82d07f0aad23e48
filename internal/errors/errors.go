package errors

import (
	"errors"
	"fmt"

	"github.com/target/jobops-api/internal/domain/model"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates an entity id does not resolve.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeForbidden indicates the caller lacks the role or relationship required for this entity.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeUnauthorized indicates the caller is not authenticated.
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeInvalidStatus indicates a status value outside the enumerated set for the target entity.
	ErrCodeInvalidStatus ErrorCode = "invalid_status"
	// ErrCodePreconditionFailed indicates a business precondition was not met
	// (incomplete tasks on job completion, duplicate equipment requirement, non-positive quantity).
	ErrCodePreconditionFailed ErrorCode = "precondition_failed"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique constraint violation).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeForeignKey indicates a foreign key constraint violation.
	ErrCodeForeignKey ErrorCode = "foreign_key"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
	// IncompleteTasks lists the tasks blocking a job completion (optional)
	IncompleteTasks []model.IncompleteTask
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

func newError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return newError(ErrCodeNotFound, message)
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return newError(ErrCodeNotFound, fmt.Sprintf(format, args...))
}

// Forbidden creates a new Forbidden error.
func Forbidden(message string) *AppError {
	return newError(ErrCodeForbidden, message)
}

// Unauthorized creates a new Unauthorized error.
func Unauthorized(message string) *AppError {
	return newError(ErrCodeUnauthorized, message)
}

// InvalidStatusf creates a new InvalidStatus error with formatted message.
func InvalidStatusf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeInvalidStatus, Message: fmt.Sprintf(format, args...), Field: "status"}
}

// PreconditionFailed creates a new PreconditionFailed error.
func PreconditionFailed(message string) *AppError {
	return newError(ErrCodePreconditionFailed, message)
}

// PreconditionFailedf creates a new PreconditionFailed error with formatted message.
func PreconditionFailedf(format string, args ...any) *AppError {
	return newError(ErrCodePreconditionFailed, fmt.Sprintf(format, args...))
}

// IncompleteTasksMessage is the message attached to a blocked job completion.
const IncompleteTasksMessage = "Cannot complete job until all tasks are completed"

// IncompleteTasks creates the PreconditionFailed error for a job completion blocked by tasks.
func IncompleteTasks(tasks []model.IncompleteTask) *AppError {
	return &AppError{
		Code:            ErrCodePreconditionFailed,
		Message:         IncompleteTasksMessage,
		IncompleteTasks: tasks,
	}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return newError(ErrCodeConflict, message)
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return newError(ErrCodeValidation, message)
}

// Validationf creates a new Validation error with formatted message.
func Validationf(format string, args ...any) *AppError {
	return newError(ErrCodeValidation, fmt.Sprintf(format, args...))
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return newError(ErrCodeInternal, message)
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsForbidden checks if an error is a Forbidden error.
func IsForbidden(err error) bool {
	return isCode(err, ErrCodeForbidden)
}

// IsInvalidStatus checks if an error is an InvalidStatus error.
func IsInvalidStatus(err error) bool {
	return isCode(err, ErrCodeInvalidStatus)
}

// IsPreconditionFailed checks if an error is a PreconditionFailed error.
func IsPreconditionFailed(err error) bool {
	return isCode(err, ErrCodePreconditionFailed)
}

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool {
	return isCode(err, ErrCodeConflict)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsForeignKey checks if an error is a ForeignKey error.
func IsForeignKey(err error) bool {
	return isCode(err, ErrCodeForeignKey)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// GetIncompleteTasks returns the tasks attached to a blocked job completion, if any.
func GetIncompleteTasks(err error) []model.IncompleteTask {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.IncompleteTasks
	}
	return nil
}
