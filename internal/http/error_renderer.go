package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error           string                 `json:"error"`
	Message         string                 `json:"message"`
	Field           string                 `json:"field,omitempty"`
	IncompleteTasks []model.IncompleteTask `json:"incomplete_tasks,omitempty"`
}

// statusForCode maps an application error code to an HTTP status.
func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrCodeInvalidStatus, apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodePreconditionFailed, apperrors.ErrCodeConflict, apperrors.ErrCodeForeignKey:
		return http.StatusConflict
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ErrorRenderer writes service errors as JSON responses. Internal errors are
// logged and their message replaced so causes never leak to clients.
type ErrorRenderer struct {
	Logger *slog.Logger
}

func (er ErrorRenderer) logger() *slog.Logger {
	if er.Logger != nil {
		return er.Logger
	}
	return slog.Default()
}

// Render writes err to w.
func (er ErrorRenderer) Render(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = classifyUntyped(err)
	}

	status := statusForCode(appErr.Code)
	body := errorBody{
		Error:           string(appErr.Code),
		Message:         appErr.Message,
		Field:           appErr.Field,
		IncompleteTasks: appErr.IncompleteTasks,
	}
	if appErr.Code == "" {
		body.Error = string(apperrors.ErrCodeInternal)
	}

	if status >= http.StatusInternalServerError {
		er.logger().ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
		if status == http.StatusInternalServerError {
			body.Message = "internal server error"
		}
	}
	WriteJSON(w, status, body)
}

// classifyUntyped wraps errors that did not come through the app error taxonomy.
func classifyUntyped(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(err, apperrors.ErrCodeTimeout, "request timed out")
	case errors.Is(err, context.Canceled):
		return apperrors.Wrap(err, apperrors.ErrCodeCanceled, "request canceled")
	case isValidationError(err):
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "internal server error")
	}
}
