package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

func renderErr(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/jobs/1", nil)
	ErrorRenderer{}.Render(rec, req, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestErrorRenderer_StatusMapping(t *testing.T) {
	tests := []struct {
		code apperrors.ErrorCode
		want int
	}{
		{apperrors.ErrCodeNotFound, http.StatusNotFound},
		{apperrors.ErrCodeForbidden, http.StatusForbidden},
		{apperrors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{apperrors.ErrCodeInvalidStatus, http.StatusBadRequest},
		{apperrors.ErrCodeValidation, http.StatusBadRequest},
		{apperrors.ErrCodePreconditionFailed, http.StatusConflict},
		{apperrors.ErrCodeConflict, http.StatusConflict},
		{apperrors.ErrCodeForeignKey, http.StatusConflict},
		{apperrors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{apperrors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := fmt.Errorf("get job: %w", &apperrors.AppError{Code: tt.code, Message: "boom"})
			status, body := renderErr(t, err)
			assert.Equal(t, tt.want, status)
			assert.Equal(t, string(tt.code), body["error"])
		})
	}
}

func TestErrorRenderer_IncompleteTasks(t *testing.T) {
	blocking := []model.IncompleteTask{
		{ID: "t-2", Title: "Wire panel", Status: model.TaskStatusInProgress},
	}
	status, body := renderErr(t, apperrors.IncompleteTasks(blocking))

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "precondition_failed", body["error"])
	tasks, ok := body["incomplete_tasks"].([]any)
	require.True(t, ok)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t-2", tasks[0].(map[string]any)["id"])
}

func TestErrorRenderer_FieldIncluded(t *testing.T) {
	status, body := renderErr(t, apperrors.ValidationField("assigned_to", "assignee must be an active technician"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "assigned_to", body["field"])
	assert.NotContains(t, body, "incomplete_tasks")
}

func TestErrorRenderer_InternalMessageHidden(t *testing.T) {
	status, body := renderErr(t, errors.New("pq: connection refused to 10.0.0.4"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal", body["error"])
	assert.Equal(t, "internal server error", body["message"])
}

func TestErrorRenderer_UntypedErrors(t *testing.T) {
	status, body := renderErr(t, errors.New("title is required and cannot be empty"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation", body["error"])

	status, body = renderErr(t, fmt.Errorf("list jobs: %w", context.DeadlineExceeded))
	assert.Equal(t, http.StatusGatewayTimeout, status)
	assert.Equal(t, "timeout", body["error"])
}
