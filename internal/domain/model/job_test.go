//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatus_UnmarshalJSONIsExactCase(t *testing.T) {
	var req struct {
		Status JobStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"IN_PROGRESS"}`), &req))
	assert.Equal(t, JobStatusInProgress, req.Status)

	for _, body := range []string{`{"status":"in_progress"}`, `{"status":" PENDING"}`, `{"status":"DONE"}`} {
		err := json.Unmarshal([]byte(body), &req)
		require.ErrorIs(t, err, ErrInvalidStatus, body)
	}
}

func TestTaskStatus_UnmarshalJSONIsExactCase(t *testing.T) {
	var req struct {
		Status TaskStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"COMPLETED"}`), &req))
	assert.Equal(t, TaskStatusCompleted, req.Status)

	err := json.Unmarshal([]byte(`{"status":"completed"}`), &req)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestJobPriority_UnmarshalJSONIsExactCase(t *testing.T) {
	var req struct {
		Priority JobPriority `json:"priority"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"priority":"URGENT"}`), &req))
	assert.Equal(t, JobPriorityUrgent, req.Priority)
	require.Error(t, json.Unmarshal([]byte(`{"priority":"urgent"}`), &req))
}

func TestJobStatus_IsOpen(t *testing.T) {
	assert.True(t, JobStatusPending.IsOpen())
	assert.True(t, JobStatusInProgress.IsOpen())
	assert.False(t, JobStatusCompleted.IsOpen())
	assert.False(t, JobStatusCancelled.IsOpen())
}

func TestCreateJobRequest_ValidateAppliesDefaults(t *testing.T) {
	empty := "  "
	req := CreateJobRequest{Title: "Install boiler", ClientName: "Acme", AssignedTo: &empty}
	require.NoError(t, req.Validate())
	assert.Equal(t, JobStatusPending, req.Status)
	assert.Equal(t, JobPriorityMedium, req.Priority)
	assert.Nil(t, req.AssignedTo)
}

func TestCreateJobRequest_ValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		req  CreateJobRequest
		msg  string
	}{
		{"missing title", CreateJobRequest{ClientName: "Acme"}, "title is required"},
		{"long title", CreateJobRequest{Title: strings.Repeat("x", 201), ClientName: "Acme"}, "title cannot exceed"},
		{"missing client", CreateJobRequest{Title: "t"}, "client_name is required"},
		{"bad priority", CreateJobRequest{Title: "t", ClientName: "c", Priority: "CRITICAL"}, "invalid priority"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestUpdateJobRequest_Validate(t *testing.T) {
	var empty UpdateJobRequest
	require.Error(t, empty.Validate())

	blank := ""
	req := UpdateJobRequest{AssignedTo: &blank}
	require.Error(t, req.Validate())

	unassign := UpdateJobRequest{Unassign: true}
	assert.NoError(t, unassign.Validate())
}

func TestCreateTaskRequest_ValidateDefaults(t *testing.T) {
	req := CreateTaskRequest{JobID: "j1", Title: "Drain tank"}
	require.NoError(t, req.Validate())
	require.NotNil(t, req.Order)
	assert.Equal(t, 1, *req.Order)
	assert.Equal(t, TaskStatusNotStarted, req.Status)

	zero := 0
	bad := CreateTaskRequest{JobID: "j1", Title: "x", Order: &zero}
	assert.Error(t, bad.Validate())
}

func TestUpdateTaskRequest_DetectsEquipmentReplace(t *testing.T) {
	reqs := []RequirementInput{}
	req := UpdateTaskRequest{EquipmentRequirements: &reqs}
	assert.True(t, req.HasUpdates())
	assert.NoError(t, req.Validate())
}

func TestCreateUserRequest_Validate(t *testing.T) {
	req := CreateUserRequest{Username: " tech1 ", Email: "tech1@example.com", Role: "TECHNICIAN"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "tech1", req.Username)

	bad := CreateUserRequest{Username: "x", Email: "not-an-email", Role: "ADMIN"}
	assert.ErrorContains(t, bad.Validate(), "email")
}

func TestUser_IsTechnician(t *testing.T) {
	assert.True(t, (&User{Role: "TECHNICIAN", IsActive: true}).IsTechnician())
	assert.False(t, (&User{Role: "TECHNICIAN", IsActive: false}).IsTechnician())
	assert.False(t, (&User{Role: "ADMIN", IsActive: true}).IsTechnician())
	var nilUser *User
	assert.False(t, nilUser.IsTechnician())
}

func TestCreateEquipmentRequest_ValidateTrims(t *testing.T) {
	req := CreateEquipmentRequest{Name: " Ladder ", Type: "tool", SerialNumber: " SN-1 "}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Ladder", req.Name)
	assert.Equal(t, "SN-1", req.SerialNumber)

	blank := " "
	upd := UpdateEquipmentRequest{SerialNumber: &blank}
	assert.ErrorContains(t, upd.Validate(), "serial_number cannot be empty")
}
