// Package testutil provides testing utilities and helpers for the jobops services.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
)

var fixtureSeq atomic.Int64

// nextSeq returns a process-unique suffix for usernames and serial numbers.
func nextSeq() int64 { return fixtureSeq.Add(1) }

// UserRequest returns a valid CreateUserRequest with a unique username.
func UserRequest(role domainauth.Role) *model.CreateUserRequest {
	n := nextSeq()
	return &model.CreateUserRequest{
		Username:  fmt.Sprintf("user%d", n),
		Email:     fmt.Sprintf("user%d@example.com", n),
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", n),
		Role:      role,
	}
}

// EquipmentRequest returns a valid CreateEquipmentRequest with a unique serial number.
func EquipmentRequest(name, eqType string) *model.CreateEquipmentRequest {
	return &model.CreateEquipmentRequest{
		Name:         name,
		Type:         eqType,
		SerialNumber: fmt.Sprintf("SN-%06d", nextSeq()),
	}
}

// JobRequestBuilder provides a fluent interface for building CreateJobRequest objects for testing.
type JobRequestBuilder struct {
	req *model.CreateJobRequest
}

// NewJobRequest creates a new JobRequestBuilder with sensible defaults.
func NewJobRequest(createdBy string) *JobRequestBuilder {
	return &JobRequestBuilder{
		req: &model.CreateJobRequest{
			Title:      "Replace rooftop unit",
			ClientName: "Acme Facilities",
			Status:     model.JobStatusPending,
			Priority:   model.JobPriorityMedium,
			CreatedBy:  createdBy,
		},
	}
}

// WithTitle sets the job title.
func (b *JobRequestBuilder) WithTitle(title string) *JobRequestBuilder {
	b.req.Title = title
	return b
}

// WithStatus sets the initial job status.
func (b *JobRequestBuilder) WithStatus(status model.JobStatus) *JobRequestBuilder {
	b.req.Status = status
	return b
}

// WithPriority sets the job priority.
func (b *JobRequestBuilder) WithPriority(priority model.JobPriority) *JobRequestBuilder {
	b.req.Priority = priority
	return b
}

// WithScheduledDate sets the scheduled date.
func (b *JobRequestBuilder) WithScheduledDate(at time.Time) *JobRequestBuilder {
	b.req.ScheduledDate = &at
	return b
}

// WithAssignee sets the assigned technician.
func (b *JobRequestBuilder) WithAssignee(userID string) *JobRequestBuilder {
	b.req.AssignedTo = &userID
	return b
}

// Build returns the constructed CreateJobRequest.
func (b *JobRequestBuilder) Build() *model.CreateJobRequest {
	return b.req
}

// Seeder inserts fixture rows directly with SQL so repository tests do not
// depend on the repository under test for their setup.
type Seeder struct {
	t  TestingTB
	db *sql.DB
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(t TestingTB, db *sql.DB) *Seeder {
	return &Seeder{t: t, db: db}
}

func (s *Seeder) insert(query string, args ...any) string {
	s.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		s.t.Fatalf("seed insert failed: %v", err)
	}
	return id
}

// User inserts an active user with the given role and returns its id.
func (s *Seeder) User(role domainauth.Role) string {
	s.t.Helper()
	req := UserRequest(role)
	return s.insert(
		`INSERT INTO users (username, email, first_name, last_name, role) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		req.Username, req.Email, req.FirstName, req.LastName, string(req.Role),
	)
}

// Equipment inserts an active catalog item and returns its id.
func (s *Seeder) Equipment(name, eqType string) string {
	s.t.Helper()
	req := EquipmentRequest(name, eqType)
	return s.insert(
		`INSERT INTO equipment (name, eq_type, serial_number) VALUES ($1, $2, $3) RETURNING id`,
		req.Name, req.Type, req.SerialNumber,
	)
}

// Job inserts the job described by req and returns its id. Overdue starts false.
func (s *Seeder) Job(req *model.CreateJobRequest) string {
	s.t.Helper()
	return s.insert(
		`INSERT INTO jobs (title, client_name, scheduled_date, status, priority, created_by, assigned_to)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		req.Title, req.ClientName, req.ScheduledDate, string(req.Status), string(req.Priority),
		req.CreatedBy, req.AssignedTo,
	)
}

// Task inserts a task at order with status. COMPLETED tasks are stamped with TestTime.
func (s *Seeder) Task(jobID string, order int, status model.TaskStatus) string {
	s.t.Helper()
	var completedAt *time.Time
	if status == model.TaskStatusCompleted {
		completedAt = TimePtr(TestTime())
	}
	return s.insert(
		`INSERT INTO job_tasks (job_id, title, "order", status, completed_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		jobID, fmt.Sprintf("Step %d", order), order, string(status), completedAt,
	)
}

// Requirement inserts a ledger entry and returns its id.
func (s *Seeder) Requirement(taskID, equipmentID string, quantity int) string {
	s.t.Helper()
	return s.insert(
		`INSERT INTO job_task_equipment (task_id, equipment_id, quantity) VALUES ($1, $2, $3) RETURNING id`,
		taskID, equipmentID, quantity,
	)
}

// SetOverdue forces the persisted overdue flag of a job.
func (s *Seeder) SetOverdue(jobID string, overdue bool) {
	s.t.Helper()
	if _, err := s.db.ExecContext(context.Background(), `UPDATE jobs SET overdue = $2 WHERE id = $1`, jobID, overdue); err != nil {
		s.t.Fatalf("set overdue failed: %v", err)
	}
}
