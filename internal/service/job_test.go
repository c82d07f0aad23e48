package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobops-api/internal/core"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
	"github.com/target/jobops-api/internal/mocks"
	"go.uber.org/mock/gomock"
)

type jobFixture struct {
	jobs      *mocks.MockJobRepository
	users     *mocks.MockUserRepository
	lifecycle *mocks.MockLifecycleRepository
	svc       *JobService
}

func newJobFixture(t *testing.T) *jobFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &jobFixture{
		jobs:      mocks.NewMockJobRepository(ctrl),
		users:     mocks.NewMockUserRepository(ctrl),
		lifecycle: mocks.NewMockLifecycleRepository(ctrl),
	}
	f.svc = NewJobService(JobServiceOptions{
		Repo:      f.jobs,
		Users:     f.users,
		Lifecycle: NewLifecycleService(LifecycleServiceOptions{Repo: f.lifecycle, Clock: fixedClock}),
	})
	return f
}

func TestNewJobService_RequiresDeps(t *testing.T) {
	assert.Panics(t, func() { NewJobService(JobServiceOptions{}) })
}

func TestJobService_Create(t *testing.T) {
	f := newJobFixture(t)
	ctx := context.Background()

	f.users.EXPECT().GetByID(ctx, "tech-1").
		Return(&model.User{ID: "tech-1", Role: domainauth.RoleTechnician, IsActive: true}, nil)
	f.jobs.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateJobRequest) (*model.Job, error) {
			assert.Equal(t, salesCaller.UserID, req.CreatedBy)
			assert.Equal(t, model.JobStatusPending, req.Status)
			assert.Equal(t, model.JobPriorityMedium, req.Priority)
			return &model.Job{ID: "j-1", Title: req.Title, CreatedBy: req.CreatedBy, AssignedTo: req.AssignedTo}, nil
		})

	job, err := f.svc.Create(ctx, salesCaller, &model.CreateJobRequest{
		Title:      "Replace rooftop unit",
		ClientName: "Acme",
		CreatedBy:  "spoofed",
		AssignedTo: strPtr("tech-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "j-1", job.ID)
}

func TestJobService_Create_Rejects(t *testing.T) {
	t.Run("technician caller", func(t *testing.T) {
		f := newJobFixture(t)
		_, err := f.svc.Create(context.Background(), techCaller, &model.CreateJobRequest{Title: "x", ClientName: "y"})
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("missing title", func(t *testing.T) {
		f := newJobFixture(t)
		_, err := f.svc.Create(context.Background(), adminCaller, &model.CreateJobRequest{ClientName: "y"})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("unknown assignee", func(t *testing.T) {
		f := newJobFixture(t)
		f.users.EXPECT().GetByID(gomock.Any(), "ghost").Return(nil, apperrors.NotFound("User not found"))

		_, err := f.svc.Create(context.Background(), adminCaller, &model.CreateJobRequest{
			Title: "x", ClientName: "y", AssignedTo: strPtr("ghost"),
		})
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, "assigned_to", apperrors.GetField(err))
	})

	t.Run("assignee is not a technician", func(t *testing.T) {
		f := newJobFixture(t)
		f.users.EXPECT().GetByID(gomock.Any(), "sales-1").
			Return(&model.User{ID: "sales-1", Role: domainauth.RoleSalesAgent, IsActive: true}, nil)

		_, err := f.svc.Create(context.Background(), adminCaller, &model.CreateJobRequest{
			Title: "x", ClientName: "y", AssignedTo: strPtr("sales-1"),
		})
		assert.Equal(t, "assigned_to", apperrors.GetField(err))
	})
}

func TestJobService_Update_StatusGoesThroughGate(t *testing.T) {
	f := newJobFixture(t)
	ctx := context.Background()
	done := model.JobStatusCompleted

	f.lifecycle.EXPECT().TransitionJob(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, p core.JobTransitionParams) (*model.JobTransition, error) {
			assert.True(t, p.LockTasks)
			_, err := p.Decide(model.LockedJob{
				Job:   model.Job{ID: "j-1", Status: model.JobStatusInProgress},
				Tasks: []model.JobTask{{ID: "t-1", Status: model.TaskStatusInProgress}},
			})
			return nil, err
		})

	_, err := f.svc.Update(ctx, adminCaller, "j-1", model.UpdateJobRequest{
		Status: &done,
		Title:  strPtr("never written"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsPreconditionFailed(err))
	assert.Len(t, apperrors.GetIncompleteTasks(err), 1)
}

func TestJobService_Update_StatusOnly(t *testing.T) {
	f := newJobFixture(t)
	ctx := context.Background()
	cancelled := model.JobStatusCancelled

	f.lifecycle.EXPECT().TransitionJob(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, p core.JobTransitionParams) (*model.JobTransition, error) {
			assert.Nil(t, p.Fields)
			return &model.JobTransition{JobID: "j-1", Previous: model.JobStatusPending, Current: cancelled}, nil
		})
	f.jobs.EXPECT().GetByID(ctx, "j-1").Return(&model.Job{ID: "j-1", Status: cancelled}, nil)

	job, err := f.svc.Update(ctx, salesCaller, "j-1", model.UpdateJobRequest{Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, cancelled, job.Status)
}

func TestJobService_Update_StatusAndFieldsShareTransaction(t *testing.T) {
	f := newJobFixture(t)
	ctx := context.Background()
	cancelled := model.JobStatusCancelled

	f.lifecycle.EXPECT().TransitionJob(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, p core.JobTransitionParams) (*model.JobTransition, error) {
			require.NotNil(t, p.Fields)
			assert.Nil(t, p.Fields.Status)
			assert.Equal(t, "Rescheduled visit", *p.Fields.Title)
			return &model.JobTransition{JobID: "j-1", Previous: model.JobStatusPending, Current: cancelled}, nil
		})
	f.jobs.EXPECT().GetByID(ctx, "j-1").Return(&model.Job{ID: "j-1", Title: "Rescheduled visit", Status: cancelled}, nil)

	job, err := f.svc.Update(ctx, adminCaller, "j-1", model.UpdateJobRequest{
		Status: &cancelled,
		Title:  strPtr("Rescheduled visit"),
	})
	require.NoError(t, err)
	assert.Equal(t, cancelled, job.Status)
	assert.Equal(t, "Rescheduled visit", job.Title)
}

func TestJobService_Update_FieldWriteFailureLeavesNoPartialState(t *testing.T) {
	f := newJobFixture(t)
	ctx := context.Background()
	cancelled := model.JobStatusCancelled

	// the repository rolls back the status when the field write fails; no second write follows
	f.lifecycle.EXPECT().TransitionJob(ctx, gomock.Any()).
		Return(nil, apperrors.NotFound("Job not found"))

	_, err := f.svc.Update(ctx, adminCaller, "j-1", model.UpdateJobRequest{
		Status:     &cancelled,
		ClientName: strPtr("Globex"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestJobService_Update_Fields(t *testing.T) {
	f := newJobFixture(t)
	ctx := context.Background()

	f.jobs.EXPECT().Update(ctx, "j-1", model.UpdateJobRequest{Unassign: true, AssignedTo: strPtr("tech-1")}).
		Return(&model.Job{ID: "j-1"}, nil)

	_, err := f.svc.Update(ctx, adminCaller, "j-1", model.UpdateJobRequest{Unassign: true, AssignedTo: strPtr("tech-1")})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, adminCaller, "j-1", model.UpdateJobRequest{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestJobService_Delete(t *testing.T) {
	f := newJobFixture(t)
	ctx := context.Background()

	f.jobs.EXPECT().Delete(ctx, "j-1").Return(true, nil)
	deleted, err := f.svc.Delete(ctx, adminCaller, "j-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	f.jobs.EXPECT().Delete(ctx, "j-2").Return(false, errors.New("db down"))
	_, err = f.svc.Delete(ctx, adminCaller, "j-2")
	require.ErrorContains(t, err, "delete job")

	_, err = f.svc.Delete(ctx, techCaller, "j-1")
	assert.True(t, apperrors.IsForbidden(err))
}

func TestJobService_List(t *testing.T) {
	f := newJobFixture(t)
	opts := model.JobListOptions{AssignedTo: strPtr("tech-1")}
	f.jobs.EXPECT().List(gomock.Any(), opts).Return([]*model.Job{{ID: "j-1"}}, nil)

	jobs, err := f.svc.List(context.Background(), salesCaller, opts)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}
