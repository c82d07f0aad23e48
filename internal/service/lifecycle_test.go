package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobops-api/internal/core"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
	"github.com/target/jobops-api/internal/mocks"
	"go.uber.org/mock/gomock"
)

type lifecycleFixture struct {
	repo   *mocks.MockLifecycleRepository
	events *mocks.MockEventPublisher
	sink   *recordingSink
	svc    *LifecycleService
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &lifecycleFixture{
		repo:   mocks.NewMockLifecycleRepository(ctrl),
		events: mocks.NewMockEventPublisher(ctrl),
		sink:   newRecordingSink(),
	}
	f.svc = NewLifecycleService(LifecycleServiceOptions{
		Repo:    f.repo,
		Events:  f.events,
		Metrics: f.sink,
		Clock:   fixedClock,
	})
	return f
}

// lockedTask makes the repository mock run decide against locked.
func (f *lifecycleFixture) lockedTask(locked model.LockedTask) {
	f.repo.EXPECT().
		TransitionTask(gomock.Any(), locked.Task.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, decide core.TaskDecision) (*model.TaskTransition, error) {
			tr, err := decide(locked)
			if err != nil {
				return nil, err
			}
			return &tr, nil
		})
}

func (f *lifecycleFixture) lockedJob(locked model.LockedJob, wantLockTasks bool) {
	f.repo.EXPECT().
		TransitionJob(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p core.JobTransitionParams) (*model.JobTransition, error) {
			if p.JobID != locked.Job.ID || p.LockTasks != wantLockTasks {
				return nil, errors.New("unexpected transition params")
			}
			tr, err := p.Decide(locked)
			if err != nil {
				return nil, err
			}
			return &tr, nil
		})
}

func TestNewLifecycleService_RequiresRepo(t *testing.T) {
	assert.Panics(t, func() { NewLifecycleService(LifecycleServiceOptions{}) })
}

func TestLifecycleService_TransitionTaskStatus_Completes(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	f.lockedTask(model.LockedTask{
		Task:          model.JobTask{ID: "t-1", JobID: "j-1", Title: "Wire panel", Status: model.TaskStatusInProgress},
		JobAssignedTo: strPtr(techCaller.UserID),
	})
	f.events.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evt model.DomainEvent) error {
			assert.Equal(t, model.EventTaskStatusChanged, evt.Type)
			assert.Equal(t, techCaller.UserID, evt.ActorID)
			assert.Equal(t, testNow, evt.OccurredAt)
			assert.NotEmpty(t, evt.ID)
			return nil
		})

	tr, err := f.svc.TransitionTaskStatus(ctx, "t-1", "COMPLETED", techCaller)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, tr.Previous)
	assert.Equal(t, model.TaskStatusCompleted, tr.Current)
	require.NotNil(t, tr.CompletedAt)
	assert.Equal(t, testNow, *tr.CompletedAt)

	tags := f.sink.lastTags("lifecycle.transition")
	assert.Equal(t, "task", tags["entity"])
	assert.Equal(t, "success", tags["result"])
}

func TestLifecycleService_TransitionTaskStatus_Reopen(t *testing.T) {
	f := newLifecycleFixture(t)
	stamp := testNow.Add(-24 * time.Hour)

	f.lockedTask(model.LockedTask{
		Task:          model.JobTask{ID: "t-1", Status: model.TaskStatusCompleted, CompletedAt: &stamp},
		JobAssignedTo: strPtr(techCaller.UserID),
	})
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	tr, err := f.svc.TransitionTaskStatus(context.Background(), "t-1", "NOT_STARTED", techCaller)
	require.NoError(t, err)
	assert.Nil(t, tr.CompletedAt)
}

func TestLifecycleService_TransitionTaskStatus_Refused(t *testing.T) {
	tests := []struct {
		name     string
		caller   string
		assignee *string
	}{
		{"other technician", "tech-2", strPtr("tech-1")},
		{"unassigned job", "tech-1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLifecycleFixture(t)
			f.lockedTask(model.LockedTask{
				Task:          model.JobTask{ID: "t-1", Status: model.TaskStatusNotStarted},
				JobAssignedTo: tt.assignee,
			})

			caller := techCaller
			caller.UserID = tt.caller
			_, err := f.svc.TransitionTaskStatus(context.Background(), "t-1", "IN_PROGRESS", caller)
			require.Error(t, err)
			assert.True(t, apperrors.IsForbidden(err))
			assert.Equal(t, "error", f.sink.lastTags("lifecycle.transition")["result"])
		})
	}
}

func TestLifecycleService_TransitionTaskStatus_AdminRefused(t *testing.T) {
	f := newLifecycleFixture(t)
	f.lockedTask(model.LockedTask{
		Task:          model.JobTask{ID: "t-1", Status: model.TaskStatusNotStarted},
		JobAssignedTo: strPtr("tech-1"),
	})

	_, err := f.svc.TransitionTaskStatus(context.Background(), "t-1", "IN_PROGRESS", adminCaller)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestLifecycleService_TransitionTaskStatus_InvalidStatus(t *testing.T) {
	f := newLifecycleFixture(t)

	_, err := f.svc.TransitionTaskStatus(context.Background(), "t-1", "done", techCaller)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidStatus(err))
}

func TestLifecycleService_TransitionTaskStatus_NotFound(t *testing.T) {
	f := newLifecycleFixture(t)
	f.repo.EXPECT().TransitionTask(gomock.Any(), "missing", gomock.Any()).Return(nil, apperrors.NotFound("Task not found"))

	_, err := f.svc.TransitionTaskStatus(context.Background(), "missing", "COMPLETED", techCaller)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLifecycleService_TransitionTaskStatus_PublishFailureIgnored(t *testing.T) {
	f := newLifecycleFixture(t)
	f.lockedTask(model.LockedTask{
		Task:          model.JobTask{ID: "t-1", Status: model.TaskStatusNotStarted},
		JobAssignedTo: strPtr(techCaller.UserID),
	})
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	tr, err := f.svc.TransitionTaskStatus(context.Background(), "t-1", "IN_PROGRESS", techCaller)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, tr.Current)
}

func TestLifecycleService_TransitionJobStatus_CompletionGate(t *testing.T) {
	f := newLifecycleFixture(t)
	f.lockedJob(model.LockedJob{
		Job: model.Job{ID: "j-1", Status: model.JobStatusInProgress, AssignedTo: strPtr("tech-1")},
		Tasks: []model.JobTask{
			{ID: "t-1", Title: "Survey", Status: model.TaskStatusCompleted},
			{ID: "t-2", Title: "Install", Status: model.TaskStatusInProgress},
			{ID: "t-3", Title: "Clean up", Status: model.TaskStatusNotStarted},
		},
	}, true)

	_, err := f.svc.TransitionJobStatus(context.Background(), "j-1", "COMPLETED", adminCaller)
	require.Error(t, err)
	assert.True(t, apperrors.IsPreconditionFailed(err))

	blocking := apperrors.GetIncompleteTasks(err)
	require.Len(t, blocking, 2)
	assert.Equal(t, "t-2", blocking[0].ID)
	assert.Equal(t, model.TaskStatusNotStarted, blocking[1].Status)
}

func TestLifecycleService_TransitionJobStatus_Completes(t *testing.T) {
	f := newLifecycleFixture(t)
	f.lockedJob(model.LockedJob{
		Job:   model.Job{ID: "j-1", Title: "Rooftop", ClientName: "Acme", Status: model.JobStatusInProgress},
		Tasks: []model.JobTask{{ID: "t-1", Status: model.TaskStatusCompleted}},
	}, true)
	f.events.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evt model.DomainEvent) error {
			assert.Equal(t, model.EventJobStatusChanged, evt.Type)
			payload, ok := evt.Payload.(*model.JobTransition)
			require.True(t, ok)
			assert.Equal(t, "Acme", payload.ClientName)
			return nil
		})

	tr, err := f.svc.TransitionJobStatus(context.Background(), "j-1", "COMPLETED", salesCaller)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusInProgress, tr.Previous)
	assert.Equal(t, model.JobStatusCompleted, tr.Current)
}

func TestLifecycleService_TransitionJobStatus_NoTasksCompletable(t *testing.T) {
	f := newLifecycleFixture(t)
	f.lockedJob(model.LockedJob{Job: model.Job{ID: "j-1", Status: model.JobStatusPending}}, true)
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	_, err := f.svc.TransitionJobStatus(context.Background(), "j-1", "COMPLETED", adminCaller)
	require.NoError(t, err)
}

func TestLifecycleService_TransitionJobStatus_Technician(t *testing.T) {
	t.Run("assignee may cancel", func(t *testing.T) {
		f := newLifecycleFixture(t)
		f.lockedJob(model.LockedJob{
			Job: model.Job{ID: "j-1", Status: model.JobStatusInProgress, AssignedTo: strPtr(techCaller.UserID)},
		}, false)
		f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		tr, err := f.svc.TransitionJobStatus(context.Background(), "j-1", "CANCELLED", techCaller)
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusCancelled, tr.Current)
	})

	t.Run("other technician refused", func(t *testing.T) {
		f := newLifecycleFixture(t)
		f.lockedJob(model.LockedJob{
			Job: model.Job{ID: "j-1", Status: model.JobStatusInProgress, AssignedTo: strPtr("tech-9")},
		}, false)

		_, err := f.svc.TransitionJobStatus(context.Background(), "j-1", "PENDING", techCaller)
		assert.True(t, apperrors.IsForbidden(err))
	})
}

func TestLifecycleService_TransitionJobStatus_InvalidStatus(t *testing.T) {
	f := newLifecycleFixture(t)

	_, err := f.svc.TransitionJobStatus(context.Background(), "j-1", "pending", adminCaller)
	assert.True(t, apperrors.IsInvalidStatus(err))
}
