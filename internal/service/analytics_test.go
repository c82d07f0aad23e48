package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
	"github.com/target/jobops-api/internal/mocks"
	"go.uber.org/mock/gomock"
)

func expectAnalytics(repo *mocks.MockAnalyticsRepository, byStatus []model.StatusCount, loadsErr error) {
	repo.EXPECT().JobsByStatus(gomock.Any()).Return(byStatus, nil)
	repo.EXPECT().JobsByPriority(gomock.Any()).Return([]model.StatusCount{{Key: "HIGH", Count: 2}}, nil)
	repo.EXPECT().TasksByStatus(gomock.Any()).Return([]model.StatusCount{{Key: "COMPLETED", Count: 5}}, nil)
	repo.EXPECT().OverdueJobs(gomock.Any()).Return(1, nil)
	repo.EXPECT().TechnicianLoads(gomock.Any()).Return(nil, loadsErr)
}

func TestAnalyticsService_Jobs(t *testing.T) {
	repo := mocks.NewMockAnalyticsRepository(gomock.NewController(t))
	svc := NewAnalyticsService(repo, fixedClock)
	expectAnalytics(repo, []model.StatusCount{
		{Key: "COMPLETED", Count: 3},
		{Key: "PENDING", Count: 1},
	}, nil)

	out, err := svc.Jobs(context.Background(), adminCaller)
	require.NoError(t, err)
	assert.Equal(t, 4, out.TotalJobs)
	assert.InDelta(t, 0.75, out.CompletionRate, 1e-9)
	assert.Equal(t, 0, out.ByStatus[model.JobStatusCancelled])
	assert.Len(t, out.ByStatus, 4)
	assert.Equal(t, 2, out.ByPriority[model.JobPriorityHigh])
	assert.Equal(t, 0, out.TasksByStatus[model.TaskStatusNotStarted])
	assert.Equal(t, 1, out.OverdueJobs)
	assert.NotNil(t, out.Technicians)
	assert.Equal(t, testNow, out.GeneratedAt)
}

func TestAnalyticsService_Jobs_Empty(t *testing.T) {
	repo := mocks.NewMockAnalyticsRepository(gomock.NewController(t))
	svc := NewAnalyticsService(repo, fixedClock)
	expectAnalytics(repo, nil, nil)

	out, err := svc.Jobs(context.Background(), adminCaller)
	require.NoError(t, err)
	assert.Zero(t, out.TotalJobs)
	assert.Zero(t, out.CompletionRate)
}

func TestAnalyticsService_Jobs_Errors(t *testing.T) {
	repo := mocks.NewMockAnalyticsRepository(gomock.NewController(t))
	svc := NewAnalyticsService(repo, fixedClock)

	_, err := svc.Jobs(context.Background(), salesCaller)
	assert.True(t, apperrors.IsForbidden(err))

	expectAnalytics(repo, nil, errors.New("db down"))
	_, err = svc.Jobs(context.Background(), adminCaller)
	require.ErrorContains(t, err, "job analytics")
}
