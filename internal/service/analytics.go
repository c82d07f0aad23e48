package service

import (
	"context"
	"fmt"

	"github.com/target/jobops-api/internal/core"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
	"golang.org/x/sync/errgroup"
)

// AnalyticsService aggregates job and task counts for admins.
type AnalyticsService struct {
	repo  core.AnalyticsRepository
	clock Clock
}

// NewAnalyticsService constructs a new AnalyticsService. A nil clock uses time.Now.
func NewAnalyticsService(repo core.AnalyticsRepository, clock Clock) *AnalyticsService {
	if repo == nil {
		panic("AnalyticsRepository is required")
	}
	return &AnalyticsService{repo: repo, clock: clock}
}

// Jobs runs the grouped counts concurrently and derives the completion rate.
func (s *AnalyticsService) Jobs(ctx context.Context, caller domainauth.Principal) (*model.JobAnalytics, error) {
	if !domainauth.CanViewAnalytics(caller.Role) {
		return nil, apperrors.Forbidden("Only admins can view analytics")
	}

	var (
		byStatus, byPriority, tasks []model.StatusCount
		overdue                     int
		loads                       []model.TechnicianLoad
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		byStatus, err = s.repo.JobsByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		byPriority, err = s.repo.JobsByPriority(gctx)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = s.repo.TasksByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		overdue, err = s.repo.OverdueJobs(gctx)
		return err
	})
	g.Go(func() (err error) {
		loads, err = s.repo.TechnicianLoads(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("job analytics: %w", err)
	}

	out := &model.JobAnalytics{
		ByStatus:      make(map[model.JobStatus]int, len(model.JobStatuses)),
		ByPriority:    make(map[model.JobPriority]int, len(model.JobPriorities)),
		TasksByStatus: make(map[model.TaskStatus]int, len(model.TaskStatuses)),
		OverdueJobs:   overdue,
		Technicians:   loads,
		GeneratedAt:   s.clock.now(),
	}
	for _, st := range model.JobStatuses {
		out.ByStatus[st] = 0
	}
	for _, p := range model.JobPriorities {
		out.ByPriority[p] = 0
	}
	for _, st := range model.TaskStatuses {
		out.TasksByStatus[st] = 0
	}
	for _, c := range byStatus {
		out.ByStatus[model.JobStatus(c.Key)] = c.Count
		out.TotalJobs += c.Count
	}
	for _, c := range byPriority {
		out.ByPriority[model.JobPriority(c.Key)] = c.Count
	}
	for _, c := range tasks {
		out.TasksByStatus[model.TaskStatus(c.Key)] = c.Count
	}
	if out.Technicians == nil {
		out.Technicians = []model.TechnicianLoad{}
	}
	if out.TotalJobs > 0 {
		out.CompletionRate = float64(out.ByStatus[model.JobStatusCompleted]) / float64(out.TotalJobs)
	}
	return out, nil
}
