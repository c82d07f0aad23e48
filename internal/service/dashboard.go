package service

import (
	"context"
	"fmt"

	"github.com/target/jobops-api/internal/core"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/lifecycle"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

// DashboardService builds the technician dashboard.
type DashboardService struct {
	repo  core.DashboardRepository
	clock Clock
}

// NewDashboardService constructs a new DashboardService. A nil clock uses time.Now.
func NewDashboardService(repo core.DashboardRepository, clock Clock) *DashboardService {
	if repo == nil {
		panic("DashboardRepository is required")
	}
	return &DashboardService{repo: repo, clock: clock}
}

// ForTechnician groups the caller's jobs into today, upcoming, overdue and
// unscheduled buckets. It is computed on every call from the scheduled dates,
// independent of the persisted overdue flag.
func (s *DashboardService) ForTechnician(
	ctx context.Context,
	caller domainauth.Principal,
) (*model.TechnicianDashboard, error) {
	if !domainauth.CanViewDashboard(caller.Role) {
		return nil, apperrors.Forbidden("This endpoint is only for technicians")
	}
	jobs, err := s.repo.TechnicianJobs(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("load technician jobs: %w", err)
	}
	dash := lifecycle.BuildDashboard(s.clock.now(), jobs)
	return &dash, nil
}
