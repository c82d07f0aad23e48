package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
)

// DashboardService builds the technician dashboard.
type DashboardService interface {
	ForTechnician(ctx context.Context, caller domainauth.Principal) (*model.TechnicianDashboard, error)
}

// SweepService runs or previews the overdue sweep.
type SweepService interface {
	RunAs(ctx context.Context, caller domainauth.Principal) (model.SweepResult, error)
	Preview(ctx context.Context) (model.SweepResult, error)
}

// AnalyticsService aggregates job statistics.
type AnalyticsService interface {
	Jobs(ctx context.Context, caller domainauth.Principal) (*model.JobAnalytics, error)
}

// OpsHandlers serves the dashboard, sweep and analytics endpoints.
type OpsHandlers struct {
	Dashboard DashboardService
	Sweep     SweepService
	Analytics AnalyticsService
	Errors    ErrorRenderer
}

// TechnicianDashboard handles GET /api/technician/dashboard.
func (h *OpsHandlers) TechnicianDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Dashboard.ForTechnician(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, dash)
}

// RunSweep handles POST /api/sweep. With ?dry_run=true it reports what a run
// would change without writing.
func (h *OpsHandlers) RunSweep(w http.ResponseWriter, r *http.Request) {
	caller := PrincipalFromContext(r.Context())
	dryRun, err := parseBoolQuery(r, "dry_run")
	if err != nil {
		h.Errors.Render(w, r, apperrors.ValidationField("dry_run", err.Error()))
		return
	}

	var res model.SweepResult
	if dryRun != nil && *dryRun {
		if !domainauth.CanRunSweep(caller.Role) {
			h.Errors.Render(w, r, apperrors.Forbidden("Only admins can run the overdue sweep"))
			return
		}
		res, err = h.Sweep.Preview(r.Context())
	} else {
		res, err = h.Sweep.RunAs(r.Context(), caller)
	}
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// JobAnalytics handles GET /api/analytics/jobs.
func (h *OpsHandlers) JobAnalytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Analytics.Jobs(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		h.Errors.Render(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
