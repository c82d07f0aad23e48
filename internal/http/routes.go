package httpx

import (
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/target/jobops-api/internal/errors"
	"github.com/target/jobops-api/internal/observability/metrics"
	"github.com/target/jobops-api/internal/ports"
)

// RouterServices holds all the services needed by the HTTP router.
// Auth and Tokens are optional; without them only bearer or cookie auth
// respectively is accepted.
type RouterServices struct {
	Jobs         JobService
	Tasks        TaskService
	Requirements RequirementService
	Equipment    EquipmentService
	Users        UserService
	Lifecycle    LifecycleService
	Dashboard    DashboardService
	Sweep        SweepService
	Analytics    AnalyticsService

	Auth   AuthServiceInterface
	Tokens ports.TokenVerifier

	CookieDomain string
	LogoutURL    string

	// Metrics receives request counters; MetricsHandler, when set, is served at /metrics.
	Metrics        metrics.Sink
	MetricsHandler http.Handler
	// Ready lists the dependencies /readyz pings.
	Ready map[string]Pinger

	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter creates and configures the API router with its middleware chain.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	errs := ErrorRenderer{Logger: logger}

	authn := Authenticator{Tokens: services.Tokens, Logger: logger}
	if services.Auth != nil {
		authn.Sessions = services.Auth
	}
	protect := RequireAuth(authn)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)
	mux.Handle("GET /readyz", readyHandler(services.Ready))
	if services.MetricsHandler != nil {
		mux.Handle("GET /metrics", services.MetricsHandler)
	}

	if services.Auth != nil {
		registerAuthRoutes(mux, &AuthHandlers{
			Svc:          services.Auth,
			Auth:         authn,
			CookieDomain: services.CookieDomain,
			LogoutURL:    services.LogoutURL,
			Errors:       errs,
			Logger:       logger,
		})
	}

	api := router{mux: mux, mw: protect}
	registerJobRoutes(api, &JobHandlers{Svc: services.Jobs, Errors: errs})
	registerTaskRoutes(api, &TaskHandlers{Svc: services.Tasks, Requirements: services.Requirements, Errors: errs})
	registerEquipmentRoutes(api, &EquipmentHandlers{Svc: services.Equipment, Errors: errs})
	registerUserRoutes(api, &UserHandlers{Svc: services.Users, Errors: errs})
	registerLifecycleRoutes(api, &LifecycleHandlers{Svc: services.Lifecycle, Errors: errs})
	registerOpsRoutes(api, &OpsHandlers{
		Dashboard: services.Dashboard,
		Sweep:     services.Sweep,
		Analytics: services.Analytics,
		Errors:    errs,
	})
	mux.Handle("/api/", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errs.Render(w, r, apperrors.NotFound("route not found"))
	})))

	return Chain(mux,
		Recover(logger),
		Logging(logger),
		Timeout(services.RequestTimeout),
		Metrics(services.Metrics),
	)
}

// router registers handlers on mux behind mw.
type router struct {
	mux *http.ServeMux
	mw  Middleware
}

func (rt router) HandleFunc(pattern string, h http.HandlerFunc) {
	rt.mux.Handle(pattern, rt.mw(h))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerJobRoutes(mux router, h *JobHandlers) {
	if h.Svc == nil {
		return
	}
	mux.HandleFunc("POST /api/jobs", h.Create)
	mux.HandleFunc("GET /api/jobs", h.List)
	mux.HandleFunc("GET /api/jobs/{id}", h.Get)
	mux.HandleFunc("PUT /api/jobs/{id}", h.Update)
	mux.HandleFunc("DELETE /api/jobs/{id}", h.Delete)
}

func registerTaskRoutes(mux router, h *TaskHandlers) {
	if h.Svc != nil {
		mux.HandleFunc("POST /api/jobs/{id}/tasks", h.Create)
		mux.HandleFunc("GET /api/jobs/{id}/tasks", h.ListByJob)
		mux.HandleFunc("GET /api/tasks/{id}", h.Get)
		mux.HandleFunc("PUT /api/tasks/{id}", h.Update)
		mux.HandleFunc("DELETE /api/tasks/{id}", h.Delete)
	}
	if h.Requirements != nil {
		mux.HandleFunc("PUT /api/tasks/{id}/equipment", h.SetEquipment)
		mux.HandleFunc("POST /api/tasks/{id}/equipment", h.AddEquipment)
		mux.HandleFunc("GET /api/tasks/{id}/equipment", h.ListEquipment)
		mux.HandleFunc("DELETE /api/tasks/{id}/equipment/{equipment_id}", h.RemoveEquipment)
	}
}

func registerEquipmentRoutes(mux router, h *EquipmentHandlers) {
	if h.Svc == nil {
		return
	}
	mux.HandleFunc("POST /api/equipment", h.Create)
	mux.HandleFunc("GET /api/equipment", h.List)
	mux.HandleFunc("GET /api/equipment/{id}", h.Get)
	mux.HandleFunc("PUT /api/equipment/{id}", h.Update)
	mux.HandleFunc("DELETE /api/equipment/{id}", h.Delete)
}

func registerUserRoutes(mux router, h *UserHandlers) {
	if h.Svc == nil {
		return
	}
	mux.HandleFunc("POST /api/users", h.Create)
	mux.HandleFunc("GET /api/users", h.List)
	mux.HandleFunc("GET /api/users/{id}", h.Get)
	mux.HandleFunc("PUT /api/users/{id}", h.Update)
	mux.HandleFunc("DELETE /api/users/{id}", h.Delete)
	mux.HandleFunc("GET /api/profile", h.Profile)
}

func registerLifecycleRoutes(mux router, h *LifecycleHandlers) {
	if h.Svc == nil {
		return
	}
	mux.HandleFunc("PATCH /api/jobs/{id}/status", h.JobStatus)
	mux.HandleFunc("PATCH /api/tasks/{id}/status", h.TaskStatus)
}

func registerOpsRoutes(mux router, h *OpsHandlers) {
	if h.Dashboard != nil {
		mux.HandleFunc("GET /api/technician/dashboard", h.TechnicianDashboard)
	}
	if h.Sweep != nil {
		mux.HandleFunc("POST /api/sweep", h.RunSweep)
	}
	if h.Analytics != nil {
		mux.HandleFunc("GET /api/analytics/jobs", h.JobAnalytics)
	}
}
