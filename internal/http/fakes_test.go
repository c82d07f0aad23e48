package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
	"github.com/target/jobops-api/internal/service"
)

var errNotImplemented = errors.New("not implemented")

var (
	adminSession = domainauth.Session{ID: "sess-admin", UserID: "admin-1", Role: domainauth.RoleAdmin}
	salesSession = domainauth.Session{ID: "sess-sales", UserID: "sales-1", Role: domainauth.RoleSalesAgent}
	techSession  = domainauth.Session{ID: "sess-tech", UserID: "tech-1", Role: domainauth.RoleTechnician}
)

// fakeAuth resolves the session ids above and records logouts.
type fakeAuth struct {
	beginFunc    func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	completeFunc func(ctx context.Context, in service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	logouts      []string
}

func (f *fakeAuth) BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if f.beginFunc != nil {
		return f.beginFunc(ctx, redirectURL)
	}
	return &service.BeginLoginResult{
		AuthURL: "https://idp.example.com/authorize?state=test-state",
		State:   "test-state",
		Nonce:   "test-nonce",
	}, nil
}

func (f *fakeAuth) CompleteLogin(ctx context.Context, in service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
	if f.completeFunc != nil {
		return f.completeFunc(ctx, in)
	}
	return nil, errNotImplemented
}

func (f *fakeAuth) GetSession(_ context.Context, id string) (*domainauth.Session, error) {
	for _, s := range []domainauth.Session{adminSession, salesSession, techSession} {
		if s.ID == id {
			s.ExpiresAt = time.Now().Add(time.Hour)
			return &s, nil
		}
	}
	return nil, errors.New("session not found")
}

func (f *fakeAuth) Logout(_ context.Context, id string) error {
	f.logouts = append(f.logouts, id)
	return nil
}

// fakeTokens accepts "token-<session id>".
type fakeTokens struct{}

func (fakeTokens) Verify(ctx context.Context, raw string) (domainauth.Session, error) {
	id, ok := strings.CutPrefix(raw, "token-")
	if !ok {
		return domainauth.Session{}, errors.New("bad token")
	}
	s, err := (&fakeAuth{}).GetSession(ctx, id)
	if err != nil {
		return domainauth.Session{}, err
	}
	return *s, nil
}

type fakeJobs struct {
	createFunc func(ctx context.Context, caller domainauth.Principal, req *model.CreateJobRequest) (*model.Job, error)
	listFunc   func(ctx context.Context, caller domainauth.Principal, opts model.JobListOptions) ([]*model.Job, error)
	deleteFunc func(ctx context.Context, caller domainauth.Principal, id string) (bool, error)
}

func (f *fakeJobs) Create(ctx context.Context, caller domainauth.Principal, req *model.CreateJobRequest) (*model.Job, error) {
	return f.createFunc(ctx, caller, req)
}

func (f *fakeJobs) GetByID(_ context.Context, _ domainauth.Principal, id string) (*model.Job, error) {
	return &model.Job{ID: id, Title: "Replace rooftop unit", Status: model.JobStatusPending}, nil
}

func (f *fakeJobs) List(ctx context.Context, caller domainauth.Principal, opts model.JobListOptions) ([]*model.Job, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx, caller, opts)
	}
	return nil, nil
}

func (f *fakeJobs) Update(context.Context, domainauth.Principal, string, model.UpdateJobRequest) (*model.Job, error) {
	return nil, errNotImplemented
}

func (f *fakeJobs) Delete(ctx context.Context, caller domainauth.Principal, id string) (bool, error) {
	return f.deleteFunc(ctx, caller, id)
}

type fakeLifecycle struct {
	taskFunc func(ctx context.Context, taskID, status string, caller domainauth.Principal) (*model.TaskTransition, error)
	jobFunc  func(ctx context.Context, jobID, status string, caller domainauth.Principal) (*model.JobTransition, error)
}

func (f *fakeLifecycle) TransitionTaskStatus(
	ctx context.Context,
	taskID, status string,
	caller domainauth.Principal,
) (*model.TaskTransition, error) {
	return f.taskFunc(ctx, taskID, status, caller)
}

func (f *fakeLifecycle) TransitionJobStatus(
	ctx context.Context,
	jobID, status string,
	caller domainauth.Principal,
) (*model.JobTransition, error) {
	return f.jobFunc(ctx, jobID, status, caller)
}

type fakeRequirements struct {
	setFunc    func(ctx context.Context, caller domainauth.Principal, taskID string, in []model.RequirementInput) ([]model.TaskEquipment, error)
	removeFunc func(ctx context.Context, caller domainauth.Principal, taskID, equipmentID string) (bool, error)
}

func (f *fakeRequirements) Set(
	ctx context.Context,
	caller domainauth.Principal,
	taskID string,
	in []model.RequirementInput,
) ([]model.TaskEquipment, error) {
	return f.setFunc(ctx, caller, taskID, in)
}

func (f *fakeRequirements) Add(context.Context, domainauth.Principal, string, model.RequirementInput) (*model.TaskEquipment, error) {
	return nil, errNotImplemented
}

func (f *fakeRequirements) List(context.Context, domainauth.Principal, string) ([]model.TaskEquipment, error) {
	return nil, nil
}

func (f *fakeRequirements) Remove(ctx context.Context, caller domainauth.Principal, taskID, equipmentID string) (bool, error) {
	return f.removeFunc(ctx, caller, taskID, equipmentID)
}

type fakeSweep struct {
	runs     int
	previews int
}

func (f *fakeSweep) RunAs(_ context.Context, caller domainauth.Principal) (model.SweepResult, error) {
	if !domainauth.CanRunSweep(caller.Role) {
		return model.SweepResult{}, errors.New("unexpected RunAs for non-admin")
	}
	f.runs++
	return model.SweepResult{MarkedOverdue: 2, ClearedOverdue: 1}, nil
}

func (f *fakeSweep) Preview(context.Context) (model.SweepResult, error) {
	f.previews++
	return model.SweepResult{MarkedOverdue: 5}, nil
}

// recordingSink captures counters emitted by the Metrics middleware.
type recordingSink struct {
	mu     sync.Mutex
	counts map[string][]map[string]string
}

func (s *recordingSink) Count(name string, _ int64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts == nil {
		s.counts = make(map[string][]map[string]string)
	}
	s.counts[name] = append(s.counts[name], tags)
}

func (s *recordingSink) Gauge(string, float64, map[string]string)        {}
func (s *recordingSink) Timing(string, time.Duration, map[string]string) {}

// doRequest serves one request through h and returns the recorder.
func doRequest(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// asSession attaches the session cookie of s to req.
func asSession(req *http.Request, s domainauth.Session) *http.Request {
	req.AddCookie(&http.Cookie{Name: "session_id", Value: s.ID})
	return req
}
