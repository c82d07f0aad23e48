package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	apperrors "github.com/target/jobops-api/internal/errors"
	"github.com/target/jobops-api/internal/service"
)

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func newAuthHandlers(svc *fakeAuth) *AuthHandlers {
	return &AuthHandlers{Svc: svc, Auth: Authenticator{Sessions: svc}}
}

func TestAuthHandlers_LoginSetsCookiesAndRedirects(t *testing.T) {
	var gotRedirect string
	svc := &fakeAuth{beginFunc: func(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
		gotRedirect = redirectURL
		return &service.BeginLoginResult{AuthURL: "https://idp.example.com/authorize", State: "s1", Nonce: "n1"}, nil
	}}
	h := newAuthHandlers(svc)

	rec := doRequest(t, http.HandlerFunc(h.Login),
		httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=https://evil.example.com", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://idp.example.com/authorize", rec.Header().Get("Location"))
	assert.Equal(t, "/", gotRedirect, "absolute redirects are replaced")
	require.NotNil(t, cookieByName(rec, "oauth_state"))
	assert.Equal(t, "s1", cookieByName(rec, "oauth_state").Value)
	assert.Equal(t, "n1", cookieByName(rec, "oauth_nonce").Value)
	assert.Equal(t, "/", cookieByName(rec, "post_login_redirect").Value)
}

func TestAuthHandlers_CallbackRejectsStateMismatch(t *testing.T) {
	h := newAuthHandlers(&fakeAuth{})
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c&state=other", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "n1"})

	rec := doRequest(t, http.HandlerFunc(h.Callback), req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_state")
}

func TestAuthHandlers_CallbackCompletesLogin(t *testing.T) {
	svc := &fakeAuth{completeFunc: func(_ context.Context, in service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
		assert.Equal(t, service.CompleteLoginInput{Code: "c", State: "s1", Nonce: "n1"}, in)
		return &service.CompleteLoginResult{Session: domainauth.Session{
			ID:        "new-session",
			UserID:    "tech-1",
			Role:      domainauth.RoleTechnician,
			ExpiresAt: time.Now().Add(time.Hour),
		}}, nil
	}}
	h := newAuthHandlers(svc)
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "n1"})
	req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/dashboard"})

	rec := doRequest(t, http.HandlerFunc(h.Callback), req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	session := cookieByName(rec, "session_id")
	require.NotNil(t, session)
	assert.Equal(t, "new-session", session.Value)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, -1, cookieByName(rec, "oauth_state").MaxAge)
}

func TestAuthHandlers_CallbackForbiddenLogin(t *testing.T) {
	svc := &fakeAuth{completeFunc: func(context.Context, service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
		return nil, apperrors.Forbidden("no role is mapped for this account")
	}}
	h := newAuthHandlers(svc)
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "n1"})

	rec := doRequest(t, http.HandlerFunc(h.Callback), req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, cookieByName(rec, "session_id"))
}

func TestAuthHandlers_Logout(t *testing.T) {
	svc := &fakeAuth{}
	h := newAuthHandlers(svc)
	h.LogoutURL = "https://idp.example.com/logout"

	rec := doRequest(t, http.HandlerFunc(h.Logout),
		asSession(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), salesSession))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"sess-sales"}, svc.logouts)
	assert.JSONEq(t, `{"status":"success","redirect_to":"https://idp.example.com/logout"}`, rec.Body.String())
	assert.Equal(t, -1, cookieByName(rec, "session_id").MaxAge)
}

func TestAuthHandlers_Status(t *testing.T) {
	h := newAuthHandlers(&fakeAuth{})

	rec := doRequest(t, http.HandlerFunc(h.Status),
		asSession(httptest.NewRequest(http.MethodGet, "/auth/status", nil), techSession))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)
	assert.Contains(t, rec.Body.String(), `"role":"TECHNICIAN"`)

	stale := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	stale.AddCookie(&http.Cookie{Name: "session_id", Value: "expired"})
	rec = doRequest(t, http.HandlerFunc(h.Status), stale)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
	assert.Equal(t, -1, cookieByName(rec, "session_id").MaxAge)
}

func TestSafeRedirectPath(t *testing.T) {
	assert.Equal(t, "/jobs?x=1", safeRedirectPath("/jobs?x=1"))
	assert.Equal(t, "/", safeRedirectPath(""))
	assert.Equal(t, "/", safeRedirectPath("//evil.example.com"))
	assert.Equal(t, "/", safeRedirectPath("https://evil.example.com/x"))
	assert.Equal(t, "/", safeRedirectPath("relative"))
}
