package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
	apperrors "github.com/target/jobops-api/internal/errors"
	"github.com/target/jobops-api/internal/mocks"
	authmocks "github.com/target/jobops-api/internal/mocks/auth"
	"github.com/target/jobops-api/internal/ports"
	"go.uber.org/mock/gomock"
)

// mockSessionStore is a test helper for testing session store errors.
type mockSessionStore struct {
	saveFunc   func(context.Context, domainauth.Session) error
	getFunc    func(context.Context, string) (domainauth.Session, error)
	deleteFunc func(context.Context, string) error
}

func (m *mockSessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, sess)
	}
	return nil
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return domainauth.Session{}, nil
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockSessionStore) DeleteByUser(context.Context, string) (int, error) { return 0, nil }

var _ ports.SessionStore = (*mockSessionStore)(nil)

var testRoles = authmocks.StaticRoleMapper{
	AdminGroup:      "jobops-admins",
	SalesAgentGroup: "jobops-sales",
	TechnicianGroup: "jobops-technicians",
}

type authFixture struct {
	provider *authmocks.MockAuthProvider
	sessions ports.SessionStore
	users    *mocks.MockUserRepository
	svc      *AuthService
}

func newAuthFixture(t *testing.T, sessions ports.SessionStore) *authFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	if sessions == nil {
		sessions = authmocks.NewMemorySessionStore()
	}
	f := &authFixture{
		provider: authmocks.NewMockAuthProvider(),
		sessions: sessions,
		users:    mocks.NewMockUserRepository(ctrl),
	}
	f.svc = NewAuthService(AuthServiceOptions{
		Provider: f.provider,
		Sessions: f.sessions,
		Roles:    testRoles,
		Users:    f.users,
	})
	return f
}

var validLogin = CompleteLoginInput{Code: "code", State: "state-1", Nonce: "nonce-1"}

func TestAuthService_BeginLogin(t *testing.T) {
	f := newAuthFixture(t, nil)

	res, err := f.svc.BeginLogin(context.Background(), "http://localhost/auth/callback")
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", res.AuthURL)
	assert.Equal(t, "state-1", res.State)
	assert.Equal(t, "nonce-1", res.Nonce)

	_, err = f.svc.BeginLogin(context.Background(), "")
	require.ErrorContains(t, err, "redirect URL is required")
}

func TestAuthService_BeginLogin_ProviderError(t *testing.T) {
	f := newAuthFixture(t, nil)
	f.provider.BeginFunc = func(context.Context, ports.BeginInput) (string, string, string, error) {
		return "", "", "", errors.New("idp down")
	}
	_, err := f.svc.BeginLogin(context.Background(), "http://localhost/auth/callback")
	require.ErrorContains(t, err, "begin auth flow")
}

func TestAuthService_CompleteLogin_FirstLoginCreatesUser(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	f.users.EXPECT().GetByUsername(ctx, "mock-user-1").Return(nil, apperrors.NotFound("User not found"))
	f.users.EXPECT().
		UpsertByUsername(ctx, &model.CreateUserRequest{
			Username:  "mock-user-1",
			Email:     "mock.user@example.com",
			FirstName: "Mock",
			LastName:  "User",
			Role:      domainauth.RoleTechnician,
		}).
		Return(&model.User{
			ID:        "u-1",
			Username:  "mock-user-1",
			Email:     "mock.user@example.com",
			FirstName: "Mock",
			LastName:  "User",
			Role:      domainauth.RoleTechnician,
			IsActive:  true,
		}, nil)

	res, err := f.svc.CompleteLogin(ctx, validLogin)
	require.NoError(t, err)
	assert.Equal(t, "u-1", res.Session.UserID)
	assert.Equal(t, "mock-user-1", res.Session.Username)
	assert.Equal(t, domainauth.RoleTechnician, res.Session.Role)
	assert.Equal(t, "Mock", res.Session.FirstName)
	assert.NotEmpty(t, res.Session.ID)

	stored, err := f.sessions.Get(ctx, res.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Session, stored)
}

func TestAuthService_CompleteLogin_ExistingUserKeepsRole(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()
	f.provider.DefaultUser.Groups = []string{"jobops-admins"}

	existing := &model.User{ID: "u-9", Username: "mock-user-1", Role: domainauth.RoleSalesAgent, IsActive: true}
	f.users.EXPECT().GetByUsername(ctx, "mock-user-1").Return(existing, nil)
	f.users.EXPECT().
		UpsertByUsername(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateUserRequest) (*model.User, error) {
			assert.Equal(t, domainauth.RoleSalesAgent, req.Role)
			return existing, nil
		})

	res, err := f.svc.CompleteLogin(ctx, validLogin)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleSalesAgent, res.Session.Role)
	assert.Equal(t, "u-9", res.Session.UserID)
}

func TestAuthService_CompleteLogin_Refused(t *testing.T) {
	t.Run("no mapped role", func(t *testing.T) {
		f := newAuthFixture(t, nil)
		f.provider.DefaultUser.Groups = []string{"everyone"}
		f.users.EXPECT().GetByUsername(gomock.Any(), "mock-user-1").Return(nil, apperrors.NotFound("User not found"))

		_, err := f.svc.CompleteLogin(context.Background(), validLogin)
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("deactivated account", func(t *testing.T) {
		f := newAuthFixture(t, nil)
		f.users.EXPECT().GetByUsername(gomock.Any(), "mock-user-1").
			Return(&model.User{ID: "u-1", Role: domainauth.RoleTechnician, IsActive: false}, nil)

		_, err := f.svc.CompleteLogin(context.Background(), validLogin)
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("lookup failure", func(t *testing.T) {
		f := newAuthFixture(t, nil)
		f.users.EXPECT().GetByUsername(gomock.Any(), "mock-user-1").Return(nil, errors.New("db down"))

		_, err := f.svc.CompleteLogin(context.Background(), validLogin)
		require.ErrorContains(t, err, "lookup user")
	})
}

func TestAuthService_CompleteLogin_InputValidation(t *testing.T) {
	tests := []struct {
		name  string
		input CompleteLoginInput
		want  string
	}{
		{"missing code", CompleteLoginInput{State: "s", Nonce: "n"}, "authorization code is required"},
		{"missing state", CompleteLoginInput{Code: "c", Nonce: "n"}, "state parameter is required"},
		{"missing nonce", CompleteLoginInput{Code: "c", State: "s"}, "nonce parameter is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t, nil)
			_, err := f.svc.CompleteLogin(context.Background(), tt.input)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestAuthService_CompleteLogin_ExchangeError(t *testing.T) {
	f := newAuthFixture(t, nil)
	f.provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("bad code")
	}
	_, err := f.svc.CompleteLogin(context.Background(), validLogin)
	require.ErrorContains(t, err, "exchange authorization code")
}

func TestAuthService_CompleteLogin_SessionSaveError(t *testing.T) {
	f := newAuthFixture(t, &mockSessionStore{
		saveFunc: func(context.Context, domainauth.Session) error { return errors.New("redis down") },
	})
	f.users.EXPECT().GetByUsername(gomock.Any(), gomock.Any()).
		Return(&model.User{ID: "u-1", Role: domainauth.RoleAdmin, IsActive: true}, nil)
	f.users.EXPECT().UpsertByUsername(gomock.Any(), gomock.Any()).
		Return(&model.User{ID: "u-1", Role: domainauth.RoleAdmin, IsActive: true}, nil)

	_, err := f.svc.CompleteLogin(context.Background(), validLogin)
	require.ErrorContains(t, err, "save session")
}

func TestAuthService_GetSession(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	sess := domainauth.Session{ID: "s-1", UserID: "u-1", Role: domainauth.RoleAdmin, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, f.sessions.Save(ctx, sess))

	got, err := f.svc.GetSession(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, sess, *got)

	_, err = f.svc.GetSession(ctx, "")
	require.ErrorContains(t, err, "session ID is required")

	_, err = f.svc.GetSession(ctx, "missing")
	require.ErrorIs(t, err, authmocks.ErrNotFound)
}

func TestAuthService_GetSession_Expired(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.sessions.Save(ctx, domainauth.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)}))

	_, err := f.svc.GetSession(ctx, "old")
	require.ErrorIs(t, err, errSessionExpired)

	_, err = f.sessions.Get(ctx, "old")
	assert.Equal(t, authmocks.ErrNotFound, err, "expired session is removed")
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.sessions.Save(ctx, domainauth.Session{ID: "s-1", ExpiresAt: time.Now().Add(time.Hour)}))

	require.NoError(t, f.svc.Logout(ctx, "s-1"))
	_, err := f.sessions.Get(ctx, "s-1")
	assert.Equal(t, authmocks.ErrNotFound, err)

	require.NoError(t, f.svc.Logout(ctx, ""))
}

func TestAuthService_Logout_DeleteError(t *testing.T) {
	f := newAuthFixture(t, &mockSessionStore{
		deleteFunc: func(context.Context, string) error { return errors.New("redis down") },
	})
	require.ErrorContains(t, f.svc.Logout(context.Background(), "s-1"), "delete session")
}

func TestGenerateSessionID(t *testing.T) {
	a, b := generateSessionID(), generateSessionID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
