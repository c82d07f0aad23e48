package devauth

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobops-api/internal/ports"
)

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(Config{Email: "dev@example.com"})
	require.Error(t, err)
	_, err = NewProvider(Config{Username: "dev"})
	require.Error(t, err)
}

func TestProvider_BeginAndExchange(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	prov, err := NewProvider(Config{
		Username:  "dev-tech",
		FirstName: "Dana",
		LastName:  "Field",
		Email:     "dev@example.com",
		Groups:    []string{"jobops-technicians"},
		Now:       func() time.Time { return now },
	})
	require.NoError(t, err)

	authURL, state, nonce, err := prov.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(authURL, "/auth/callback?"), authURL)
	require.Len(t, state, 24)
	require.Len(t, nonce, 24)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "dev", u.Query().Get("code"))
	assert.Equal(t, state, u.Query().Get("state"))

	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	require.NoError(t, err)
	assert.Equal(t, "dev-tech", id.UserID)
	assert.Equal(t, "Dana", id.FirstName)
	assert.Equal(t, []string{"jobops-technicians"}, id.Groups)
	assert.Equal(t, now.Add(8*time.Hour), id.ExpiresAt)

	// callers cannot mutate the configured groups through a returned identity
	id.Groups[0] = "jobops-admins"
	again, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev"})
	require.NoError(t, err)
	assert.Equal(t, []string{"jobops-technicians"}, again.Groups)
}

func TestProvider_ExchangeRequiresCode(t *testing.T) {
	prov, err := NewProvider(Config{Username: "dev", Email: "dev@example.com"})
	require.NoError(t, err)
	_, err = prov.Exchange(context.Background(), ports.ExchangeInput{})
	require.Error(t, err)
}
