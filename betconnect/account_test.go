package betconnect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	loginBody        = `{"data":{"token":"tok-123"},"message":"Login successful"}`
	prefsBody        = `{"data":{"username":"trader","user_id":"u-1","gamstop_result":"N"}}`
	prefsGamstopBody = `{"data":{"username":"trader","user_id":"u-1","gamstop_result":"Y"}}`
	balanceBody      = `{"data":{"balance":10050}}`
)

// accountServer serves the three endpoints a successful login touches.
func accountServer(t *testing.T, preferences string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(loginBody))
	})
	mux.HandleFunc("/api/v2/get_user_preferences", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-123", r.Header.Get("X-AUTH-TOKEN"))
		w.Write([]byte(preferences))
	})
	mux.HandleFunc("/api/v2/get_balance", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(balanceBody))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestLogin(t *testing.T) {
	server := accountServer(t, prefsBody)
	loginAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	client := newTestClient(t, server, WithClock(func() time.Time { return loginAt }))

	result, err := client.Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "tok-123", result.Data.Token)
	assert.Equal(t, "Login successful", result.Message)
	assert.True(t, client.IsAuthenticated())

	prefs, ok := client.CachedPreferences()
	require.True(t, ok)
	assert.Equal(t, "u-1", prefs.UserID)

	balance, at, ok := client.CachedBalance()
	require.True(t, ok)
	assert.Equal(t, 100.50, balance.Pounds())
	assert.Equal(t, loginAt, at)
}

func TestLoginSendsCredentialHeaders(t *testing.T) {
	var seen atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/login", func(w http.ResponseWriter, r *http.Request) {
		seen.Store(true)
		username, password, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "trader", username)
		assert.Equal(t, "secret", password)
		assert.Equal(t, "api-key", r.Header.Get("X-API-KEY"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("X-AUTH-TOKEN"))
		w.Write([]byte(loginBody))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(prefsBody))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	_, err := client.Login(context.Background())
	require.NoError(t, err)
	assert.True(t, seen.Load())
}

func TestLoginRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid username or password"}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	_, err := client.Login(context.Background())

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "trader", authErr.Username)
	assert.Equal(t, "Invalid username or password", authErr.Message)

	// session is unchanged
	assert.False(t, client.IsAuthenticated())
	_, ok := client.session.currentToken()
	assert.False(t, ok)
}

func TestLoginMissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{},"message":"ok"}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	_, err := client.Login(context.Background())

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.False(t, client.IsAuthenticated())
}

func TestLoginGamstopFlagged(t *testing.T) {
	server := accountServer(t, prefsGamstopBody)
	client := newTestClient(t, server)

	_, err := client.Login(context.Background())

	var precondition *PreconditionError
	require.ErrorAs(t, err, &precondition)
	_, ok := client.CachedPreferences()
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	var logouts atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/logout", func(w http.ResponseWriter, r *http.Request) {
		logouts.Add(1)
		assert.Equal(t, "tok-123", r.Header.Get("X-AUTH-TOKEN"))
		w.Write([]byte(`{"message":"Logged out"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	client.session.recordLogin("tok-123", time.Now())

	require.NoError(t, client.Logout(context.Background()))
	assert.False(t, client.IsAuthenticated())
	assert.Equal(t, int32(1), logouts.Load())

	// a second logout never reaches the server
	require.NoError(t, client.Logout(context.Background()))
	assert.Equal(t, int32(1), logouts.Load())
}

func TestRefreshSessionToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/refresh_session_token", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"token":"tok-456"},"message":"Session extended"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	loginAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	now := loginAt
	client := newTestClient(t, server, WithClock(func() time.Time { return now }))
	client.session.recordLogin("tok-123", loginAt)

	now = loginAt.Add(10 * time.Minute)
	result, err := client.RefreshSessionToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-456", result.Data.Token)

	// the validity window restarts from the refresh
	token, ok := client.session.currentToken()
	require.True(t, ok)
	assert.Equal(t, "tok-456", token)
	assert.Equal(t, now.Add(defaultTokenValidity), client.session.tokenExpiry)
}

func TestUserPreferencesCachesSnapshot(t *testing.T) {
	server := accountServer(t, prefsBody)
	client := newTestClient(t, server)
	client.session.recordLogin("tok-123", time.Now())

	prefs, err := client.UserPreferences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "trader", prefs.Username)

	cached, ok := client.CachedPreferences()
	require.True(t, ok)
	assert.Equal(t, prefs.UserID, cached.UserID)
}
