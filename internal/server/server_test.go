package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/tasktracker/internal/server/config"
	"github.com/iudanet/tasktracker/pkg/api"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Address = "127.0.0.1:0"
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.DSN = ":memory:"
	cfg.Session.Path = filepath.Join(t.TempDir(), "sessions.db")
	cfg.Auth.Secret = "test-secret"
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.Server.ShutdownTimeout = 5 * time.Second
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	srv, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func call(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func login(t *testing.T, h http.Handler, username, email string) string {
	t.Helper()

	w := call(t, h, http.MethodPost, "/api/register", "", api.RegisterRequest{Username: username, Email: email, Password: "pw"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, h, http.MethodPost, "/api/login", "", api.LoginRequest{Username: username, Password: "pw"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[api.TokenResponse](t, w).Token
}

func TestServer_APIScenario(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()

	alice := login(t, h, "alice", "a@x.io")
	bob := login(t, h, "bob", "b@x.io")

	w := call(t, h, http.MethodPost, "/api/todos", alice, api.TodoRequest{Name: "Buy milk", Description: "2L", Completed: false})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	todo := decode[api.Todo](t, w)
	assert.Equal(t, "Buy milk", todo.Name)
	assert.False(t, bool(todo.Completed))

	w = call(t, h, http.MethodGet, "/api/todos", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[api.TodoListResponse](t, w).Todos, 1)

	w = call(t, h, http.MethodGet, "/api/todos", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[api.TodoListResponse](t, w).Todos)

	w = call(t, h, http.MethodPut, "/api/todos/"+todo.ID, bob, api.TodoRequest{Name: "x", Description: "y", Completed: true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(t, h, http.MethodDelete, "/api/todos/"+todo.ID, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(t, h, http.MethodDelete, "/api/todos/"+todo.ID, alice, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = call(t, h, http.MethodDelete, "/api/todos/"+todo.ID, alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_RequiresBearerToken(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()

	w := call(t, h, http.MethodGet, "/api/todos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(t, h, http.MethodGet, "/api/todos", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServer_RequestIDAndHealth(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "ok", decode[api.HealthResponse](t, w).Status)
}

func TestServer_PagesMounted(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()

	w := call(t, h, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	w = call(t, h, http.MethodGet, "/add_todo", "", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.Requests = 2
	cfg.RateLimit.Window = time.Minute
	h := newTestServer(t, cfg).Handler()

	creds := api.LoginRequest{Username: "ghost", Password: "pw"}
	for range 2 {
		w := call(t, h, http.MethodPost, "/api/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := call(t, h, http.MethodPost, "/api/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Остальные маршруты лимитом не покрыты
	w = call(t, h, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_RateLimitProxyHeaders(t *testing.T) {
	login := func(h http.Handler, forwarded string) int {
		data, err := json.Marshal(api.LoginRequest{Username: "ghost", Password: "pw"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(data))
		req.Header.Set("X-Forwarded-For", forwarded)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	cfg := testConfig(t)
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.Requests = 1
	cfg.RateLimit.Window = time.Minute

	// Без доверия к прокси смена заголовка не обходит лимит
	h := newTestServer(t, cfg).Handler()
	assert.Equal(t, http.StatusUnauthorized, login(h, "203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, login(h, "203.0.113.2"))

	trusted := testConfig(t)
	trusted.RateLimit = cfg.RateLimit
	trusted.Server.TrustProxyHeaders = true
	h = newTestServer(t, trusted).Handler()
	assert.Equal(t, http.StatusUnauthorized, login(h, "203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, login(h, "203.0.113.1"))
	assert.Equal(t, http.StatusUnauthorized, login(h, "203.0.113.2"))
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestOpenStore_UnsupportedDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), config.DatabaseConfig{Driver: "oracle", DSN: "x"})
	assert.ErrorContains(t, err, "unsupported database driver")
}
