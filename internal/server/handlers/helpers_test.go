package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/tasktracker/internal/crypto"
	"github.com/iudanet/tasktracker/internal/models"
	"github.com/iudanet/tasktracker/internal/server/service"
	"github.com/iudanet/tasktracker/internal/server/storage/sqlstore"
	"github.com/iudanet/tasktracker/internal/server/token"
	"github.com/iudanet/tasktracker/internal/validation"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	return slog.New(slog.NewTextHandler(io.Discard, opts))
}

type testEnv struct {
	store    *sqlstore.Storage
	accounts *service.AccountService
	auth     *AuthHandler
	tasks    *TaskHandler
	mux      *http.ServeMux
}

// setupTestEnv собирает handlers поверх in-memory sqlite.
// Bearer аутентификация эмулируется requireUser.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlstore.New(context.Background(), sqlstore.DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	codec, err := token.NewCodec(token.Config{Secret: []byte("test-secret"), TTL: time.Hour})
	require.NoError(t, err)

	schemas, err := validation.NewSchemaValidator()
	require.NoError(t, err)

	logger := setupTestLogger()
	accounts := service.NewAccountService(logger, store, codec, crypto.NewPasswordHasher(bcrypt.MinCost))
	tasks := service.NewTaskService(logger, store)

	env := &testEnv{
		store:    store,
		accounts: accounts,
		auth:     NewAuthHandler(logger, accounts, schemas),
		tasks:    NewTaskHandler(logger, tasks, schemas),
		mux:      http.NewServeMux(),
	}

	env.mux.HandleFunc("POST /api/register", env.auth.Register)
	env.mux.HandleFunc("POST /api/login", env.auth.Login)
	env.mux.Handle("GET /api/todos", env.requireUser(env.tasks.List))
	env.mux.Handle("POST /api/todos", env.requireUser(env.tasks.Create))
	env.mux.Handle("GET /api/todos/{id}", env.requireUser(env.tasks.Get))
	env.mux.Handle("PUT /api/todos/{id}", env.requireUser(env.tasks.Update))
	env.mux.Handle("DELETE /api/todos/{id}", env.requireUser(env.tasks.Delete))

	return env
}

// requireUser кладет в контекст пользователя из bearer токена
func (e *testEnv) requireUser(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		header := r.Header.Get("Authorization")
		if len(header) > len(prefix) {
			if user, err := e.accounts.ResolveToken(r.Context(), header[len(prefix):]); err == nil {
				r = r.WithContext(WithUser(r.Context(), user))
			}
		}
		next(w, r)
	})
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, req)
	return w
}

// signup регистрирует пользователя и возвращает его токен
func (e *testEnv) signup(t *testing.T, username, email string) (*models.User, string) {
	t.Helper()

	ctx := context.Background()
	user, err := e.accounts.Register(ctx, service.RegisterInput{Username: username, Email: email, Password: "pw"})
	require.NoError(t, err)

	result, err := e.accounts.Login(ctx, service.Credentials{Username: username, Password: "pw"})
	require.NoError(t, err)

	return user, result.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}
