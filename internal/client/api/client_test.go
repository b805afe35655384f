package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tasktracker/pkg/api"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:5000/")

	assert.Equal(t, "http://localhost:5000", client.BaseURL())
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestClient_Register(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req api.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, api.RegisterRequest{Username: "alice", Email: "a@x.io", Password: "pw"}, req)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(api.MessageResponse{Message: "User registered successfully!"})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Register(context.Background(),
		api.RegisterRequest{Username: "alice", Email: "a@x.io", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "User registered successfully!", resp.Message)
}

func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/login", r.URL.Path)

		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)

		_ = json.NewEncoder(w).Encode(api.TokenResponse{Token: "tok", Username: "alice", Email: "a@x.io"})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Login(context.Background(), api.LoginRequest{Username: "alice", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "a@x.io", resp.Email)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		handler   http.HandlerFunc
		name      string
		want      Error
		wantInMsg string
	}{
		{
			name: "json error with field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "Bad Request", Message: "Username already exists!", Field: "username"})
			},
			want:      Error{StatusCode: http.StatusBadRequest, Message: "Username already exists!", Field: "username"},
			wantInMsg: "Username already exists!",
		},
		{
			name: "unexpected with request id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "Internal Server Error", Message: "internal server error", RequestID: "req-1"})
			},
			want:      Error{StatusCode: http.StatusInternalServerError, Message: "internal server error", RequestID: "req-1"},
			wantInMsg: "request_id=req-1",
		},
		{
			name: "plain text body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "bad gateway", http.StatusBadGateway)
			},
			want:      Error{StatusCode: http.StatusBadGateway, Message: "bad gateway"},
			wantInMsg: "(502)",
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			want:      Error{StatusCode: http.StatusNotFound, Message: "Not Found"},
			wantInMsg: "Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewClient(server.URL).ListTodos(context.Background())
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.want, *apiErr)
			assert.Contains(t, err.Error(), tt.wantInMsg)
		})
	}
}

func TestClient_TodoRequests(t *testing.T) {
	todo := api.Todo{ID: "id-1", Name: "Buy milk", Description: "2L", Completed: true, CreatedAt: "2024-01-01 12:00:00"}

	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		calls = append(calls, r.Method+" "+r.URL.Path)

		switch r.Method + " " + r.URL.Path {
		case "GET /api/todos":
			_ = json.NewEncoder(w).Encode(api.TodoListResponse{Todos: []api.Todo{todo}})
		case "POST /api/todos":
			var req api.TodoRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Buy milk", req.Name)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(todo)
		case "GET /api/todos/id-1", "PUT /api/todos/id-1":
			_ = json.NewEncoder(w).Encode(todo)
		case "DELETE /api/todos/id-1":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	client := NewClient(server.URL)
	client.SetToken("tok")

	list, err := client.ListTodos(ctx)
	require.NoError(t, err)
	assert.Equal(t, []api.Todo{todo}, list)

	created, err := client.CreateTodo(ctx, api.TodoRequest{Name: "Buy milk", Description: "2L"})
	require.NoError(t, err)
	assert.Equal(t, todo, *created)

	got, err := client.GetTodo(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, todo, *got)

	updated, err := client.UpdateTodo(ctx, "id-1", api.TodoRequest{Name: "Buy milk", Description: "2L", Completed: true})
	require.NoError(t, err)
	assert.True(t, bool(updated.Completed))

	require.NoError(t, client.DeleteTodo(ctx, "id-1"))

	assert.Equal(t, []string{
		"GET /api/todos",
		"POST /api/todos",
		"GET /api/todos/id-1",
		"PUT /api/todos/id-1",
		"DELETE /api/todos/id-1",
	}, calls)
}

func TestClient_Health(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(api.HealthResponse{Status: "ok"})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
}

func TestClient_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(server.URL).ListTodos(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
