package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/tasktracker/pkg/api"
)

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Error ошибка, возвращенная сервером
type Error struct {
	StatusCode int
	Message    string
	Field      string
	RequestID  string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	if e.RequestID != "" {
		msg += fmt.Sprintf(" [request_id=%s]", e.RequestID)
	}
	return msg
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// BaseURL возвращает адрес сервера
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken задает bearer токен для запросов к /api/todos
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// ListTodos возвращает задачи текущего пользователя
func (c *Client) ListTodos(ctx context.Context) ([]api.Todo, error) {
	var resp api.TodoListResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/todos", nil, &resp); err != nil {
		return nil, fmt.Errorf("list todos request failed: %w", err)
	}
	return resp.Todos, nil
}

// CreateTodo создает задачу
func (c *Client) CreateTodo(ctx context.Context, req api.TodoRequest) (*api.Todo, error) {
	var resp api.Todo
	if err := c.doRequest(ctx, http.MethodPost, "/api/todos", req, &resp); err != nil {
		return nil, fmt.Errorf("create todo request failed: %w", err)
	}
	return &resp, nil
}

// GetTodo возвращает задачу по id
func (c *Client) GetTodo(ctx context.Context, id string) (*api.Todo, error) {
	var resp api.Todo
	if err := c.doRequest(ctx, http.MethodGet, todoPath(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("get todo request failed: %w", err)
	}
	return &resp, nil
}

// UpdateTodo перезаписывает задачу
func (c *Client) UpdateTodo(ctx context.Context, id string, req api.TodoRequest) (*api.Todo, error) {
	var resp api.Todo
	if err := c.doRequest(ctx, http.MethodPut, todoPath(id), req, &resp); err != nil {
		return nil, fmt.Errorf("update todo request failed: %w", err)
	}
	return &resp, nil
}

// DeleteTodo удаляет задачу
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, todoPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete todo request failed: %w", err)
	}
	return nil
}

func todoPath(id string) string {
	return "/api/todos/" + url.PathEscape(id)
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}

		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && (errResp.Message != "" || errResp.Error != "") {
			apiErr.Message = errResp.Message
			if apiErr.Message == "" {
				apiErr.Message = errResp.Error
			}
			apiErr.Field = errResp.Field
			apiErr.RequestID = errResp.RequestID
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
