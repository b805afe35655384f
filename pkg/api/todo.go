package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// Completed флаг выполнения задачи.
// В JSON кодируется строкой "True"/"False", при разборе принимает также bool.
type Completed bool

func (c Completed) String() string {
	if c {
		return "True"
	}
	return "False"
}

// MarshalJSON кодирует флаг как "True" или "False"
func (c Completed) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON принимает true/false и "True"/"False"
func (c *Completed) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", `"True"`:
		*c = true
	case "false", `"False"`:
		*c = false
	default:
		return fmt.Errorf("completed must be true, false, \"True\" or \"False\", got %s", data)
	}
	return nil
}

// TodoRequest тело запроса на создание и изменение задачи
type TodoRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Completed   Completed `json:"completed"`
}

// Todo представляет задачу в ответах API
type Todo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Completed   Completed `json:"completed"`
	CreatedAt   string    `json:"created_at"` // UTC, формат "2006-01-02 15:04:05"
}

// TodoListResponse список задач пользователя
type TodoListResponse struct {
	Todos []Todo `json:"todos"`
}

// ParseCreatedAt разбирает created_at из ответа API
func (t Todo) ParseCreatedAt() (time.Time, error) {
	return time.Parse("2006-01-02 15:04:05", t.CreatedAt)
}

var _ json.Marshaler = Completed(false)
