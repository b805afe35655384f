package storage

import (
	"context"

	"github.com/iudanet/tasktracker/internal/models"
)

//go:generate moq -out task_mock.go . TaskStorage

// TaskStorage defines interface for the tasks collection
type TaskStorage interface {
	// CreateTask inserts a new task
	CreateTask(ctx context.Context, task *models.Task) error

	// GetTask retrieves task by ID regardless of owner
	// Returns ErrTaskNotFound if task doesn't exist
	GetTask(ctx context.Context, taskID string) (*models.Task, error)

	// ListTasksByOwner returns all tasks of the owner ordered by created_at, id
	// Returns empty slice if no tasks found
	ListTasksByOwner(ctx context.Context, ownerID string) ([]*models.Task, error)

	// UpdateTask overwrites name, description, completed and created_at
	// of the task matching both task.ID and task.OwnerID.
	// Returns ErrTaskNotFound if nothing matched
	UpdateTask(ctx context.Context, task *models.Task) error

	// DeleteTask removes the task matching both taskID and ownerID
	// Returns ErrTaskNotFound if nothing matched
	DeleteTask(ctx context.Context, taskID, ownerID string) error
}

// Store объединяет коллекции users и tasks одного бэкенда
type Store interface {
	UserStorage
	TaskStorage

	// Ping проверяет доступность хранилища
	Ping(ctx context.Context) error

	// Close освобождает соединения
	Close() error
}
