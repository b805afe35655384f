package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/iudanet/tasktracker/internal/models"
	"github.com/iudanet/tasktracker/internal/server/storage"
)

var taskColumns = []string{"id", "owner_id", "name", "description", "completed", "created_at"}

// CreateTask inserts a new task
func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	query, args, err := s.builder.
		Insert("tasks").
		Columns(taskColumns...).
		Values(task.ID, task.OwnerID, task.Name, task.Description, task.Completed, task.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	return nil
}

// GetTask retrieves task by ID
func (s *Storage) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	query, args, err := s.builder.
		Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	task := &models.Task{}
	if err := sqlx.GetContext(ctx, s.db, task, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// ListTasksByOwner retrieves all tasks of the owner
func (s *Storage) ListTasksByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	query, args, err := s.builder.
		Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	tasks := []*models.Task{}
	if err := sqlx.SelectContext(ctx, s.db, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTask overwrites mutable fields of the task owned by task.OwnerID
func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	query, args, err := s.builder.
		Update("tasks").
		SetMap(map[string]interface{}{
			"name":        task.Name,
			"description": task.Description,
			"completed":   task.Completed,
			"created_at":  task.CreatedAt,
		}).
		Where(squirrel.Eq{"id": task.ID, "owner_id": task.OwnerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return requireAffected(result)
}

// DeleteTask removes the task owned by ownerID
func (s *Storage) DeleteTask(ctx context.Context, taskID, ownerID string) error {
	query, args, err := s.builder.
		Delete("tasks").
		Where(squirrel.Eq{"id": taskID, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrTaskNotFound
	}

	return nil
}

var _ storage.Store = (*Storage)(nil)
