package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/tasktracker/internal/models"
	"github.com/iudanet/tasktracker/internal/server/storage"
	"github.com/iudanet/tasktracker/internal/validation"
)

// TaskInput изменяемые поля задачи
type TaskInput struct {
	Name        string
	Description string
	Completed   bool
}

// TaskService CRUD задач в пределах владельца
type TaskService struct {
	logger *slog.Logger
	tasks  storage.TaskStorage
	now    func() time.Time
}

// NewTaskService создает сервис задач
func NewTaskService(logger *slog.Logger, tasks storage.TaskStorage) *TaskService {
	return &TaskService{
		logger: logger,
		tasks:  tasks,
		now:    time.Now,
	}
}

// List возвращает все задачи владельца
func (s *TaskService) List(ctx context.Context, owner *models.User) ([]*models.Task, error) {
	if owner == nil {
		return nil, ErrUnauthenticated
	}

	tasks, err := s.tasks.ListTasksByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// Get возвращает задачу владельца.
// ErrNotFound если задачи нет, ErrForbidden если она чужая.
func (s *TaskService) Get(ctx context.Context, owner *models.User, taskID string) (*models.Task, error) {
	if owner == nil {
		return nil, ErrUnauthenticated
	}
	if !validTaskID(taskID) {
		return nil, ErrNotFound
	}

	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if task.OwnerID != owner.ID {
		return nil, ErrForbidden
	}

	return task, nil
}

// Create создает задачу владельца с created_at = now UTC
func (s *TaskService) Create(ctx context.Context, owner *models.User, in TaskInput) (*models.Task, error) {
	if owner == nil {
		return nil, ErrUnauthenticated
	}
	if err := validateTaskInput(in); err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:          uuid.New().String(),
		OwnerID:     owner.ID,
		Name:        in.Name,
		Description: in.Description,
		Completed:   in.Completed,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.InfoContext(ctx, "task created",
		slog.String("task_id", task.ID),
		slog.String("owner_id", owner.ID))

	return task, nil
}

// Update перезаписывает name, description, completed и сбрасывает created_at.
// Запись выполняется одним условным UPDATE по id и owner_id.
func (s *TaskService) Update(ctx context.Context, owner *models.User, taskID string, in TaskInput) (*models.Task, error) {
	if owner == nil {
		return nil, ErrUnauthenticated
	}
	if err := validateTaskInput(in); err != nil {
		// NotFound и Forbidden важнее ошибки формы
		if _, getErr := s.Get(ctx, owner, taskID); getErr != nil {
			return nil, getErr
		}
		return nil, err
	}
	if !validTaskID(taskID) {
		return nil, ErrNotFound
	}

	task := &models.Task{
		ID:          taskID,
		OwnerID:     owner.ID,
		Name:        in.Name,
		Description: in.Description,
		Completed:   in.Completed,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return nil, s.classifyMiss(ctx, owner, taskID)
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.InfoContext(ctx, "task updated",
		slog.String("task_id", task.ID),
		slog.String("owner_id", owner.ID))

	return task, nil
}

// Delete удаляет задачу владельца одним условным DELETE
func (s *TaskService) Delete(ctx context.Context, owner *models.User, taskID string) error {
	if owner == nil {
		return ErrUnauthenticated
	}
	if !validTaskID(taskID) {
		return ErrNotFound
	}

	if err := s.tasks.DeleteTask(ctx, taskID, owner.ID); err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return s.classifyMiss(ctx, owner, taskID)
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.InfoContext(ctx, "task deleted",
		slog.String("task_id", taskID),
		slog.String("owner_id", owner.ID))

	return nil
}

// classifyMiss объясняет, почему условная запись не затронула ни одной строки
func (s *TaskService) classifyMiss(ctx context.Context, owner *models.User, taskID string) error {
	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get task: %w", err)
	}

	if task.OwnerID != owner.ID {
		s.logger.WarnContext(ctx, "task access denied",
			slog.String("task_id", taskID),
			slog.String("user_id", owner.ID))
		return ErrForbidden
	}

	// Задача владельца появилась между записью и проверкой
	return ErrNotFound
}

func validateTaskInput(in TaskInput) error {
	if err := validation.ValidateTaskText(FieldName, in.Name, validation.MaxTaskNameLen); err != nil {
		return fieldError(err)
	}
	if err := validation.ValidateTaskText(FieldDescription, in.Description, validation.MaxTaskDescriptionLen); err != nil {
		return fieldError(err)
	}
	return nil
}

// validTaskID отсекает id, которые не могут существовать в хранилище
func validTaskID(taskID string) bool {
	_, err := uuid.Parse(taskID)
	return err == nil
}
