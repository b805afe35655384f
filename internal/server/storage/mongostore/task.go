package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iudanet/tasktracker/internal/models"
	"github.com/iudanet/tasktracker/internal/server/storage"
)

// CreateTask inserts a new task
func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	if _, err := s.tasks.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// GetTask retrieves task by ID
func (s *Storage) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	task := &models.Task{}
	if err := s.tasks.FindOne(ctx, bson.D{{Key: "_id", Value: taskID}}).Decode(task); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// ListTasksByOwner retrieves all tasks of the owner
func (s *Storage) ListTasksByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.tasks.Find(ctx, bson.D{{Key: "owner_id", Value: ownerID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*models.Task, 0)
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTask updates the task matching both ID and owner
func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	filter := bson.D{{Key: "_id", Value: task.ID}, {Key: "owner_id", Value: task.OwnerID}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: task.Name},
		{Key: "description", Value: task.Description},
		{Key: "completed", Value: task.Completed},
		{Key: "created_at", Value: task.CreatedAt},
	}}}

	res, err := s.tasks.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrTaskNotFound
	}

	return nil
}

// DeleteTask deletes the task matching both ID and owner
func (s *Storage) DeleteTask(ctx context.Context, taskID, ownerID string) error {
	res, err := s.tasks.DeleteOne(ctx, bson.D{{Key: "_id", Value: taskID}, {Key: "owner_id", Value: ownerID}})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrTaskNotFound
	}

	return nil
}
