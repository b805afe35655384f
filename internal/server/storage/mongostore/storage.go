// Package mongostore implements storage.Store on top of MongoDB.
// Users and tasks live in the "users" and "tasks" collections;
// uniqueness of username and email is enforced by unique indexes.
package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/iudanet/tasktracker/internal/server/storage"
)

// DefaultDatabase используется, если в URI не указана база
const DefaultDatabase = "tasktracker"

const (
	collectionUsers = "users"
	collectionTasks = "tasks"

	indexUsername   = "idx_users_username"
	indexEmail      = "idx_users_email"
	indexTasksOwner = "idx_tasks_owner_id"
)

// Storage implements storage.Store using MongoDB
type Storage struct {
	client *mongo.Client
	users  *mongo.Collection
	tasks  *mongo.Collection
}

var _ storage.Store = (*Storage)(nil)

// New подключается к MongoDB и создает индексы.
// database пустой - используется база из URI или DefaultDatabase.
func New(ctx context.Context, uri, database string) (*Storage, error) {
	opts := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if database == "" {
		database = databaseFromURI(uri)
	}

	s := newWithClient(client, database)

	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return s, nil
}

func newWithClient(client *mongo.Client, database string) *Storage {
	db := client.Database(database)
	return &Storage{
		client: client,
		users:  db.Collection(collectionUsers),
		tasks:  db.Collection(collectionTasks),
	}
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName(indexUsername).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(indexEmail).SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	_, err = s.tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName(indexTasksOwner),
	})
	if err != nil {
		return fmt.Errorf("failed to create task indexes: %w", err)
	}

	return nil
}

// Ping проверяет доступность primary
func (s *Storage) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping mongo: %w", err)
	}
	return nil
}

// Close закрывает соединения
func (s *Storage) Close() error {
	return s.client.Disconnect(context.Background())
}

// databaseFromURI возвращает имя базы из пути URI
func databaseFromURI(uri string) string {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil || cs.Database == "" {
		return DefaultDatabase
	}
	return cs.Database
}
