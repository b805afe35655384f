package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/iudanet/tasktracker/internal/models"
	"github.com/iudanet/tasktracker/internal/server/storage"
)

var userColumns = []string{"id", "username", "email", "password_hash", "created_at"}

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query, args, err := s.builder.
		Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		// Уникальные индексы на username и email
		if uniqueErr := uniqueViolation(err); uniqueErr != nil {
			return uniqueErr
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByUsername retrieves user by username
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, squirrel.Eq{"username": username})
}

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, squirrel.Eq{"email": email})
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.getUser(ctx, squirrel.Eq{"id": userID})
}

// getUser выполняет point lookup по уникальному полю
func (s *Storage) getUser(ctx context.Context, filter squirrel.Eq) (*models.User, error) {
	query, args, err := s.builder.
		Select(userColumns...).
		From("users").
		Where(filter).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	user := &models.User{}
	if err := sqlx.GetContext(ctx, s.db, user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// uniqueViolation переводит нарушение уникального индекса users в ошибку storage.
// Возвращает nil, если err не является нарушением уникальности.
func uniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code != "23505" {
			return nil
		}
		return uniqueFieldError(pqErr.Constraint)
	}

	// modernc.org/sqlite: "UNIQUE constraint failed: users.username (2067)"
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil
	}
	return uniqueFieldError(msg)
}

func uniqueFieldError(detail string) error {
	switch {
	case strings.Contains(detail, "username"):
		return storage.ErrUsernameTaken
	case strings.Contains(detail, "email"):
		return storage.ErrEmailTaken
	default:
		return nil
	}
}
