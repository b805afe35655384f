package boltdb

import (
	"context"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/tasktracker/internal/client/storage"
)

var sessionKey = []byte("session")

// SaveAuth сохраняет сессию, заменяя предыдущую
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketAuth)
		if err != nil {
			return err
		}
		if err := putJSON(b, sessionKey, auth); err != nil {
			return fmt.Errorf("failed to save auth data: %w", err)
		}
		return nil
	})
}

// GetAuth возвращает сессию или storage.ErrAuthNotFound
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	var auth storage.AuthData

	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketAuth)
		if err != nil {
			return err
		}

		found, err := getJSON(b, sessionKey, &auth)
		if err != nil {
			return err
		}
		if !found {
			return storage.ErrAuthNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &auth, nil
}

// DeleteAuth удаляет сессию и номера последнего списка задач
func (s *Storage) DeleteAuth(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketAuth)
		if err != nil {
			return err
		}

		if b.Get(sessionKey) == nil {
			return storage.ErrAuthNotFound
		}
		if err := b.Delete(sessionKey); err != nil {
			return fmt.Errorf("failed to delete auth data: %w", err)
		}

		return resetTodos(tx)
	})
}

// IsAuthenticated true, если сессия есть и ее токен еще не истек
func (s *Storage) IsAuthenticated(ctx context.Context) (bool, error) {
	auth, err := s.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return auth.ExpiresAt == 0 || s.now().Unix() < auth.ExpiresAt, nil
}
