package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/tasktracker/internal/client/storage"
)

// SaveTodoIndex запоминает порядок последнего списка задач.
// Ключ - порядковый номер (big-endian uint32), значение - id задачи.
func (s *Storage) SaveTodoIndex(ctx context.Context, ids []string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := resetTodos(tx); err != nil {
			return err
		}

		b, err := bucket(tx, bucketTodos)
		if err != nil {
			return err
		}
		for i, id := range ids {
			if err := b.Put(indexKey(i+1), []byte(id)); err != nil {
				return fmt.Errorf("failed to save todo index: %w", err)
			}
		}

		return nil
	})
}

// LookupTodo возвращает id задачи по номеру из последнего списка
func (s *Storage) LookupTodo(ctx context.Context, n int) (string, error) {
	if n <= 0 {
		return "", storage.ErrTodoRefNotFound
	}

	var id string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketTodos)
		if err != nil {
			return err
		}

		value := b.Get(indexKey(n))
		if value == nil {
			return storage.ErrTodoRefNotFound
		}
		id = string(value)
		return nil
	})
	if err != nil {
		return "", err
	}

	return id, nil
}

func resetTodos(tx *bbolt.Tx) error {
	if tx.Bucket(bucketTodos) != nil {
		if err := tx.DeleteBucket(bucketTodos); err != nil {
			return fmt.Errorf("failed to reset todos bucket: %w", err)
		}
	}
	if _, err := tx.CreateBucket(bucketTodos); err != nil {
		return fmt.Errorf("failed to create todos bucket: %w", err)
	}
	return nil
}

func indexKey(n int) []byte {
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, uint32(n))
	return key
}
