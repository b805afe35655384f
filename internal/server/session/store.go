package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var bucketSessions = []byte("sessions")

// ErrSessionNotFound indicates that session is absent or expired
var ErrSessionNotFound = errors.New("session not found")

// Store represents BoltDB storage of server-side sessions
type Store struct {
	db  *bbolt.DB
	now func() time.Time
	ttl time.Duration
}

// NewStore opens (or creates) the BoltDB file at dbPath.
// ttl is the idle lifetime of a session.
func NewStore(ctx context.Context, dbPath string, ttl time.Duration) (*Store, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketSessions); err != nil {
			return fmt.Errorf("failed to create sessions bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return &Store{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// New создает пустую сессию со случайным ID (не сохраняя ее)
func (s *Store) New() (*Session, error) {
	id, err := generateID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &Session{ID: id, CreatedAt: now, UpdatedAt: now}, nil
}

// Load retrieves session by ID.
// Returns ErrSessionNotFound if session doesn't exist or idle ttl elapsed.
func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}

	var sess *Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSessions).Get([]byte(id))
		if data == nil {
			return ErrSessionNotFound
		}

		sess = &Session{}
		if err := json.Unmarshal(data, sess); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.expired(sess) {
		return nil, ErrSessionNotFound
	}

	sess.ID = id
	sess.stored = true
	return sess, nil
}

// Save stores session and refreshes its idle timer
func (s *Store) Save(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		return fmt.Errorf("session id cannot be empty")
	}

	sess.UpdatedAt = s.now()

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketSessions).Put([]byte(sess.ID), data); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	sess.stored = true
	return nil
}

// Delete removes session by ID. Missing session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketSessions).Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return nil
	})
}

// DeleteExpired removes all sessions whose idle ttl elapsed
// Returns number of deleted sessions
func (s *Store) DeleteExpired(ctx context.Context) (int, error) {
	deleted := 0

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSessions)

		var stale [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var sess Session
			// Нечитаемые записи тоже удаляем
			if err := json.Unmarshal(v, &sess); err != nil || s.expired(&sess) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return fmt.Errorf("failed to delete session: %w", err)
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	return deleted, nil
}

// RunCleanup периодически удаляет просроченные сессии до отмены ctx
func (s *Store) RunCleanup(ctx context.Context, interval time.Duration, onError func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.DeleteExpired(ctx); err != nil && onError != nil {
				onError(err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Store) expired(sess *Session) bool {
	return s.ttl > 0 && s.now().Sub(sess.UpdatedAt) > s.ttl
}

// generateID создает случайный идентификатор сессии (32 байта, base64url)
func generateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
