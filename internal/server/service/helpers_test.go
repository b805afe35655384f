package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/tasktracker/internal/crypto"
	"github.com/iudanet/tasktracker/internal/models"
	"github.com/iudanet/tasktracker/internal/server/storage/sqlstore"
	"github.com/iudanet/tasktracker/internal/server/token"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func setupTestCodec(t *testing.T) *token.Codec {
	t.Helper()

	codec, err := token.NewCodec(token.Config{
		Secret: []byte("test-secret"),
		TTL:    time.Hour,
	})
	require.NoError(t, err)
	return codec
}

type testEnv struct {
	store    *sqlstore.Storage
	accounts *AccountService
	tasks    *TaskService
	codec    *token.Codec
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlstore.New(context.Background(), sqlstore.DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := setupTestLogger()
	codec := setupTestCodec(t)

	return &testEnv{
		store:    store,
		codec:    codec,
		accounts: NewAccountService(logger, store, codec, crypto.NewPasswordHasher(bcrypt.MinCost)),
		tasks:    NewTaskService(logger, store),
	}
}

func (e *testEnv) register(t *testing.T, username, email string) *models.User {
	t.Helper()

	user, err := e.accounts.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: "pw",
	})
	require.NoError(t, err)
	return user
}
