// Package cli реализует команды консольного клиента tasktracker.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/iudanet/tasktracker/internal/client/api"
	"github.com/iudanet/tasktracker/internal/client/iocli"
	"github.com/iudanet/tasktracker/internal/client/storage"
	"github.com/iudanet/tasktracker/internal/client/storage/boltdb"
)

const (
	// DefaultServerURL адрес сервера по умолчанию
	DefaultServerURL = "http://localhost:5000"
	// DefaultDBPath файл локальной сессии по умолчанию
	DefaultDBPath = "tasktracker-client.db"

	envServerURL = "TASKTRACKER_SERVER"
	envDBPath    = "TASKTRACKER_CLIENT_DB"
)

var (
	errNotLoggedIn    = errors.New("not authenticated. Please run 'tasktracker login' first")
	errSessionExpired = errors.New("session expired. Please run 'tasktracker login' again")
)

// Store локальное хранилище клиента
type Store interface {
	storage.AuthStorage
	storage.TodoIndexStorage
}

// VersionInfo сведения о сборке
type VersionInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// Cli состояние одного запуска клиента
type Cli struct {
	io        iocli.IO
	apiClient *api.Client
	store     Store
	now       func() time.Time
}

// New создает Cli поверх готовых зависимостей
func New(apiClient *api.Client, store Store, io iocli.IO) *Cli {
	return &Cli{
		io:        io,
		apiClient: apiClient,
		store:     store,
		now:       time.Now,
	}
}

type rootOptions struct {
	serverURL string
	dbPath    string
}

// NewRootCommand собирает дерево команд клиента
func NewRootCommand(info VersionInfo) *cobra.Command {
	opts := rootOptions{
		serverURL: envOr(envServerURL, DefaultServerURL),
		dbPath:    envOr(envDBPath, DefaultDBPath),
	}

	root := &cobra.Command{
		Use:           "tasktracker",
		Short:         "Console client for the tasktracker server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.serverURL, "server", opts.serverURL, "Server URL (env "+envServerURL+")")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", opts.dbPath, "Path to local database (env "+envDBPath+")")

	run := opts.wrap

	root.AddCommand(
		newRegisterCommand(run),
		newLoginCommand(run),
		newLogoutCommand(run),
		newStatusCommand(run),
		newListCommand(run),
		newGetCommand(run),
		newAddCommand(run),
		newEditCommand(run),
		newDeleteCommand(run),
		newVersionCommand(info),
	)

	return root
}

type commandFunc func(cmd *cobra.Command, args []string, c *Cli) error

type runner func(fn commandFunc) func(cmd *cobra.Command, args []string) error

// wrap открывает локальную базу на время одной команды
func (o *rootOptions) wrap(fn commandFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		store, err := boltdb.New(cmd.Context(), o.dbPath)
		if err != nil {
			return fmt.Errorf("failed to open local database: %w", err)
		}
		defer func() {
			if cerr := store.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close local database: %w", cerr)
			}
		}()

		c := New(api.NewClient(o.serverURL), store, iocli.New(cmd.InOrStdin(), cmd.OutOrStdout()))
		if err := c.useSavedServer(cmd); err != nil {
			return err
		}

		return fn(cmd, args, c)
	}
}

// useSavedServer подставляет адрес сервера из сессии, если --server не задан явно
func (c *Cli) useSavedServer(cmd *cobra.Command) error {
	if cmd.Flags().Changed("server") {
		return nil
	}

	auth, err := c.store.GetAuth(cmd.Context())
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get auth data: %w", err)
	}

	if auth.ServerURL != "" && auth.ServerURL != c.apiClient.BaseURL() {
		c.apiClient = api.NewClient(auth.ServerURL)
	}
	return nil
}

// requireAuth загружает сессию и передает токен API клиенту
func (c *Cli) requireAuth(ctx context.Context) (*storage.AuthData, error) {
	auth, err := c.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, errNotLoggedIn
		}
		return nil, fmt.Errorf("failed to get auth data: %w", err)
	}

	if auth.ExpiresAt != 0 && c.now().Unix() >= auth.ExpiresAt {
		return nil, errSessionExpired
	}

	c.apiClient.SetToken(auth.Token)
	return auth, nil
}

// resolveTodo принимает номер из последнего 'list' или id задачи
func (c *Cli) resolveTodo(ctx context.Context, ref string) (string, error) {
	n, err := strconv.Atoi(ref)
	if err != nil {
		return ref, nil
	}

	id, err := c.store.LookupTodo(ctx, n)
	if err != nil {
		if errors.Is(err, storage.ErrTodoRefNotFound) {
			return "", fmt.Errorf("no todo #%d in the last list. Run 'tasktracker list' first", n)
		}
		return "", err
	}
	return id, nil
}

// explain переводит ответ 401 в подсказку о повторном входе
func explain(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w (%s)", errSessionExpired, apiErr.Message)
	}
	return err
}

// tokenExpiry читает exp из токена без проверки подписи
func tokenExpiry(token string) (int64, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("failed to parse token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return 0, fmt.Errorf("failed to read token expiry: %w", err)
	}
	if exp == nil {
		return 0, nil
	}
	return exp.Unix(), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
