// Package server собирает зависимости HTTP сервера и управляет его жизненным циклом.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/iudanet/tasktracker/internal/crypto"
	"github.com/iudanet/tasktracker/internal/server/config"
	"github.com/iudanet/tasktracker/internal/server/handlers"
	"github.com/iudanet/tasktracker/internal/server/middleware"
	"github.com/iudanet/tasktracker/internal/server/service"
	"github.com/iudanet/tasktracker/internal/server/session"
	"github.com/iudanet/tasktracker/internal/server/storage"
	"github.com/iudanet/tasktracker/internal/server/storage/mongostore"
	"github.com/iudanet/tasktracker/internal/server/storage/sqlstore"
	"github.com/iudanet/tasktracker/internal/server/token"
	"github.com/iudanet/tasktracker/internal/server/web"
	"github.com/iudanet/tasktracker/internal/validation"
)

// Server HTTP сервер приложения
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    storage.Store
	sessions *session.Store
	limiter  *middleware.RateLimiter
	handler  http.Handler
}

// New открывает хранилища и собирает маршруты
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	store, err := OpenStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewStore(ctx, cfg.Session.Path, cfg.Session.TTL)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		sessions: sessions,
	}

	if err := s.buildHandler(); err != nil {
		_ = s.Close()
		return nil, err
	}

	return s, nil
}

// OpenStore открывает хранилище пользователей и задач по драйверу
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := sqlstore.New(ctx, sqlstore.DialectSQLite, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil
	case config.DriverPostgres:
		store, err := sqlstore.New(ctx, sqlstore.DialectPostgres, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return store, nil
	case config.DriverMongo:
		store, err := mongostore.New(ctx, cfg.DSN, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open mongo store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

func (s *Server) buildHandler() error {
	codec, err := token.NewCodec(token.Config{
		Secret: []byte(s.cfg.Auth.Secret),
		TTL:    s.cfg.Auth.TokenTTL,
		Issuer: s.cfg.Auth.Issuer,
	})
	if err != nil {
		return fmt.Errorf("failed to create token codec: %w", err)
	}

	schemas, err := validation.NewSchemaValidator()
	if err != nil {
		return fmt.Errorf("failed to compile schemas: %w", err)
	}

	accounts := service.NewAccountService(s.logger, s.store, codec, crypto.NewPasswordHasher(s.cfg.Auth.BcryptCost))
	tasks := service.NewTaskService(s.logger, s.store)

	pages, err := web.NewHandler(s.logger, accounts, tasks,
		session.NewManager(s.sessions, s.cfg.Session.CookieName, s.cfg.Session.SecureCookie, []byte(s.cfg.Auth.Secret)))
	if err != nil {
		return fmt.Errorf("failed to create page handler: %w", err)
	}

	authHandler := handlers.NewAuthHandler(s.logger, accounts, schemas)
	taskHandler := handlers.NewTaskHandler(s.logger, tasks, schemas)
	healthHandler := handlers.NewHealthHandler(s.logger, s.store)

	// Лимит применяется только к register и login
	limit := func(h http.HandlerFunc) http.Handler { return h }
	if s.cfg.RateLimit.Enabled {
		s.limiter = middleware.NewRateLimiter(s.cfg.RateLimit.Requests, s.cfg.RateLimit.Window, s.logger)
		rl := middleware.RateLimitMiddleware(s.limiter, s.logger)
		limit = func(h http.HandlerFunc) http.Handler { return rl(h) }
	}

	requireToken := middleware.AuthMiddleware(s.logger, accounts)
	bearer := func(h http.HandlerFunc) http.Handler { return requireToken(h) }

	mux := http.NewServeMux()

	mux.Handle("POST /api/register", limit(authHandler.Register))
	mux.Handle("POST /api/login", limit(authHandler.Login))
	mux.HandleFunc("GET /api/health", healthHandler.Health)

	mux.Handle("GET /api/todos", bearer(taskHandler.List))
	mux.Handle("POST /api/todos", bearer(taskHandler.Create))
	mux.Handle("GET /api/todos/{id}", bearer(taskHandler.Get))
	mux.Handle("PUT /api/todos/{id}", bearer(taskHandler.Update))
	mux.Handle("DELETE /api/todos/{id}", bearer(taskHandler.Delete))

	pages.Routes(mux)

	var h http.Handler = mux
	h = middleware.RecoveryMiddleware(s.logger)(h)
	h = middleware.LoggingWithSkip(s.logger, []string{"/api/health"})(h)
	if s.cfg.Server.TrustProxyHeaders {
		h = middleware.RealIPMiddleware(h)
	}
	h = middleware.RequestIDMiddleware()(h)

	s.handler = h
	return nil
}

// Handler возвращает корневой http.Handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run слушает адрес из конфигурации до отмены ctx, затем корректно останавливается
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Server.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve обслуживает соединения ln до отмены ctx
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go s.sessions.RunCleanup(cleanupCtx, s.cfg.Session.CleanupInterval, func(err error) {
		s.logger.ErrorContext(cleanupCtx, "session cleanup failed", slog.Any("error", err))
	})

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", slog.String("address", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

// Close освобождает хранилища и останавливает rate limiter
func (s *Server) Close() error {
	if s.limiter != nil {
		s.limiter.Stop()
	}

	var errs []error
	if err := s.sessions.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close session store: %w", err))
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close store: %w", err))
	}
	return errors.Join(errs...)
}
