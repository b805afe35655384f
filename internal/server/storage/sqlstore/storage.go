package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embedMigrations embed.FS

// Dialect определяет SQL-диалект хранилища
type Dialect string

const (
	// DialectSQLite встроенная БД (modernc.org/sqlite)
	DialectSQLite Dialect = "sqlite"
	// DialectPostgres PostgreSQL (lib/pq)
	DialectPostgres Dialect = "postgres"
)

// Storage represents SQL storage implementation of users and tasks collections
type Storage struct {
	db      *sqlx.DB
	builder squirrel.StatementBuilderType
	dialect Dialect
}

// New creates a new SQL storage instance and applies migrations.
// For sqlite dsn is a file path; use ":memory:" for tests.
// For postgres dsn is a connection URL.
func New(ctx context.Context, dialect Dialect, dsn string) (*Storage, error) {
	var driverName string
	switch dialect {
	case DialectSQLite:
		driverName = "sqlite"
	case DialectPostgres:
		driverName = "postgres"
	default:
		return nil, fmt.Errorf("unsupported dialect: %q", dialect)
	}

	// Открываем соединение с БД
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if dialect == DialectSQLite {
		// SQLite с WAL mode может поддерживать несколько читателей, но только одного писателя.
		// Для ":memory:" единственное соединение обязательно, иначе каждое увидит свою БД
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		pragmas := []string{
			"PRAGMA journal_mode = WAL;",
			"PRAGMA synchronous = NORMAL;",
			"PRAGMA foreign_keys = ON;",
			"PRAGMA busy_timeout = 5000;",
		}

		for _, pragma := range pragmas {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to set pragma: %w", err)
			}
		}
	}

	storage := NewWithDB(db, dialect)

	// Запускаем миграции
	if err := storage.runMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return storage, nil
}

// NewWithDB wraps an already opened connection without running migrations
func NewWithDB(db *sqlx.DB, dialect Dialect) *Storage {
	var placeholder squirrel.PlaceholderFormat = squirrel.Question
	if dialect == DialectPostgres {
		placeholder = squirrel.Dollar
	}

	return &Storage{
		db:      db,
		dialect: dialect,
		builder: squirrel.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// Ping checks database availability
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// runMigrations выполняет миграции своего диалекта из embedded FS
func (s *Storage) runMigrations(ctx context.Context) error {
	gooseDialect := goose.DialectSQLite3
	if s.dialect == DialectPostgres {
		gooseDialect = goose.DialectPostgres
	}

	migrations, err := fs.Sub(embedMigrations, "migrations/"+string(s.dialect))
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	provider, err := goose.NewProvider(gooseDialect, s.db.DB, migrations)
	if err != nil {
		return fmt.Errorf("failed to create goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}

// DB returns the underlying database connection for testing purposes
func (s *Storage) DB() *sqlx.DB {
	return s.db
}
