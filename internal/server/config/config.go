// Package config загружает конфигурацию сервера.
// Порядок источников: значения по умолчанию, файл (YAML или TOML),
// переменные окружения TASKTRACKER_*, флаги командной строки.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Поддерживаемые драйверы хранилища
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// EnvPrefix префикс переменных окружения
const EnvPrefix = "TASKTRACKER_"

// Config конфигурация сервера
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	Session   SessionConfig   `yaml:"session" toml:"session"`
	Auth      AuthConfig      `yaml:"auth" toml:"auth"`
	Log       LogConfig       `yaml:"log" toml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`
}

// ServerConfig параметры HTTP сервера
type ServerConfig struct {
	Address         string        `yaml:"address" toml:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" toml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" toml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	// TrustProxyHeaders брать адрес клиента из X-Real-IP/X-Forwarded-For.
	// Включать только за обратным прокси.
	TrustProxyHeaders bool `yaml:"trust_proxy_headers" toml:"trust_proxy_headers"`
}

// DatabaseConfig параметры хранилища пользователей и задач
type DatabaseConfig struct {
	Driver   string `yaml:"driver" toml:"driver"`
	DSN      string `yaml:"dsn" toml:"dsn"`           // путь к файлу sqlite, postgres DSN или mongodb URI
	Database string `yaml:"database" toml:"database"` // только для mongo
}

// SessionConfig параметры серверных сессий
type SessionConfig struct {
	Path            string        `yaml:"path" toml:"path"` // файл bbolt
	CookieName      string        `yaml:"cookie_name" toml:"cookie_name"`
	TTL             time.Duration `yaml:"ttl" toml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" toml:"cleanup_interval"`
	SecureCookie    bool          `yaml:"secure_cookie" toml:"secure_cookie"`
}

// AuthConfig параметры токенов и хеширования
type AuthConfig struct {
	Secret     string        `yaml:"secret" toml:"secret"`
	Issuer     string        `yaml:"issuer" toml:"issuer"`
	TokenTTL   time.Duration `yaml:"token_ttl" toml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost" toml:"bcrypt_cost"`
}

// LogConfig параметры логирования
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // text или json
}

// RateLimitConfig ограничение частоты запросов к /api/register и /api/login.
// Выключено по умолчанию.
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled" toml:"enabled"`
	Requests int           `yaml:"requests" toml:"requests"`
	Window   time.Duration `yaml:"window" toml:"window"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         ":5000",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    "tasktracker.db",
		},
		Session: SessionConfig{
			Path:            "sessions.db",
			CookieName:      "tasktracker_session",
			TTL:             24 * time.Hour,
			CleanupInterval: time.Hour,
		},
		Auth: AuthConfig{
			Issuer:   "tasktracker",
			TokenTTL: 15 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		RateLimit: RateLimitConfig{
			Requests: 10,
			Window:   time.Minute,
		},
	}
}

// Load собирает конфигурацию из всех источников.
// fs может быть nil, тогда создается собственный FlagSet.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Default()

	path := configPath(args)
	if path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile читает YAML (.yaml, .yml) или TOML (.toml) файл поверх cfg
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse yaml: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse toml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}

	return nil
}

// configPath ищет файл конфигурации: флаг -config, TASKTRACKER_CONFIG,
// затем tasktracker.{yaml,yml,toml} в текущей директории
func configPath(args []string) string {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if name != "config" || !strings.HasPrefix(arg, "-") {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}

	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		return path
	}

	for _, name := range []string{"tasktracker.yaml", "tasktracker.yml", "tasktracker.toml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}

	return ""
}

// loadFromEnv переопределяет значения переменными окружения
func loadFromEnv(cfg *Config) error {
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = d
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}

	str("ADDRESS", &cfg.Server.Address)
	dur("READ_TIMEOUT", &cfg.Server.ReadTimeout)
	dur("WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	dur("IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	dur("SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	boolean("TRUST_PROXY_HEADERS", &cfg.Server.TrustProxyHeaders)

	str("DB_DRIVER", &cfg.Database.Driver)
	str("DB_DSN", &cfg.Database.DSN)
	str("DB_NAME", &cfg.Database.Database)

	str("SESSION_PATH", &cfg.Session.Path)
	str("SESSION_COOKIE", &cfg.Session.CookieName)
	dur("SESSION_TTL", &cfg.Session.TTL)
	dur("SESSION_CLEANUP_INTERVAL", &cfg.Session.CleanupInterval)
	boolean("SESSION_SECURE_COOKIE", &cfg.Session.SecureCookie)

	str("SECRET_KEY", &cfg.Auth.Secret)
	str("TOKEN_ISSUER", &cfg.Auth.Issuer)
	dur("TOKEN_TTL", &cfg.Auth.TokenTTL)
	integer("BCRYPT_COST", &cfg.Auth.BcryptCost)

	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)

	boolean("RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled)
	integer("RATE_LIMIT_REQUESTS", &cfg.RateLimit.Requests)
	dur("RATE_LIMIT_WINDOW", &cfg.RateLimit.Window)

	return errors.Join(errs...)
}

// parseFlags определяет и разбирает флаги
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasktracker-server", flag.ContinueOnError)
	}

	// Уже учтен в configPath, объявлен для -help
	fs.String("config", "", "Path to config file (.yaml, .yml or .toml)")

	fs.StringVar(&cfg.Server.Address, "addr", cfg.Server.Address, "HTTP listen address")
	fs.BoolVar(&cfg.Server.TrustProxyHeaders, "trust-proxy-headers", cfg.Server.TrustProxyHeaders, "Take client address from X-Real-IP/X-Forwarded-For")
	fs.StringVar(&cfg.Database.Driver, "db-driver", cfg.Database.Driver, "Storage driver (sqlite|postgres|mongo)")
	fs.StringVar(&cfg.Database.DSN, "db-dsn", cfg.Database.DSN, "Storage DSN: sqlite file, postgres DSN or mongodb URI")
	fs.StringVar(&cfg.Session.Path, "session-db", cfg.Session.Path, "Session database file")
	fs.BoolVar(&cfg.Session.SecureCookie, "secure-cookie", cfg.Session.SecureCookie, "Set Secure flag on session cookie")
	fs.DurationVar(&cfg.Auth.TokenTTL, "token-ttl", cfg.Auth.TokenTTL, "Identity token lifetime")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "Log format (text|json)")
	fs.BoolVar(&cfg.RateLimit.Enabled, "rate-limit", cfg.RateLimit.Enabled, "Enable rate limiting of /api/register and /api/login")

	return fs.Parse(args)
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Address == "" {
		errs = append(errs, errors.New("server address is required"))
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres, DriverMongo:
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver: %q", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database dsn is required"))
	}

	if c.Session.Path == "" {
		errs = append(errs, errors.New("session path is required"))
	}
	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("session cookie name is required"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	if c.Session.CleanupInterval <= 0 {
		errs = append(errs, errors.New("session cleanup interval must be positive"))
	}

	if c.Auth.Secret == "" {
		errs = append(errs, fmt.Errorf("auth secret is required (set %sSECRET_KEY)", EnvPrefix))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("token ttl must be positive"))
	}
	// 0 означает bcrypt.DefaultCost
	if c.Auth.BcryptCost != 0 && (c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost) {
		errs = append(errs, fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("unsupported log format: %q", c.Log.Format))
	}

	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		errs = append(errs, errors.New("rate limit requests and window must be positive"))
	}

	return errors.Join(errs...)
}

// SlogLevel переводит уровень в slog.Level
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	return level, nil
}
