package config

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFlagSet создает FlagSet без вывода в stderr
func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// chdirTemp переходит во временную директорию, чтобы не подхватить файлы из рабочей
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":5000", cfg.Server.Address)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "tasktracker_session", cfg.Session.CookieName)
	assert.False(t, cfg.RateLimit.Enabled)

	// Без секрета конфигурация невалидна
	assert.ErrorContains(t, cfg.Validate(), "auth secret is required")
}

func TestLoad_Precedence(t *testing.T) {
	dir := chdirTemp(t)

	yamlConfig := `
server:
  address: ":8080"
  read_timeout: 5s
database:
  driver: postgres
  dsn: postgres://localhost/tasks
auth:
  secret: from-file
  token_ttl: 30m
log:
  level: debug
`
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlConfig), 0o600))

	t.Setenv("TASKTRACKER_SECRET_KEY", "from-env")
	t.Setenv("TASKTRACKER_TOKEN_TTL", "1h")
	t.Setenv("TASKTRACKER_TRUST_PROXY_HEADERS", "true")

	cfg, err := Load(newFlagSet(), []string{"-config", path, "-token-ttl", "2h", "-log-format", "json"})
	require.NoError(t, err)

	// Файл
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Окружение поверх файла
	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.True(t, cfg.Server.TrustProxyHeaders)
	// Флаги поверх окружения
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "json", cfg.Log.Format)
	// Значения по умолчанию сохраняются
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
}

func TestLoadFile_TOML(t *testing.T) {
	dir := t.TempDir()

	tomlConfig := `
[database]
driver = "mongo"
dsn = "mongodb://localhost:27017"
database = "todos"

[session]
ttl = "2h"
secure_cookie = true

[rate_limit]
enabled = true
requests = 5
window = "30s"
`
	path := filepath.Join(dir, "tasktracker.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlConfig), 0o600))

	cfg := Default()
	require.NoError(t, LoadFile(cfg, path))

	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "todos", cfg.Database.Database)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Session.SecureCookie)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	// Не указанное в файле не меняется
	assert.Equal(t, ":5000", cfg.Server.Address)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	unsupported := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(unsupported, []byte(`{}`), 0o600))
	assert.ErrorContains(t, LoadFile(Default(), unsupported), "unsupported config format")

	broken := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("server: [unclosed"), 0o600))
	assert.Error(t, LoadFile(Default(), broken))

	assert.Error(t, LoadFile(Default(), filepath.Join(dir, "missing.yaml")))
}

func TestLoad_DiscoversFileInWorkingDirectory(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasktracker.yml"), []byte("auth:\n  secret: discovered\n"), 0o600))

	cfg, err := Load(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, "discovered", cfg.Auth.Secret)
}

func TestLoad_EnvErrors(t *testing.T) {
	chdirTemp(t)
	t.Setenv("TASKTRACKER_SECRET_KEY", "s")
	t.Setenv("TASKTRACKER_TOKEN_TTL", "forever")
	t.Setenv("TASKTRACKER_RATE_LIMIT_ENABLED", "maybe")

	_, err := Load(newFlagSet(), nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "TASKTRACKER_TOKEN_TTL")
	assert.ErrorContains(t, err, "TASKTRACKER_RATE_LIMIT_ENABLED")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Auth.Secret = "secret"
		return cfg
	}

	tests := []struct {
		mutate  func(cfg *Config)
		name    string
		wantErr string
	}{
		{name: "valid", mutate: func(cfg *Config) {}},
		{name: "unknown driver", mutate: func(cfg *Config) { cfg.Database.Driver = "mysql" }, wantErr: "unsupported database driver"},
		{name: "empty dsn", mutate: func(cfg *Config) { cfg.Database.DSN = "" }, wantErr: "database dsn is required"},
		{name: "bad log level", mutate: func(cfg *Config) { cfg.Log.Level = "loud" }, wantErr: "invalid log level"},
		{name: "bad log format", mutate: func(cfg *Config) { cfg.Log.Format = "xml" }, wantErr: "unsupported log format"},
		{name: "zero cleanup interval", mutate: func(cfg *Config) { cfg.Session.CleanupInterval = 0 }, wantErr: "cleanup interval"},
		{name: "bcrypt cost too high", mutate: func(cfg *Config) { cfg.Auth.BcryptCost = 40 }, wantErr: "bcrypt cost"},
		{name: "zero token ttl", mutate: func(cfg *Config) { cfg.Auth.TokenTTL = 0 }, wantErr: "token ttl must be positive"},
		{
			name: "enabled rate limit without window",
			mutate: func(cfg *Config) {
				cfg.RateLimit.Enabled = true
				cfg.RateLimit.Window = 0
			},
			wantErr: "rate limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLogConfig_SlogLevel(t *testing.T) {
	level, err := LogConfig{Level: "warn"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = LogConfig{Level: ""}.SlogLevel()
	assert.Error(t, err)
}

func TestLoadFile_ExampleConfig(t *testing.T) {
	cfg := Default()
	require.NoError(t, LoadFile(cfg, filepath.Join("..", "..", "..", "tasktracker.example.yaml")))

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.False(t, cfg.Server.TrustProxyHeaders)
	assert.NoError(t, cfg.Validate())
}
