package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  host: "127.0.0.1"
  port: 8123
  mode: "test"
  read_timeout: 30s
  write_timeout: 30s
database:
  mysql:
    host: "127.0.0.1"
    port: 3306
    username: "menuguard"
    password: "secret"
    database: "menuguard_test"
    charset: "utf8mb4"
    parse_time: true
    loc: "Local"
  redis:
    host: "127.0.0.1"
    port: 6379
    database: 1
log:
  level: "debug"
  format: "text"
  output: "stdout"
security:
  jwt:
    secret: "loader-test-secret-0123456789abcdefgh"
    issuer: "menuguard"
    token_expire: 1h
    algorithm: "HS256"
  login_guard:
    enabled: true
    max_attempts: 5
    lock_window: 15m
app:
  name: "menuguard"
  environment: "test"
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoadConfig(t *testing.T) {
	dir := writeConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(dir, "development")
	require.NoError(t, err)

	assert.Equal(t, 8123, cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, "menuguard_test", cfg.Database.MySQL.Database)
	assert.Equal(t, time.Hour, cfg.Security.JWT.TokenExpire)
	assert.True(t, cfg.Security.LoginGuard.Enabled)
	assert.Equal(t, 5, cfg.Security.LoginGuard.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Security.LoginGuard.LockWindow)
}

func TestLoadConfigMySQLDSN(t *testing.T) {
	dir := writeConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(dir, "development")
	require.NoError(t, err)

	want := "menuguard:secret@tcp(127.0.0.1:3306)/menuguard_test?charset=utf8mb4&parseTime=true&loc=Local"
	assert.Equal(t, want, cfg.Database.MySQL.GetMySQLDSN())
}

func TestLoadConfigValidation(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.Server.Port = 8123
		cfg.Server.Mode = "debug"
		cfg.Database.MySQL.Host = "127.0.0.1"
		cfg.Database.MySQL.Database = "menuguard"
		cfg.Database.Redis.Host = "127.0.0.1"
		cfg.Security.JWT.Secret = "loader-test-secret-0123456789abcdefgh"
		cfg.Log.Level = "info"
		cfg.Log.Format = "json"
		cfg.Log.Output = "stdout"
		return cfg
	}

	t.Run("合法配置通过", func(t *testing.T) {
		assert.NoError(t, validateConfig(base()))
	})

	t.Run("短JWT密钥拒绝", func(t *testing.T) {
		cfg := base()
		cfg.Security.JWT.Secret = "too-short"
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("非法端口拒绝", func(t *testing.T) {
		cfg := base()
		cfg.Server.Port = 0
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("非法日志级别拒绝", func(t *testing.T) {
		cfg := base()
		cfg.Log.Level = "verbose"
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("文件输出缺少路径拒绝", func(t *testing.T) {
		cfg := base()
		cfg.Log.Output = "file"
		cfg.Log.FilePath = ""
		assert.Error(t, validateConfig(cfg))
	})
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := writeConfigFile(t, validConfigYAML)
	t.Setenv("MENUGUARD_JWT_SECRET", "env-override-secret-0123456789abcdef")

	cfg, err := LoadConfig(dir, "development")
	require.NoError(t, err)
	assert.Equal(t, "env-override-secret-0123456789abcdef", cfg.Security.JWT.Secret)
}

func TestGetConfigFileName(t *testing.T) {
	dir := t.TempDir()
	prodFile := filepath.Join(dir, "config.prod.yaml")
	require.NoError(t, os.WriteFile(prodFile, []byte("server: {}"), 0o644))

	assert.Equal(t, prodFile, getConfigFileName(dir, "prod"))

	// 环境专属文件缺失时回落默认文件
	defaultFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(defaultFile, []byte("server: {}"), 0o644))
	assert.Equal(t, defaultFile, getConfigFileName(dir, "test"))
}
