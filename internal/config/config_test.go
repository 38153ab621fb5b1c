package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv borra las variables que lee Load; t.Setenv las restaura al final.
// godotenv no pisa variables definidas aunque estén vacías.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DB_DSN", "LOG_LEVEL", "LOG_FORMAT", "APP_NAME",
		"AUTH_MODE", "JWT_KEY", "JWT_ISSUER", "ODIN_BASE_URL", "ODIN_API_KEY",
		"SCHEDULE_TIMEZONE", "ODIN_TIMEOUT", "HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT", "HTTP_SHUTDOWN_TIMEOUT", "ADMIN_EMAILS",
	} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, AuthDev, cfg.Auth.Mode)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_MissingFilesAreIgnored(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "nope.yaml"), filepath.Join(dir, ".env"))
	assert.NoError(t, err)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
db_dsn: postgres://yaml
schedule_timezone: America/Lima
log:
  level: debug
http:
  read_timeout: 3s
`), 0o600))

	t.Setenv("DB_DSN", "postgres://env")
	t.Setenv("HTTP_WRITE_TIMEOUT", "0s")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "postgres://env", cfg.DBDSN)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, time.Duration(0), cfg.HTTP.WriteTimeout)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Lima", loc.String())
}

func TestLoad_AdminEmails(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
auth:
  admin_emails: [yaml-admin@example.com]
`), 0o600))

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"yaml-admin@example.com"}, cfg.Auth.AdminEmails)

	t.Setenv("ADMIN_EMAILS", " a@example.com, ,b@example.com ")
	cfg, err = Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Auth.AdminEmails)
}

func TestLoad_DotEnvDoesNotOverrideEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("AUTH_MODE=jwt\nJWT_KEY=from-file\nPORT=7000\n"), 0o600))

	t.Setenv("PORT", "7100")

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, AuthJWT, cfg.Auth.Mode)
	assert.Equal(t, "from-file", cfg.Auth.JWTKey)
	assert.Equal(t, ":7100", cfg.Addr())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Auth.Mode = AuthJWT
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = Default()
	cfg.Auth.Mode = AuthOdin
	cfg.Auth.OdinBaseURL = "https://odin.local"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = Default()
	cfg.Auth.Mode = "ldap"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = Default()
	cfg.ScheduleTimezone = "Mars/Olympus"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestLoad_BadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_READ_TIMEOUT", "soon")

	_, err := Load("", "")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
