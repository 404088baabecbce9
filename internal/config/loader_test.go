package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "pm.db")
	path := writeConfig(t, `
jwt:
  secret_key: s3cret
database:
  path: `+dbPath+`
`)

	cfg, err := loadConfigFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, "session", cfg.Session.CookieName)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, 10, cfg.LoginLimit.MaxAttempts)
	assert.Equal(t, 8000, cfg.Prototype.Port)
	assert.DirExists(t, filepath.Dir(dbPath), "sqlite directory is created")
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 5000
jwt:
  secret_key: from-file
database:
  path: `+filepath.Join(t.TempDir(), "pm.db")+`
`)
	t.Setenv("PM_SERVER_PORT", "6001")
	t.Setenv("PM_JWT_SECRET_KEY", "from-env")
	t.Setenv("PM_SESSION_BACKEND", "redis")

	cfg, err := loadConfigFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 6001, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.JWT.SecretKey)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, "localhost:6379", cfg.Redis.GetAddress())
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"missing secret": `
database:
  path: ` + filepath.Join(t.TempDir(), "a.db") + `
`,
		"postgres without dsn": `
jwt:
  secret_key: x
database:
  driver: postgres
`,
		"unknown session backend": `
jwt:
  secret_key: x
database:
  path: ` + filepath.Join(t.TempDir(), "b.db") + `
session:
  backend: memcached
`,
		"asymmetric algorithm": `
jwt:
  secret_key: x
  algorithm: RS256
database:
  path: ` + filepath.Join(t.TempDir(), "c.db") + `
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadConfigFromFile(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestSessionTTL(t *testing.T) {
	s := SessionConfig{TTLMinutes: 90}
	assert.Equal(t, "1h30m0s", s.GetTTL().String())
}
