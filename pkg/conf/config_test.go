package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
log_level: info
port: 8090
dsn: sqlite3://file::memory:
jwt:
  secret_key: not-so-secret
  ttl: 2h
  admin:
    admin: password
otp:
  provider: log
  fixed_code: "123456"
cors:
  allowed_origins:
    - http://localhost:5173
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestInitFromFile(t *testing.T) {
	c, err := Init(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, 8090, c.Port)
	assert.Equal(t, "sqlite3://file::memory:", c.Dsn)
	assert.Equal(t, 2*time.Hour, c.JWT.TTL)
	assert.Equal(t, "password", c.JWT.Admin["admin"])
	assert.Equal(t, []string{"http://localhost:5173"}, c.Cors.AllowedOrigins)

	// defaults
	assert.Equal(t, 6, c.OTP.Length)
	assert.Equal(t, 5*time.Minute, c.OTP.TTL)
	assert.Equal(t, 5, c.OTP.MaxAttempts)
	assert.Equal(t, "+52", c.OTP.DefaultCountry)
	assert.Contains(t, c.Maps.LinkTemplate, "{&query}")
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("GASTRO_PORT", "9000")
	t.Setenv("GASTRO_JWT_SECRET_KEY", "from-env")
	t.Setenv("GASTRO_OTP_TTL", "90s")

	c, err := Init(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, 9000, c.Port)
	assert.Equal(t, "from-env", c.JWT.SecretKey)
	assert.Equal(t, 90*time.Second, c.OTP.TTL)
}

func TestEnvironmentOnly(t *testing.T) {
	t.Setenv("GASTRO_JWT_SECRET_KEY", "env-only")

	c, err := Init("")
	require.NoError(t, err)
	assert.Equal(t, 3001, c.Port)
	assert.Equal(t, "sqlite3://gastro.db", c.Dsn)
	assert.Equal(t, ProviderLog, c.OTP.Provider)
	assert.False(t, c.Access.Enabled())

	t.Setenv("GASTRO_ACCESS_USERNAME", "admin")
	t.Setenv("GASTRO_ACCESS_PASSWORD", "secret")
	c, err = Init("")
	require.NoError(t, err)
	assert.True(t, c.Access.Enabled())
}

func TestValidate(t *testing.T) {
	_, err := Init(writeConfig(t, "port: 8090\n"))
	assert.Error(t, err, "a missing jwt secret must be rejected")

	_, err = Init(writeConfig(t, "jwt:\n  secret_key: s\notp:\n  provider: twilio\n"))
	assert.Error(t, err, "twilio requires credentials")

	_, err = Init(writeConfig(t, "jwt:\n  secret_key: s\notp:\n  provider: firebase\n"))
	assert.Error(t, err, "firebase requires a project id")

	_, err = Init(writeConfig(t, "jwt:\n  secret_key: s\notp:\n  provider: pigeon\n"))
	assert.Error(t, err)

	_, err = Init(writeConfig(t, "jwt:\n  secret_key: s\notp:\n  fixed_code: \"123\"\n"))
	assert.Error(t, err, "the fixed code must have the otp length")

	_, err = Init(writeConfig(t, "jwt:\n  secret_key: s\naccess:\n  username: admin\n"))
	assert.Error(t, err, "an admin access without password must be rejected")

	_, err = Init(writeConfig(t, "jwt:\n  secret_key: s\n  admin:\n    ana: \"\"\n"))
	assert.Error(t, err, "a dashboard account without password must be rejected")

	_, err = Init(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
