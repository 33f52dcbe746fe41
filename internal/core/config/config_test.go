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
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestReadDefaultsAndFile(t *testing.T) {
	p := writeConfig(t, `
jwt:
  secret: s
db:
  driver: postgres
  dsn: postgres://localhost/music
`)
	c, err := Read(p)
	require.NoError(t, err)
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, 10, c.App.HTTP.RequestTimeoutSec)
	assert.Equal(t, "https://api.spotify.com/v1", c.Spotify.BaseURL)
	assert.Equal(t, 1440, c.JWT.AccessTokenTTLMin)
}

func TestReadEnvOverride(t *testing.T) {
	p := writeConfig(t, "jwt:\n  secret: from-file\n")
	t.Setenv("APP_JWT_SECRET", "from-env")
	t.Setenv("APP_SPOTIFY_CLIENTID", "cid")
	t.Setenv("APP_APP_HTTP_PORT", "9090")

	c, err := Read(p)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, "cid", c.Spotify.ClientID)
	assert.Equal(t, 9090, c.App.HTTP.Port)
}

func TestReadRequiresSecret(t *testing.T) {
	p := writeConfig(t, "app:\n  name: x\n")
	_, err := Read(p)
	assert.Error(t, err)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
