package config

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/querykit/cli/internal/version"
)

func memFs(t *testing.T) afero.Fs {
	t.Helper()
	prev := AppFs
	AppFs = afero.NewMemMapFs()
	t.Cleanup(func() { AppFs = prev })
	return AppFs
}

func TestLoadConfig(t *testing.T) {
	fs := memFs(t)
	t.Setenv("QUERYKIT_MAX_RESULTS", "25")
	t.Setenv("DATABASE_URL", "")

	require.NoError(t, afero.WriteFile(fs, "/etc/querykit/config.yaml", []byte(`
dialect: mysql
max_results: 10
debug: true
`), 0644))
	require.NoError(t, afero.WriteFile(fs, ".env", []byte("DATABASE_URL=root:pw@tcp(localhost:3306)/app\n"), 0644))

	cfg, err := LoadConfig("/etc/querykit/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Dialect)
	assert.Equal(t, 25, cfg.MaxResults, "environment overrides the file")
	assert.True(t, cfg.Debug)
	assert.Equal(t, "root:pw@tcp(localhost:3306)/app", cfg.DatabaseURL)
	assert.Equal(t, "/etc/querykit/config.yaml", cfg.File)
}

func TestLoadConfigEnvLocalOverrides(t *testing.T) {
	fs := memFs(t)
	t.Setenv("DATABASE_URL", "postgres://env")

	require.NoError(t, afero.WriteFile(fs, "/c.yaml", []byte("dialect: postgres\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, ".env", []byte("DATABASE_URL=postgres://dotenv\n"), 0644))
	cfg, err := LoadConfig("/c.yaml")
	require.NoError(t, err)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)

	require.NoError(t, afero.WriteFile(fs, ".env.local", []byte("DATABASE_URL=postgres://local\n"), 0644))
	cfg, err = LoadConfig("/c.yaml")
	require.NoError(t, err)
	assert.Equal(t, "postgres://local", cfg.DatabaseURL)
	assert.Equal(t, "postgres://local", os.Getenv("DATABASE_URL"))
}

func TestLoadConfigErrors(t *testing.T) {
	fs := memFs(t)

	_, err := LoadConfig("/missing.yaml")
	require.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/c.yaml", []byte("requires: \">= 99.0\"\n"), 0644))
	_, err = LoadConfig("/c.yaml")
	require.ErrorIs(t, err, version.ErrUnsatisfied)
}

func TestSaveConfig(t *testing.T) {
	memFs(t)
	t.Setenv("QUERYKIT_MAX_RESULTS", "")

	in := &Config{Dialect: "sqlite", DatabaseURL: "file:app.db", MaxResults: 50}
	path, err := SaveConfig(in, "/home/me/.config/querykit/.querykit.yaml")
	require.NoError(t, err)

	out, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, in.Dialect, out.Dialect)
	assert.Equal(t, in.DatabaseURL, out.DatabaseURL)
	assert.Equal(t, in.MaxResults, out.MaxResults)
	assert.False(t, out.Debug)
}
