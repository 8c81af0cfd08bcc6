package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRCFile(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("/tmp/proj", ".autorelrc.yaml"), RCFile("/tmp/proj", "yaml"))
	assert.Equal(t, filepath.Join(".", ".autorelrc.toml"), RCFile(".", "toml"))
}

func TestEnvAndIgnorePaths(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("/p", ".env"), EnvPath("/p"))
	assert.Equal(t, filepath.Join("/p", ".gitignore"), IgnorePath("/p"))
}

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir, 0))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent.
	require.NoError(t, EnsureDir(dir, 0))
}

func TestUserConfigFile(t *testing.T) {
	t.Parallel()

	p := UserConfigFile()
	assert.Contains(t, p, AppName)
	assert.Equal(t, "config.yaml", filepath.Base(p))
}
