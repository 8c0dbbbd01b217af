package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(`
# comment
TOKENCTL_TEST_PLAIN=plain
export TOKENCTL_TEST_EXPORTED=exported
TOKENCTL_TEST_QUOTED="with spaces"
TOKENCTL_TEST_DSN=postgres://u:p@h/db?sslmode=disable
TOKENCTL_TEST_KEEP=from-file
not a pair
`), 0644))

	t.Setenv("TOKENCTL_TEST_KEEP", "from-env")
	for _, k := range []string{"TOKENCTL_TEST_PLAIN", "TOKENCTL_TEST_EXPORTED", "TOKENCTL_TEST_QUOTED", "TOKENCTL_TEST_DSN"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	require.NoError(t, LoadEnvFile(path))

	assert.Equal(t, "plain", os.Getenv("TOKENCTL_TEST_PLAIN"))
	assert.Equal(t, "exported", os.Getenv("TOKENCTL_TEST_EXPORTED"))
	assert.Equal(t, "with spaces", os.Getenv("TOKENCTL_TEST_QUOTED"))
	assert.Equal(t, "postgres://u:p@h/db?sslmode=disable", os.Getenv("TOKENCTL_TEST_DSN"))
	assert.Equal(t, "from-env", os.Getenv("TOKENCTL_TEST_KEEP"))
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), ".env")))
}
