package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotenv(t *testing.T) {
	const key = "FASTIND_DOTENV_TEST_KEY"
	t.Cleanup(func() {
		_ = os.Unsetenv(key)
	})

	file := filepath.Join(t.TempDir(), ".env.test")
	require.NoError(t, os.WriteFile(file, []byte(key+"=from-dotenv\n"), 0o644))

	require.NoError(t, loadDotenv(file))
	assert.Equal(t, "from-dotenv", os.Getenv(key))

	assert.Error(t, loadDotenv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "v0.1.0-dev\n", out)
}
