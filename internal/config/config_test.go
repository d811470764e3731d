package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	t.Run("no env file", func(t *testing.T) {
		chdir(t, t.TempDir())

		loaded, err := LoadEnv()
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})

	t.Run("env file in working directory", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("WIRE_TEST_FROM_DOTENV", "")
		require.NoError(t, os.Unsetenv("WIRE_TEST_FROM_DOTENV"))
		require.NoError(t, os.WriteFile(".env", []byte("WIRE_TEST_FROM_DOTENV=loaded\n"), 0600))

		loaded, err := LoadEnv()
		require.NoError(t, err)
		assert.Equal(t, ".env", loaded)
		assert.Equal(t, "loaded", os.Getenv("WIRE_TEST_FROM_DOTENV"))
	})
}

func TestGetEnv(t *testing.T) {
	t.Setenv("WIRE_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("WIRE_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("WIRE_TEST_UNSET_VALUE", "fallback"))
}
