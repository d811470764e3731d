package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	assert.NoError(t, IsValidPath(dir))
	assert.NoError(t, IsValidPath(file))
	assert.Error(t, IsValidPath(filepath.Join(dir, "missing")))
	assert.Error(t, IsValidPath(" "))
}

func TestIsValidInputFileAndDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	assert.NoError(t, IsValidInputFile(file))
	assert.Error(t, IsValidInputFile(dir))
	assert.Error(t, IsValidInputFile(filepath.Join(dir, "missing.csv")))

	assert.NoError(t, IsValidInputDir(dir))
	assert.Error(t, IsValidInputDir(file))
}

func TestIsValidFormat(t *testing.T) {
	supported := []string{"table", "yaml", "json"}

	assert.NoError(t, IsValidFormat("yaml", supported))
	err := IsValidFormat("xml", supported)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'table', 'yaml', 'json'")
}

func TestIsValidDelimiter(t *testing.T) {
	tests := []struct {
		delimiter string
		valid     bool
	}{
		{",", true},
		{";", true},
		{"\t", true},
		{"", false},
		{";;", false},
		{"\"", false},
		{"\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.delimiter, func(t *testing.T) {
			err := IsValidDelimiter(tt.delimiter)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
