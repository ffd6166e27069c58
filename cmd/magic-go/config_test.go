package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filemagic/magic-go/pkg/magic"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "magic-go.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	flags, err := cfg.MagicFlags()
	require.NoError(t, err)
	assert.Equal(t, magic.Error, flags)

	db, err := cfg.Database()
	require.NoError(t, err)
	assert.True(t, db.IsDefault())
	assert.Equal(t, magic.DefaultReadLimit, cfg.ReadLimit)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
flags: [mime_type, symlink]
magic_files:
  - /usr/share/misc/magic
  - ./local.magic
brief: true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	flags, err := cfg.MagicFlags()
	require.NoError(t, err)
	assert.Equal(t, magic.MimeType|magic.Symlink, flags)

	db, err := cfg.Database()
	require.NoError(t, err)
	assert.Equal(t, "/usr/share/misc/magic:./local.magic", db.String())
	assert.True(t, cfg.Brief)
	assert.Equal(t, magic.DefaultReadLimit, cfg.ReadLimit, "missing keys keep their defaults")
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		is   error
	}{
		{name: "unknown flag", body: "flags: [sparkle]", is: magic.ErrUnknownFlag},
		{name: "bad path", body: "magic_files: [\"a:b\"]", is: magic.ErrInvalidDatabasePath},
		{name: "negative limit", body: "read_limit: -1"},
		{name: "malformed", body: "flags: {"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
