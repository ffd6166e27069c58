package magic_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/filemagic/magic-go/pkg/magic"
)

func TestDefaultDatabase(t *testing.T) {
	var zero magic.Database
	for _, db := range []magic.Database{zero, magic.DefaultDatabase(), magic.MustDatabase()} {
		assert.True(t, db.IsDefault())
		assert.Nil(t, db.Paths())
		assert.Equal(t, "<default>", db.String())
	}
}

func TestNewDatabase(t *testing.T) {
	db, err := magic.NewDatabase("/usr/share/misc/magic", "local.magic")
	require.NoError(t, err)
	assert.False(t, db.IsDefault())
	assert.Equal(t, []string{"/usr/share/misc/magic", "local.magic"}, db.Paths())
	assert.Equal(t, "/usr/share/misc/magic:local.magic", db.String())
}

func TestNewDatabaseRejectsPaths(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"separator", "a:b"},
		{"nul byte", "a\x00b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := magic.NewDatabase("/ok", tt.path)
			require.ErrorIs(t, err, magic.ErrInvalidDatabasePath)
			var perr *magic.InvalidDatabasePathError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.path, perr.Path)
			assert.NotEmpty(t, perr.Reason)
		})
	}
	assert.Panics(t, func() { magic.MustDatabase("x:y") })
}

func TestNewDatabaseEmptyPaths(t *testing.T) {
	db, err := magic.NewDatabase("")
	require.NoError(t, err)
	assert.True(t, db.IsDefault())

	db, err = magic.NewDatabase("a", "")
	require.NoError(t, err)
	assert.False(t, db.IsDefault())
	assert.Equal(t, "a:", db.String())
	assert.Equal(t, []string{"a", ""}, db.Paths())

	db, err = magic.NewDatabase("", "")
	require.NoError(t, err)
	assert.Equal(t, ":", db.String())
	assert.Equal(t, []string{"", ""}, db.Paths())
}

func TestDatabasePathsRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		paths := rapid.SliceOfN(rapid.StringMatching(`[a-zA-Z0-9/._ -]{0,24}`), 1, 6).Draw(t, "paths")
		db, err := magic.NewDatabase(paths...)
		if err != nil {
			t.Fatalf("NewDatabase(%q): %v", paths, err)
		}
		joined := strings.Join(paths, ":")
		if joined == "" {
			if !db.IsDefault() {
				t.Fatalf("NewDatabase(%q) = %v, want the default database", paths, db)
			}
			return
		}
		if db.String() != joined {
			t.Fatalf("String() = %q, want %q", db.String(), joined)
		}
		got := db.Paths()
		if len(got) != len(paths) {
			t.Fatalf("Paths() = %q, want %q", got, paths)
		}
		for i := range paths {
			if got[i] != paths[i] {
				t.Fatalf("Paths() = %q, want %q", got, paths)
			}
		}
	})
}
