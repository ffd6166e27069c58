package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filemagic/magic-go/pkg/magic"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(""), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestOptionFlags(t *testing.T) {
	var opts options
	fs := newFlagSet(&opts, &bytes.Buffer{})
	require.NoError(t, fs.Parse([]string{"-i", "-L", "-z", "--extension", "file"}))

	assert.Equal(t, magic.Mime|magic.Symlink|magic.Compress|magic.Extension, opts.flags())
	assert.Equal(t, []string{"file"}, fs.Args())
}

func TestRepeatedMagicFile(t *testing.T) {
	var opts options
	fs := newFlagSet(&opts, &bytes.Buffer{})
	require.NoError(t, fs.Parse([]string{"-m", "a.magic", "--magic-file", "b.magic"}))
	assert.Equal(t, []string{"a.magic", "b.magic"}, opts.magicFiles)
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "magic-go "+magic.WrapperVersion())
	assert.Contains(t, stdout, "libmagic "+magic.LibraryVersionString())
}

func TestRunUsageErrors(t *testing.T) {
	code, _, stderr := runCLI(t)
	assert.Equal(t, exitSetup, code)
	assert.Contains(t, stderr, "Usage: magic-go")

	code, _, _ = runCLI(t, "--no-such-flag", "file")
	assert.Equal(t, exitSetup, code)

	code, _, stderr = runCLI(t, "-m", "a:b", "file")
	assert.Equal(t, exitSetup, code)
	assert.Contains(t, stderr, "invalid database path")

	code, _, stderr = runCLI(t, "--config", "/nonexistent/magic-go.yaml", "file")
	assert.Equal(t, exitSetup, code)
	assert.Contains(t, stderr, "open config")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "/dev/stdin", displayName("-"))
	assert.Equal(t, "a.png", displayName("a.png"))
}
