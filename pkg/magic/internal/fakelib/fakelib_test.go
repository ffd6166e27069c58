package fakelib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReplacesDatabase(t *testing.T) {
	lib := New()
	lib.AddDatabase("a", Signature{Prefix: []byte("A"), Description: "letter a"})
	lib.AddDatabase("b", Signature{Prefix: []byte("B"), Description: "letter b"})

	h, err := lib.Open(0)
	require.NoError(t, err)
	a, b := "a", "b"

	require.Zero(t, lib.Load(h, &a))
	require.Zero(t, lib.Load(h, &b))
	desc, ok := lib.Buffer(h, []byte("A"))
	require.True(t, ok)
	assert.Equal(t, "data", desc)

	missing := "missing"
	assert.Equal(t, -1, lib.Load(h, &missing))
	_, ok = lib.Buffer(h, []byte("B"))
	assert.False(t, ok)
	msg, ok := lib.Error(h)
	require.True(t, ok)
	assert.Equal(t, "no magic files loaded", msg)
}

func TestCloseAccounting(t *testing.T) {
	lib := New()
	h, err := lib.Open(0)
	require.NoError(t, err)
	assert.Equal(t, 1, lib.Live())

	lib.Close(h)
	lib.Close(h)
	assert.Equal(t, 1, lib.CloseCount(h))
	assert.Equal(t, 1, lib.BadCloses())
	assert.Zero(t, lib.Live())
	assert.Equal(t, []string{"magic_open", "magic_close", "magic_close"}, lib.Calls())
}

func TestMimeOutput(t *testing.T) {
	lib := New()
	lib.SetDefault(Signature{Prefix: []byte("%PDF"), Description: "PDF document", MIMEType: "application/pdf"})
	h, err := lib.Open(flagMimeType | flagMimeEncoding)
	require.NoError(t, err)
	require.Zero(t, lib.Load(h, nil))

	desc, ok := lib.Buffer(h, []byte("%PDF-1.7"))
	require.True(t, ok)
	assert.Equal(t, "application/pdf; charset=binary", desc)
}

func TestLoadBuffersWithoutBuffersKeepsDatabase(t *testing.T) {
	lib := New()
	lib.AddDatabase("a", Signature{Prefix: []byte("A"), Description: "letter a"})
	h, err := lib.Open(0)
	require.NoError(t, err)
	require.Zero(t, lib.LoadBuffers(h, [][]byte{Compiled("a")}))

	assert.Equal(t, -1, lib.LoadBuffers(h, nil))
	_, ok := lib.Error(h)
	assert.False(t, ok, "libmagic sets no error for an empty buffer list")

	desc, ok := lib.Buffer(h, []byte("A"))
	require.True(t, ok)
	assert.Equal(t, "letter a", desc)
}
