//go:build !cgo || !libmagic

package magic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWithoutLibmagic(t *testing.T) {
	c, err := Open(MimeType)
	require.Nil(t, c)
	assert.ErrorIs(t, err, ErrNotBuilt)

	var oerr *OpenError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, OpenErrno, oerr.Kind)

	assert.Zero(t, LibraryVersion())
	assert.Equal(t, "unavailable", LibraryVersionString())
}
