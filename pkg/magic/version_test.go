package magic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapperVersion(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	assert.Equal(t, "v1.2.3", WrapperVersion())
}

func TestFormatLibraryVersion(t *testing.T) {
	assert.Equal(t, "5.45", formatLibraryVersion(545))
	assert.Equal(t, "5.05", formatLibraryVersion(505))
	assert.Equal(t, "unavailable", formatLibraryVersion(0))
}
