//go:build !unix

package backend

import (
	"errors"
	"syscall"
)

// IsUnsupportedFlags reports whether a magic_open failure means the platform
// rejected the flag combination.
func IsUnsupportedFlags(err error) bool {
	return errors.Is(err, syscall.EINVAL)
}
