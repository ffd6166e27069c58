//go:build unix

package backend

import (
	"errors"

	"golang.org/x/sys/unix"
)

// IsUnsupportedFlags reports whether a magic_open failure means the platform
// rejected the flag combination. libmagic signals this with EINVAL, which in
// practice only happens for PreserveAtime on systems without utime(2).
func IsUnsupportedFlags(err error) bool {
	return errors.Is(err, unix.EINVAL)
}
