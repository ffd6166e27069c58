package magic

import (
	"errors"
	"fmt"

	"github.com/filemagic/magic-go/pkg/magic/internal/backend"
)

var (
	// ErrNotBuilt indicates that libmagic was not linked into the binary.
	// Build with cgo enabled and `-tags libmagic`.
	ErrNotBuilt = backend.ErrNotBuilt

	// ErrClosed indicates use of a cookie that was closed or whose handle was
	// moved to a LoadedCookie.
	ErrClosed = backend.ErrClosed

	// ErrNulByte indicates a file name containing a NUL byte, which cannot be
	// passed to libmagic.
	ErrNulByte = backend.ErrNulByte

	// ErrNoBuffers indicates a LoadBuffers call without buffers.
	ErrNoBuffers = backend.ErrNoBuffers

	// ErrInvalidDatabasePath indicates a database path that cannot be passed
	// to libmagic.
	ErrInvalidDatabasePath = errors.New("magic: invalid database path")

	// ErrAPIViolation indicates that libmagic did not follow its documented
	// API. It points at a broken or incompatible library, not at bad input.
	ErrAPIViolation = backend.ErrAPIViolation

	// ErrUnknownFlag indicates a flag name ParseFlags does not know.
	ErrUnknownFlag = errors.New("magic: unknown flag")
)

// NativeError is the explanation and OS errno libmagic reported for a failed
// call.
type NativeError = backend.Error

// APIViolationError describes a libmagic contract violation. It matches
// ErrAPIViolation with errors.Is.
type APIViolationError = backend.APIViolation

// OpenErrorKind classifies a failed Open.
type OpenErrorKind int

const (
	// OpenErrno is a generic failure carrying the OS errno.
	OpenErrno OpenErrorKind = iota
	// OpenUnsupportedFlags means libmagic rejected the flags with EINVAL.
	OpenUnsupportedFlags
)

func (k OpenErrorKind) String() string {
	if k == OpenUnsupportedFlags {
		return "unsupported flags"
	}
	return "errno"
}

// OpenError reports that a cookie could not be opened.
type OpenError struct {
	Flags Flags
	Kind  OpenErrorKind
	// Err is the OS errno, or ErrNotBuilt when libmagic is not linked.
	Err error
}

func (e *OpenError) Error() string {
	if e.Kind == OpenUnsupportedFlags {
		return fmt.Sprintf("magic: could not open cookie: unsupported flags %v", e.Flags)
	}
	return fmt.Sprintf("magic: could not open cookie with flags %v: %v", e.Flags, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// SetFlagsError reports that libmagic rejected new flags. libmagic only does
// that for PreserveAtime on platforms without utime/utimes, so Flags is always
// PreserveAtime.
type SetFlagsError struct {
	Flags     Flags
	Requested Flags
	Err       error
}

func (e *SetFlagsError) Error() string {
	return fmt.Sprintf("magic: could not set flags %v: %v is not supported on this platform", e.Requested, e.Flags)
}

func (e *SetFlagsError) Unwrap() error {
	return e.Err
}

// CookieError wraps a failed libmagic call on an open cookie.
type CookieError struct {
	// Function is the libmagic function, such as "magic_load".
	Function string
	// Err is a *NativeError, an *APIViolationError, or ErrClosed.
	Err error
}

func (e *CookieError) Error() string {
	return fmt.Sprintf("magic: %s: %v", e.Function, e.Err)
}

func (e *CookieError) Unwrap() error {
	return e.Err
}

// InvalidDatabasePathError reports a path rejected by NewDatabase.
type InvalidDatabasePathError struct {
	Path   string
	Reason string
}

func (e *InvalidDatabasePathError) Error() string {
	return fmt.Sprintf("magic: invalid database path %q: %s", e.Path, e.Reason)
}

func (e *InvalidDatabasePathError) Is(target error) bool {
	return target == ErrInvalidDatabasePath
}
