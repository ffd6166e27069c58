package backend

import (
	"errors"
	"fmt"
	"syscall"
)

// Handle is an opaque libmagic cookie (`magic_t`). The zero value is the NULL
// cookie.
type Handle uintptr

// Library is the table of raw libmagic entry points. Implementations perform
// no translation: NULL results are reported through the boolean return, and
// integer status codes are passed through unchanged.
//
// A nil filenames pointer stands for a NULL `const char *`, which makes
// libmagic use its default database.
type Library interface {
	// Open calls magic_open. A zero Handle means NULL; the error then carries
	// the errno observed by the call, if any.
	Open(flags int) (Handle, error)
	Close(h Handle)
	// Error calls magic_error; ok is false when it returned NULL.
	Error(h Handle) (msg string, ok bool)
	Errno(h Handle) int
	File(h Handle, name string) (string, bool)
	Buffer(h Handle, buf []byte) (string, bool)
	SetFlags(h Handle, flags int) int
	Check(h Handle, filenames *string) int
	Compile(h Handle, filenames *string) int
	List(h Handle, filenames *string) int
	Load(h Handle, filenames *string) int
	LoadBuffers(h Handle, bufs [][]byte) int
	// Version calls magic_version and returns MAJOR*100 + MINOR.
	Version() int
}

// Names of the libmagic functions, attached to errors for diagnostics.
const (
	FnOpen        = "magic_open"
	FnFile        = "magic_file"
	FnBuffer      = "magic_buffer"
	FnSetFlags    = "magic_setflags"
	FnCheck       = "magic_check"
	FnCompile     = "magic_compile"
	FnList        = "magic_list"
	FnLoad        = "magic_load"
	FnLoadBuffers = "magic_load_buffers"
)

var (
	// ErrNotBuilt reports that libmagic was not linked into the current
	// binary. Build with `-tags libmagic` (and cgo enabled) to link it.
	ErrNotBuilt = errors.New("magic/internal/backend: libmagic bindings not built")

	// ErrClosed is returned for operations on a cookie whose native handle
	// was released or moved to another owner.
	ErrClosed = errors.New("magic: cookie is closed")

	// ErrNulByte is returned when a string that must cross into C contains
	// a NUL byte.
	ErrNulByte = errors.New("magic: string contains NUL byte")

	// ErrNoBuffers is returned by LoadBuffers when no buffer is given.
	ErrNoBuffers = errors.New("magic: no database buffers given")

	// ErrAPIViolation is matched by every *APIViolation.
	ErrAPIViolation = errors.New("magic: libmagic API violation")

	// errNoErrno stands in for a missing errno when magic_open fails.
	errNoErrno = errors.New("no OS error reported")
)

// Error is the combined value of magic_error and magic_errno after a failed
// call.
type Error struct {
	Explanation string
	// Errno is zero when libmagic reported no OS error.
	Errno syscall.Errno
}

func (e *Error) Error() string {
	if e.Errno == 0 {
		return fmt.Sprintf("libmagic error (no OS errno): %s", e.Explanation)
	}
	return fmt.Sprintf("libmagic error (OS errno: %v): %s", e.Errno, e.Explanation)
}

// Unwrap exposes the OS errno so that errors.Is(err, fs.ErrNotExist) and
// friends work.
func (e *Error) Unwrap() error {
	if e.Errno == 0 {
		return nil
	}
	return e.Errno
}

// ViolationKind tells how libmagic broke its documented contract.
type ViolationKind int

const (
	// MissingError means a call failed but magic_error returned NULL.
	MissingError ViolationKind = iota + 1
	// UnexpectedReturn means a call returned a value outside 0 and -1.
	UnexpectedReturn
)

func (k ViolationKind) String() string {
	switch k {
	case MissingError:
		return "missing error"
	case UnexpectedReturn:
		return "unexpected return value"
	default:
		return "unknown"
	}
}

// APIViolation reports that libmagic did not behave as documented. It means
// the linked library is broken or incompatible, not that the input was bad.
type APIViolation struct {
	Kind     ViolationKind
	Function string
	// Return is the offending value for UnexpectedReturn.
	Return int
}

func (v *APIViolation) Error() string {
	switch v.Kind {
	case MissingError:
		return fmt.Sprintf("libmagic API violation: `%s()` did not set last error", v.Function)
	case UnexpectedReturn:
		return fmt.Sprintf("libmagic API violation: expected 0 or -1 but `%s()` returned %d", v.Function, v.Return)
	default:
		return fmt.Sprintf("libmagic API violation in `%s()`", v.Function)
	}
}

// Is makes every violation match ErrAPIViolation.
func (v *APIViolation) Is(target error) bool {
	return target == ErrAPIViolation
}

// OpenError reports that magic_open returned NULL.
type OpenError struct {
	Flags int
	Errno error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("could not open magic cookie with flags %#x: %v", e.Flags, e.Errno)
}

func (e *OpenError) Unwrap() error { return e.Errno }

// SetFlagsError reports that magic_setflags returned -1.
type SetFlagsError struct {
	Flags int
}

func (e *SetFlagsError) Error() string {
	return fmt.Sprintf("could not set magic cookie flags %#x", e.Flags)
}
