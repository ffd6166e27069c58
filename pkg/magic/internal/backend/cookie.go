package backend

import (
	"runtime"
	"strings"
	"syscall"
)

// Cookie owns one libmagic handle. The handle is closed exactly once, either
// by Close or by the finalizer when the Cookie becomes unreachable.
//
// Every failing call reads the last-error side channel immediately, on the
// same handle, before returning.
type Cookie struct {
	lib    Library
	handle Handle
}

// Open calls magic_open with flags. Note that libmagic accepts most invalid
// bits here and only rejects them later in SetFlags.
func Open(lib Library, flags int) (*Cookie, error) {
	h, err := lib.Open(flags)
	if h == 0 {
		if err == nil {
			err = errNoErrno
		}
		return nil, &OpenError{Flags: flags, Errno: err}
	}

	c := &Cookie{lib: lib, handle: h}
	runtime.SetFinalizer(c, (*Cookie).Close)
	return c, nil
}

// Close calls magic_close. Calling it again is a no-op.
func (c *Cookie) Close() {
	if c == nil || c.handle == 0 {
		return
	}
	c.lib.Close(c.handle)
	c.handle = 0
	runtime.SetFinalizer(c, nil)
}

// Closed reports whether the native handle was released.
func (c *Cookie) Closed() bool {
	return c == nil || c.handle == 0
}

// File calls magic_file.
func (c *Cookie) File(name string) (string, error) {
	if c.Closed() {
		return "", ErrClosed
	}
	if strings.IndexByte(name, 0) >= 0 {
		return "", ErrNulByte
	}
	res, ok := c.lib.File(c.handle, name)
	if !ok {
		return "", c.expectError(FnFile)
	}
	runtime.KeepAlive(c)
	return res, nil
}

// Buffer calls magic_buffer.
func (c *Cookie) Buffer(buf []byte) (string, error) {
	if c.Closed() {
		return "", ErrClosed
	}
	res, ok := c.lib.Buffer(c.handle, buf)
	if !ok {
		return "", c.expectError(FnBuffer)
	}
	runtime.KeepAlive(c)
	return res, nil
}

// SetFlags calls magic_setflags. libmagic does not consult the side channel
// here, so neither do we.
func (c *Cookie) SetFlags(flags int) error {
	if c.Closed() {
		return ErrClosed
	}
	rc := c.lib.SetFlags(c.handle, flags)
	runtime.KeepAlive(c)
	if rc == -1 {
		return &SetFlagsError{Flags: flags}
	}
	return nil
}

// Check calls magic_check. A nil filenames selects the default database.
func (c *Cookie) Check(filenames *string) error {
	return c.database(FnCheck, c.lib.Check, filenames)
}

// Compile calls magic_compile.
func (c *Cookie) Compile(filenames *string) error {
	return c.database(FnCompile, c.lib.Compile, filenames)
}

// List calls magic_list.
func (c *Cookie) List(filenames *string) error {
	return c.database(FnList, c.lib.List, filenames)
}

// Load calls magic_load. Loading replaces any previously loaded database.
func (c *Cookie) Load(filenames *string) error {
	return c.database(FnLoad, c.lib.Load, filenames)
}

// LoadBuffers calls magic_load_buffers with compiled databases. An empty
// list is rejected with ErrNoBuffers: libmagic fails that call without
// setting an error and without dropping the current database.
func (c *Cookie) LoadBuffers(bufs [][]byte) error {
	if c.Closed() {
		return ErrClosed
	}
	if len(bufs) == 0 {
		return ErrNoBuffers
	}
	rc := c.lib.LoadBuffers(c.handle, bufs)
	err := c.status(FnLoadBuffers, rc)
	runtime.KeepAlive(c)
	return err
}

func (c *Cookie) database(fn string, call func(Handle, *string) int, filenames *string) error {
	if c.Closed() {
		return ErrClosed
	}
	if filenames != nil && strings.IndexByte(*filenames, 0) >= 0 {
		return ErrNulByte
	}
	rc := call(c.handle, filenames)
	err := c.status(fn, rc)
	runtime.KeepAlive(c)
	return err
}

// status maps the 0 / -1 convention shared by the database functions.
func (c *Cookie) status(fn string, rc int) error {
	switch rc {
	case 0:
		return nil
	case -1:
		return c.expectError(fn)
	default:
		return &APIViolation{Kind: UnexpectedReturn, Function: fn, Return: rc}
	}
}

func (c *Cookie) lastError() (*Error, bool) {
	msg, ok := c.lib.Error(c.handle)
	errno := c.lib.Errno(c.handle)
	if !ok {
		return nil, false
	}
	return &Error{Explanation: msg, Errno: syscall.Errno(errno)}, true
}

func (c *Cookie) expectError(fn string) error {
	if e, ok := c.lastError(); ok {
		return e
	}
	return &APIViolation{Kind: MissingError, Function: fn}
}

// Version calls magic_version.
func Version(lib Library) int {
	return lib.Version()
}
