package magic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/filemagic/magic-go/pkg/magic/internal/backend"
	"github.com/filemagic/magic-go/pkg/magic/logging"
)

// DefaultReadLimit is the number of bytes Reader consumes when no limit is
// given.
const DefaultReadLimit int64 = 1 << 20

// cookie is the state shared by Cookie and LoadedCookie. A nil native handle
// means the cookie was closed or its handle moved to another value.
type cookie struct {
	native           *backend.Cookie
	flags            Flags
	log              logging.Logger
	panicOnViolation bool
}

// Cookie is an open libmagic cookie without a loaded database. It can be
// configured and can compile, check or list databases, but it cannot analyse
// data until Load or LoadBuffers turns it into a LoadedCookie.
//
// A Cookie is not safe for concurrent use.
type Cookie struct {
	cookie
}

// LoadedCookie is a cookie with a loaded database. Only a LoadedCookie can
// analyse files and buffers.
//
// A LoadedCookie is not safe for concurrent use.
type LoadedCookie struct {
	cookie
}

// Open opens a new cookie with flags.
func Open(flags Flags) (*Cookie, error) {
	return OpenConfig(Config{Flags: flags})
}

// OpenConfig opens a new cookie with the options in cfg.
func OpenConfig(cfg Config) (*Cookie, error) {
	cfg = cfg.withDefaults()
	log := cfg.Logger.With("component", "magic")

	native, err := backend.Open(cfg.library, int(cfg.Flags))
	if err != nil {
		oerr := openError(cfg.Flags, err)
		log.Debug(context.Background(), "libmagic call failed", "function", backend.FnOpen, "flags", cfg.Flags.String(), "error", oerr)
		return nil, oerr
	}
	return &Cookie{cookie{
		native:           native,
		flags:            cfg.Flags,
		log:              log,
		panicOnViolation: cfg.PanicOnViolation,
	}}, nil
}

func openError(flags Flags, err error) *OpenError {
	var oerr *backend.OpenError
	if !errors.As(err, &oerr) {
		return &OpenError{Flags: flags, Kind: OpenErrno, Err: err}
	}
	kind := OpenErrno
	if backend.IsUnsupportedFlags(oerr.Errno) {
		kind = OpenUnsupportedFlags
	}
	return &OpenError{Flags: flags, Kind: kind, Err: oerr.Errno}
}

// Close releases the native cookie. It is safe to call more than once, and it
// does nothing on a cookie whose handle moved to a LoadedCookie.
func (c *cookie) Close() error {
	if c.native == nil {
		return nil
	}
	c.native.Close()
	c.native = nil
	return nil
}

// Flags returns the flags last applied by Open or SetFlags.
func (c *cookie) Flags() Flags {
	return c.flags
}

// SetFlags replaces the cookie flags. libmagic only rejects PreserveAtime,
// and only on platforms that cannot restore access times.
func (c *cookie) SetFlags(flags Flags) error {
	if c.native == nil {
		return ErrClosed
	}
	if err := c.native.SetFlags(int(flags)); err != nil {
		serr := &SetFlagsError{Flags: PreserveAtime, Requested: flags, Err: err}
		c.log.Warn(context.Background(), "libmagic call failed", "function", backend.FnSetFlags, "flags", flags.String(), "error", serr)
		return serr
	}
	c.flags = flags
	return nil
}

// Compile compiles each database in db and writes the result, named after
// the source file with a .mgc suffix, into the current directory.
func (c *cookie) Compile(db Database) error {
	return c.database(backend.FnCompile, (*backend.Cookie).Compile, db)
}

// Check checks the validity of the databases in db.
func (c *cookie) Check(db Database) error {
	return c.database(backend.FnCheck, (*backend.Cookie).Check, db)
}

// List dumps the entries of the databases in db to stdout.
func (c *cookie) List(db Database) error {
	return c.database(backend.FnList, (*backend.Cookie).List, db)
}

// Load loads the databases in db and returns a LoadedCookie that owns the
// native handle. Any database loaded before is replaced, not merged.
//
// On success c gives up its handle: further calls on it return ErrClosed. On
// failure c keeps the handle and stays usable, but libmagic has already
// dropped the previous database.
func (c *cookie) Load(db Database) (*LoadedCookie, error) {
	if err := c.database(backend.FnLoad, (*backend.Cookie).Load, db); err != nil {
		return nil, err
	}
	c.log.Info(context.Background(), "magic database loaded", "function", backend.FnLoad, "database", db.String())
	return c.move(), nil
}

// LoadBuffers loads compiled databases from memory, as produced by Compile,
// and returns a LoadedCookie. Ownership follows the rules of Load. The
// buffers are copied, so the caller may reuse them. Calling it without
// buffers returns ErrNoBuffers and leaves c and its database untouched.
func (c *cookie) LoadBuffers(bufs ...[]byte) (*LoadedCookie, error) {
	if c.native == nil {
		return nil, ErrClosed
	}
	if len(bufs) == 0 {
		return nil, ErrNoBuffers
	}
	if err := c.native.LoadBuffers(bufs); err != nil {
		return nil, c.fail(backend.FnLoadBuffers, err)
	}
	c.log.Info(context.Background(), "magic database loaded", "function", backend.FnLoadBuffers, "buffers", len(bufs))
	return c.move(), nil
}

func (c *cookie) database(fn string, call func(*backend.Cookie, *string) error, db Database) error {
	if c.native == nil {
		return ErrClosed
	}
	if err := call(c.native, db.native()); err != nil {
		return c.fail(fn, err)
	}
	return nil
}

func (c *cookie) move() *LoadedCookie {
	loaded := &LoadedCookie{cookie: *c}
	c.native = nil
	return loaded
}

// fail wraps err from the libmagic function fn and logs it. Violations are
// logged at Error level and panic when the cookie was opened with
// PanicOnViolation.
func (c *cookie) fail(fn string, err error) error {
	cerr := &CookieError{Function: fn, Err: err}
	if errors.Is(err, ErrAPIViolation) {
		c.log.Error(context.Background(), "libmagic API violation", "function", fn, "error", err)
		if c.panicOnViolation {
			panic(cerr)
		}
		return cerr
	}
	c.log.Debug(context.Background(), "libmagic call failed", "function", fn, "error", err)
	return cerr
}

// File returns the description of the named file. A name containing a NUL
// byte is rejected with ErrNulByte before libmagic is called.
func (c *LoadedCookie) File(path string) (string, error) {
	if c.native == nil {
		return "", ErrClosed
	}
	if strings.IndexByte(path, 0) >= 0 {
		return "", ErrNulByte
	}
	res, err := c.native.File(path)
	if err != nil {
		return "", c.fail(backend.FnFile, err)
	}
	return res, nil
}

// Buffer returns the description of data.
func (c *LoadedCookie) Buffer(data []byte) (string, error) {
	if c.native == nil {
		return "", ErrClosed
	}
	res, err := c.native.Buffer(data)
	if err != nil {
		return "", c.fail(backend.FnBuffer, err)
	}
	return res, nil
}

// Reader reads at most limit bytes from r and describes them with Buffer. A
// limit of zero or less means DefaultReadLimit.
func (c *LoadedCookie) Reader(r io.Reader, limit int64) (string, error) {
	if c.native == nil {
		return "", ErrClosed
	}
	if limit <= 0 {
		limit = DefaultReadLimit
	}
	data, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return "", fmt.Errorf("magic: read input: %w", err)
	}
	return c.Buffer(data)
}
