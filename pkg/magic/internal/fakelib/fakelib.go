// Package fakelib is an in-memory stand-in for libmagic used by tests.
//
// It mimics the observable behaviour the wrapper depends on: databases are
// replaced (not merged) on every load, failures set the last-error side
// channel, and every magic_close is counted so tests can assert that a handle
// was released exactly once. Fault injection knobs reproduce the ways a
// broken libmagic can violate its contract.
package fakelib

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/filemagic/magic-go/pkg/magic/internal/backend"
)

// Flag bits the fake interprets. They mirror magic.h.
const (
	flagMimeType     = 0x0000010
	flagError        = 0x0000200
	flagMimeEncoding = 0x0000400
	flagExtension    = 0x1000000
)

// compiledPrefix marks a buffer produced by Compiled.
const compiledPrefix = "fakelib-mgc:"

// Signature is one entry of a fake magic database.
type Signature struct {
	Prefix      []byte
	Description string
	MIMEType    string
	// Encoding defaults to "binary".
	Encoding string
	// Extensions defaults to "???".
	Extensions string
}

// Library implements backend.Library.
type Library struct {
	// FailOpen makes Open return NULL with this errno.
	FailOpen error
	// RejectFlags makes SetFlags return -1 when any of these bits is set.
	RejectFlags int
	// SilentErrors makes failing calls leave the side channel empty.
	SilentErrors bool
	// StatusOverride, when non-zero, is returned by the database functions
	// instead of their real result.
	StatusOverride int
	// VersionNumber is returned by Version.
	VersionNumber int

	mu        sync.Mutex
	next      backend.Handle
	databases map[string][]Signature
	defaults  []Signature
	cookies   map[backend.Handle]*cookie
	closes    map[backend.Handle]int
	badCloses int
	calls     []string
}

type cookie struct {
	flags  int
	sigs   []Signature
	loaded bool
	errMsg string
	hasErr bool
	errno  int
}

var _ backend.Library = (*Library)(nil)

// New returns an empty fake with libmagic 5.45 semantics.
func New() *Library {
	return &Library{
		VersionNumber: 545,
		next:          0x1000,
		databases:     make(map[string][]Signature),
		cookies:       make(map[backend.Handle]*cookie),
		closes:        make(map[backend.Handle]int),
	}
}

// AddDatabase registers a database file under path.
func (l *Library) AddDatabase(path string, sigs ...Signature) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.databases[path] = sigs
}

// SetDefault sets the database loaded for a NULL filename.
func (l *Library) SetDefault(sigs ...Signature) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.defaults = sigs
}

// Compiled returns the compiled form of the database registered under path,
// suitable for LoadBuffers.
func Compiled(path string) []byte {
	return []byte(compiledPrefix + path)
}

// CloseCount returns how many times magic_close was called for h.
func (l *Library) CloseCount(h backend.Handle) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closes[h]
}

// TotalCloses returns the number of magic_close calls on valid handles.
func (l *Library) TotalCloses() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, c := range l.closes {
		n += c
	}
	return n
}

// BadCloses returns the number of magic_close calls on unknown or already
// closed handles. A correct wrapper keeps this at zero.
func (l *Library) BadCloses() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.badCloses
}

// Live returns the number of open handles.
func (l *Library) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cookies)
}

// Calls returns the libmagic functions called so far, in order.
func (l *Library) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *Library) record(fn string) {
	l.calls = append(l.calls, fn)
}

func (l *Library) Open(flags int) (backend.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(backend.FnOpen)
	if l.FailOpen != nil {
		return 0, l.FailOpen
	}
	h := l.next
	l.next += 0x10
	l.cookies[h] = &cookie{flags: flags}
	return h, nil
}

func (l *Library) Close(h backend.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("magic_close")
	if _, ok := l.cookies[h]; !ok {
		l.badCloses++
		return
	}
	delete(l.cookies, h)
	l.closes[h]++
}

func (l *Library) Error(h backend.Handle) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.cookies[h]
	if !ok || !c.hasErr {
		return "", false
	}
	return c.errMsg, true
}

func (l *Library) Errno(h backend.Handle) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.cookies[h]; ok && c.hasErr {
		return c.errno
	}
	return 0
}

func (l *Library) File(h backend.Handle, name string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(backend.FnFile)
	c := l.cookie(h)
	if c == nil {
		return "", false
	}
	data, err := os.ReadFile(name)
	if err != nil {
		var errno syscall.Errno
		if !errors.As(err, &errno) && errors.Is(err, fs.ErrNotExist) {
			errno = syscall.ENOENT
		}
		msg := "cannot open `" + name + "' (" + errno.Error() + ")"
		if c.flags&flagError == 0 {
			return msg, true
		}
		l.fail(c, msg, int(errno))
		return "", false
	}
	return l.describe(c, data)
}

func (l *Library) Buffer(h backend.Handle, buf []byte) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(backend.FnBuffer)
	c := l.cookie(h)
	if c == nil {
		return "", false
	}
	return l.describe(c, buf)
}

func (l *Library) SetFlags(h backend.Handle, flags int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(backend.FnSetFlags)
	c := l.cookie(h)
	if c == nil || flags&l.RejectFlags != 0 {
		return -1
	}
	c.flags = flags
	return 0
}

func (l *Library) Check(h backend.Handle, filenames *string) int {
	return l.database(backend.FnCheck, h, filenames, nil)
}

func (l *Library) Compile(h backend.Handle, filenames *string) int {
	return l.database(backend.FnCompile, h, filenames, nil)
}

func (l *Library) List(h backend.Handle, filenames *string) int {
	return l.database(backend.FnList, h, filenames, nil)
}

func (l *Library) Load(h backend.Handle, filenames *string) int {
	return l.database(backend.FnLoad, h, filenames, func(c *cookie, sigs []Signature) {
		c.sigs = sigs
		c.loaded = true
	})
}

func (l *Library) LoadBuffers(h backend.Handle, bufs [][]byte) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(backend.FnLoadBuffers)
	c := l.cookie(h)
	if c == nil {
		return -1
	}
	if len(bufs) == 0 {
		// Rejected before the database is dropped, and without an error.
		return -1
	}
	c.sigs, c.loaded = nil, false
	if l.StatusOverride != 0 {
		return l.StatusOverride
	}
	var sigs []Signature
	for _, buf := range bufs {
		name, ok := bytes.CutPrefix(buf, []byte(compiledPrefix))
		db, known := l.databases[string(name)]
		if !ok || !known {
			l.fail(c, "bad magic file buffer", 0)
			return -1
		}
		sigs = append(sigs, db...)
	}
	c.sigs, c.loaded = sigs, true
	return 0
}

func (l *Library) Version() int {
	return l.VersionNumber
}

func (l *Library) database(fn string, h backend.Handle, filenames *string, apply func(*cookie, []Signature)) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(fn)
	c := l.cookie(h)
	if c == nil {
		return -1
	}
	if apply != nil {
		// A load drops the previous database before reading the new one.
		c.sigs, c.loaded = nil, false
	}
	if l.StatusOverride != 0 {
		return l.StatusOverride
	}

	sigs := l.defaults
	if filenames != nil {
		sigs = nil
		for _, path := range strings.Split(*filenames, ":") {
			db, ok := l.databases[path]
			if !ok {
				l.fail(c, "could not find any valid magic files!", int(syscall.ENOENT))
				return -1
			}
			sigs = append(sigs, db...)
		}
	}
	if apply != nil {
		apply(c, sigs)
	}
	return 0
}

// cookie looks up h and clears its side channel, as libmagic does at the
// start of every call. Callers hold l.mu.
func (l *Library) cookie(h backend.Handle) *cookie {
	c, ok := l.cookies[h]
	if !ok {
		return nil
	}
	c.hasErr, c.errMsg, c.errno = false, "", 0
	return c
}

func (l *Library) fail(c *cookie, msg string, errno int) {
	if l.SilentErrors {
		return
	}
	c.hasErr, c.errMsg, c.errno = true, msg, errno
}

func (l *Library) describe(c *cookie, data []byte) (string, bool) {
	if !c.loaded {
		l.fail(c, "no magic files loaded", 0)
		return "", false
	}

	sig := Signature{Description: "data", MIMEType: "application/octet-stream"}
	if len(data) == 0 {
		sig = Signature{Description: "empty", MIMEType: "application/x-empty"}
	} else {
		for _, s := range c.sigs {
			if bytes.HasPrefix(data, s.Prefix) {
				sig = s
				break
			}
		}
	}
	if sig.Encoding == "" {
		sig.Encoding = "binary"
	}
	if sig.Extensions == "" {
		sig.Extensions = "???"
	}

	switch {
	case c.flags&flagMimeType != 0 && c.flags&flagMimeEncoding != 0:
		return sig.MIMEType + "; charset=" + sig.Encoding, true
	case c.flags&flagMimeType != 0:
		return sig.MIMEType, true
	case c.flags&flagMimeEncoding != 0:
		return sig.Encoding, true
	case c.flags&flagExtension != 0:
		return sig.Extensions, true
	default:
		return sig.Description, true
	}
}
