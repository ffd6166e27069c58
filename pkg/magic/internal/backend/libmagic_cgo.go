//go:build cgo && libmagic

package backend

/*
#cgo LDFLAGS: -lmagic
#cgo darwin CFLAGS: -I/opt/homebrew/include -I/usr/local/include
#cgo darwin LDFLAGS: -L/opt/homebrew/lib -L/usr/local/lib
#include <stdlib.h>
#include <magic.h>
*/
import "C"

import (
	"sync"
	"unsafe"
)

// cLibrary calls into the linked libmagic. It is the only code in the module
// that imports "C".
type cLibrary struct {
	mu sync.Mutex
	// pinned holds the C copies of compiled databases passed to
	// magic_load_buffers. libmagic reads them in place until another load
	// succeeds or magic_close, so they cannot live in Go memory.
	pinned map[Handle][]unsafe.Pointer
}

var native = &cLibrary{pinned: make(map[Handle][]unsafe.Pointer)}

// Native returns the process-wide libmagic entry points.
func Native() Library { return native }

// Linked reports whether the real libmagic is linked into this binary.
func Linked() bool { return true }

func cookie(h Handle) C.magic_t {
	return C.magic_t(unsafe.Pointer(h))
}

func (l *cLibrary) Open(flags int) (Handle, error) {
	m, err := C.magic_open(C.int(flags))
	if m == nil {
		return 0, err
	}
	return Handle(uintptr(unsafe.Pointer(m))), nil
}

func (l *cLibrary) Close(h Handle) {
	C.magic_close(cookie(h))
	l.repin(h, nil)
}

func (l *cLibrary) Error(h Handle) (string, bool) {
	msg := C.magic_error(cookie(h))
	if msg == nil {
		return "", false
	}
	return C.GoString(msg), true
}

func (l *cLibrary) Errno(h Handle) int {
	return int(C.magic_errno(cookie(h)))
}

func (l *cLibrary) File(h Handle, name string) (string, bool) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	res := C.magic_file(cookie(h), cname)
	if res == nil {
		return "", false
	}
	return C.GoString(res), true
}

func (l *cLibrary) Buffer(h Handle, buf []byte) (string, bool) {
	var data unsafe.Pointer
	if len(buf) > 0 {
		data = unsafe.Pointer(&buf[0])
	}
	res := C.magic_buffer(cookie(h), data, C.size_t(len(buf)))
	if res == nil {
		return "", false
	}
	return C.GoString(res), true
}

func (l *cLibrary) SetFlags(h Handle, flags int) int {
	return int(C.magic_setflags(cookie(h), C.int(flags)))
}

func (l *cLibrary) Check(h Handle, filenames *string) int {
	cs, free := cFilenames(filenames)
	defer free()
	return int(C.magic_check(cookie(h), cs))
}

func (l *cLibrary) Compile(h Handle, filenames *string) int {
	cs, free := cFilenames(filenames)
	defer free()
	return int(C.magic_compile(cookie(h), cs))
}

func (l *cLibrary) List(h Handle, filenames *string) int {
	cs, free := cFilenames(filenames)
	defer free()
	return int(C.magic_list(cookie(h), cs))
}

func (l *cLibrary) Load(h Handle, filenames *string) int {
	cs, free := cFilenames(filenames)
	defer free()
	rc := int(C.magic_load(cookie(h), cs))
	if rc == 0 {
		// The buffers of a previous magic_load_buffers are no longer
		// referenced.
		l.repin(h, nil)
	}
	return rc
}

func (l *cLibrary) LoadBuffers(h Handle, bufs [][]byte) int {
	n := len(bufs)
	if n == 0 {
		// libmagic returns -1 without touching the loaded database.
		return -1
	}
	ptrMem := C.malloc(C.size_t(n) * C.size_t(unsafe.Sizeof(unsafe.Pointer(nil))))
	sizeMem := C.malloc(C.size_t(n) * C.size_t(unsafe.Sizeof(C.size_t(0))))
	defer C.free(ptrMem)
	defer C.free(sizeMem)

	ptrs := unsafe.Slice((*unsafe.Pointer)(ptrMem), n)
	sizes := unsafe.Slice((*C.size_t)(sizeMem), n)
	copies := make([]unsafe.Pointer, n)
	for i, buf := range bufs {
		copies[i] = C.CBytes(buf)
		ptrs[i] = copies[i]
		sizes[i] = C.size_t(len(buf))
	}

	rc := int(C.magic_load_buffers(cookie(h), (*unsafe.Pointer)(ptrMem), (*C.size_t)(sizeMem), C.size_t(n)))
	if rc != 0 {
		// Nothing refers to the new copies. The old ones stay pinned until
		// a load succeeds or the cookie is closed, whatever libmagic did
		// with its database.
		freeAll(copies)
		return rc
	}
	l.repin(h, copies)
	return rc
}

func (l *cLibrary) Version() int {
	return int(C.magic_version())
}

// repin frees the buffers previously pinned for h and records next in their
// place. It must only be called once libmagic has let go of the old buffers.
func (l *cLibrary) repin(h Handle, next []unsafe.Pointer) {
	l.mu.Lock()
	old := l.pinned[h]
	if next == nil {
		delete(l.pinned, h)
	} else {
		l.pinned[h] = next
	}
	l.mu.Unlock()
	freeAll(old)
}

func freeAll(ptrs []unsafe.Pointer) {
	for _, p := range ptrs {
		C.free(p)
	}
}

func cFilenames(filenames *string) (*C.char, func()) {
	if filenames == nil {
		return nil, func() {}
	}
	cs := C.CString(*filenames)
	return cs, func() { C.free(unsafe.Pointer(cs)) }
}
