// Package magic identifies file types with libmagic, the library behind
// file(1).
//
// The native cookie goes through two states, and each has its own Go type so
// that analysing data without a loaded database does not compile:
//
//	cookie, err := magic.Open(magic.MimeType)
//	if err != nil {
//	    return err
//	}
//	defer cookie.Close()
//
//	loaded, err := cookie.Load(magic.DefaultDatabase())
//	if err != nil {
//	    return err
//	}
//	defer loaded.Close()
//
//	mime, err := loaded.File("image.png")
//
// Load and LoadBuffers move the native handle into the returned LoadedCookie;
// the receiver is left empty and its Close does nothing. When they fail the
// receiver keeps the handle. Each native handle is closed exactly once, by
// Close or, for leaked values, by a finalizer.
//
// Cookies are not safe for concurrent use. Open one per goroutine.
//
// # Building
//
// The libmagic bindings need cgo and the libmagic development files, and are
// enabled with the libmagic build tag:
//
//	go build -tags libmagic ./...
//
// Without the tag every Open fails with ErrNotBuilt.
package magic
