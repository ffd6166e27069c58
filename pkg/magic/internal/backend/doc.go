// Package backend hosts the native call layer that links the Go API to the
// libmagic C library.
//
// Each exported operation wraps exactly one libmagic entry point and turns its
// return convention (NULL pointer, -1, errno, last-error side channel) into a
// Go error. The raw entry points are reached through the Library interface so
// that the translation logic can run against an instrumented fake in tests.
//
// The cgo implementation lives behind the `libmagic` build tag so that the
// rest of the repository compiles without libmagic headers or cgo. Without
// the tag Native returns a stub whose Open reports ErrNotBuilt.
//
// # Threading
//
// A libmagic cookie is not safe for concurrent use. Callers must use one
// Cookie per goroutine or synchronize externally.
package backend
