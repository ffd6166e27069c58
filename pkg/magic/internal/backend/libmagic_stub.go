//go:build !cgo || !libmagic

package backend

// Stub library for builds without cgo or without the libmagic tag. It
// compiles everywhere and reports ErrNotBuilt from Open, so no other entry
// point is ever reached with a live handle.

type stubLibrary struct{}

// Native returns the process-wide libmagic entry points.
func Native() Library { return stubLibrary{} }

// Linked reports whether the real libmagic is linked into this binary.
func Linked() bool { return false }

func (stubLibrary) Open(int) (Handle, error) { return 0, ErrNotBuilt }
func (stubLibrary) Close(Handle) {}
func (stubLibrary) Error(Handle) (string, bool) { return ErrNotBuilt.Error(), true }
func (stubLibrary) Errno(Handle) int { return 0 }
func (stubLibrary) File(Handle, string) (string, bool) { return "", false }
func (stubLibrary) Buffer(Handle, []byte) (string, bool) { return "", false }
func (stubLibrary) SetFlags(Handle, int) int { return -1 }
func (stubLibrary) Check(Handle, *string) int { return -1 }
func (stubLibrary) Compile(Handle, *string) int { return -1 }
func (stubLibrary) List(Handle, *string) int { return -1 }
func (stubLibrary) Load(Handle, *string) int { return -1 }
func (stubLibrary) LoadBuffers(Handle, [][]byte) int { return -1 }
func (stubLibrary) Version() int { return 0 }
