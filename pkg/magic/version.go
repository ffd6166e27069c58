package magic

import (
	"strconv"

	"github.com/filemagic/magic-go/pkg/magic/internal/backend"
)

// Version is the wrapper version, set at build time with
// -ldflags "-X github.com/filemagic/magic-go/pkg/magic.Version=v1.2.3".
var Version = "v0.0.0-in-progress"

// WrapperVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-in-progress.
func WrapperVersion() string {
	return Version
}

// LibraryVersion returns magic_version() of the linked libmagic, encoded as
// MAJOR*100 + MINOR (545 for 5.45). It returns 0 when libmagic is not linked.
func LibraryVersion() int {
	if !backend.Linked() {
		return 0
	}
	return backend.Version(backend.Native())
}

// LibraryVersionString formats LibraryVersion as "MAJOR.MINOR", or returns
// "unavailable" when libmagic is not linked.
func LibraryVersionString() string {
	return formatLibraryVersion(LibraryVersion())
}

func formatLibraryVersion(v int) string {
	if v <= 0 {
		return "unavailable"
	}
	minor := strconv.Itoa(v % 100)
	if len(minor) == 1 {
		minor = "0" + minor
	}
	return strconv.Itoa(v/100) + "." + minor
}
