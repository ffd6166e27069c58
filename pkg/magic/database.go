package magic

import (
	"strings"
)

// Database selects the magic database files a cookie works with. The zero
// value, like DefaultDatabase, lets libmagic pick its default database
// (the MAGIC environment variable, then the compiled-in location).
type Database struct {
	joined string
	set    bool
}

// DefaultDatabase returns the Database that selects libmagic's default.
func DefaultDatabase() Database {
	return Database{}
}

// NewDatabase returns a Database listing paths in order. The paths are
// joined with ':' as libmagic expects; when the joined form is empty (no
// paths, or a single empty path) the default database is returned. Paths
// containing ':' (libmagic's separator) or a NUL byte are rejected.
func NewDatabase(paths ...string) (Database, error) {
	for _, p := range paths {
		switch {
		case strings.ContainsRune(p, ':'):
			return Database{}, &InvalidDatabasePathError{Path: p, Reason: "path contains the ':' separator"}
		case strings.IndexByte(p, 0) >= 0:
			return Database{}, &InvalidDatabasePathError{Path: p, Reason: "path contains a NUL byte"}
		}
	}
	joined := strings.Join(paths, ":")
	if joined == "" {
		return DefaultDatabase(), nil
	}
	return Database{joined: joined, set: true}, nil
}

// MustDatabase is like NewDatabase but panics on error.
func MustDatabase(paths ...string) Database {
	db, err := NewDatabase(paths...)
	if err != nil {
		panic(err)
	}
	return db
}

// IsDefault reports whether d selects libmagic's default database.
func (d Database) IsDefault() bool {
	return !d.set
}

// Paths returns the listed paths, or nil for the default database.
func (d Database) Paths() []string {
	if !d.set {
		return nil
	}
	return strings.Split(d.joined, ":")
}

func (d Database) String() string {
	if !d.set {
		return "<default>"
	}
	return d.joined
}

// native returns the filenames argument of the libmagic database functions;
// nil stands for NULL.
func (d Database) native() *string {
	if !d.set {
		return nil
	}
	s := d.joined
	return &s
}
