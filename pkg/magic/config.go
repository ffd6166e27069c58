package magic

import (
	"github.com/filemagic/magic-go/pkg/magic/internal/backend"
	"github.com/filemagic/magic-go/pkg/magic/logging"
)

// Config holds the options for OpenConfig. The zero value opens a cookie with
// no flags and no logging.
type Config struct {
	// Flags are passed to magic_open.
	Flags Flags

	// Logger receives a Debug record for every failed libmagic call, a Warn
	// record for rejected flags, an Info record for every loaded database
	// and an Error record for every API violation. Nil discards them.
	Logger logging.Logger

	// PanicOnViolation panics instead of returning an error when libmagic
	// breaks its documented contract.
	PanicOnViolation bool

	// library replaces the linked libmagic in tests.
	library backend.Library
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = logging.Discard()
	}
	if c.library == nil {
		c.library = backend.Native()
	}
	return c
}
