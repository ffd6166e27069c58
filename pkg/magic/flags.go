package magic

import (
	"fmt"
	"math/bits"
	"strings"
)

// Flags is the set of libmagic option bits passed to Open and SetFlags. The
// zero value requests no special handling.
type Flags int

// Single-bit flags, with the values of magic.h.
const (
	None Flags = 0

	// Debug prints debugging messages to stderr.
	Debug Flags = 0x0000001
	// Symlink follows symlinks.
	Symlink Flags = 0x0000002
	// Compress looks inside compressed files.
	Compress Flags = 0x0000004
	// Devices looks at the contents of block and character devices.
	Devices Flags = 0x0000008
	// MimeType returns the MIME type.
	MimeType Flags = 0x0000010
	// Continue returns all matches, not just the first.
	Continue Flags = 0x0000020
	// Check prints warnings while checking the database.
	Check Flags = 0x0000040
	// PreserveAtime restores the access time of analysed files. Platforms
	// without utime/utimes reject it in SetFlags.
	PreserveAtime Flags = 0x0000080
	// Raw does not convert unprintable characters.
	Raw Flags = 0x0000100
	// Error treats operating system errors as real errors instead of
	// printing them in the description.
	Error Flags = 0x0000200
	// MimeEncoding returns the MIME encoding.
	MimeEncoding Flags = 0x0000400
	// Apple returns the Apple creator and type.
	Apple Flags = 0x0000800
	// NoCheckCompress skips looking inside compressed files.
	NoCheckCompress Flags = 0x0001000
	// NoCheckTar skips tar archives.
	NoCheckTar Flags = 0x0002000
	// NoCheckSoft skips the magic database entries.
	NoCheckSoft Flags = 0x0004000
	// NoCheckAppType skips EMX application types.
	NoCheckAppType Flags = 0x0008000
	// NoCheckELF skips ELF details.
	NoCheckELF Flags = 0x0010000
	// NoCheckText skips text files.
	NoCheckText Flags = 0x0020000
	// NoCheckCDF skips Compound Document Files.
	NoCheckCDF Flags = 0x0040000
	// NoCheckCSV skips CSV files.
	NoCheckCSV Flags = 0x0080000
	// NoCheckTokens skips looking for known tokens inside ASCII files.
	NoCheckTokens Flags = 0x0100000
	// NoCheckEncoding skips text encodings.
	NoCheckEncoding Flags = 0x0200000
	// NoCheckJSON skips JSON files.
	NoCheckJSON Flags = 0x0400000
	// NoCheckSimh skips SIMH tape files.
	NoCheckSimh Flags = 0x0800000
	// Extension returns a slash-separated list of extensions.
	Extension Flags = 0x1000000
	// CompressTransp checks inside compressed files but does not report the
	// compression.
	CompressTransp Flags = 0x2000000
	// NoCompressFork does not allow decompressors that use fork.
	NoCompressFork Flags = 0x4000000
)

// Composite flags.
const (
	// Mime returns both the MIME type and the encoding.
	Mime = MimeType | MimeEncoding
	// NoDesc covers the flags that do not produce a textual description.
	NoDesc = Extension | Mime | Apple
	// NoCheckBuiltin disables every built-in test.
	NoCheckBuiltin = NoCheckCompress | NoCheckTar | NoCheckAppType | NoCheckELF |
		NoCheckText | NoCheckCSV | NoCheckCDF | NoCheckTokens | NoCheckEncoding |
		NoCheckJSON | NoCheckSimh
)

var flagNames = map[Flags]string{
	Debug:           "Debug",
	Symlink:         "Symlink",
	Compress:        "Compress",
	Devices:         "Devices",
	MimeType:        "MimeType",
	Continue:        "Continue",
	Check:           "Check",
	PreserveAtime:   "PreserveAtime",
	Raw:             "Raw",
	Error:           "Error",
	MimeEncoding:    "MimeEncoding",
	Apple:           "Apple",
	NoCheckCompress: "NoCheckCompress",
	NoCheckTar:      "NoCheckTar",
	NoCheckSoft:     "NoCheckSoft",
	NoCheckAppType:  "NoCheckAppType",
	NoCheckELF:      "NoCheckELF",
	NoCheckText:     "NoCheckText",
	NoCheckCDF:      "NoCheckCDF",
	NoCheckCSV:      "NoCheckCSV",
	NoCheckTokens:   "NoCheckTokens",
	NoCheckEncoding: "NoCheckEncoding",
	NoCheckJSON:     "NoCheckJSON",
	NoCheckSimh:     "NoCheckSimh",
	Extension:       "Extension",
	CompressTransp:  "CompressTransp",
	NoCompressFork:  "NoCompressFork",
}

// Union returns f with every bit of others added.
func (f Flags) Union(others ...Flags) Flags {
	for _, o := range others {
		f |= o
	}
	return f
}

// Has reports whether every bit of other is set in f.
func (f Flags) Has(other Flags) bool {
	return f&other == other
}

// Without returns f with the bits of other cleared.
func (f Flags) Without(other Flags) Flags {
	return f &^ other
}

// IsEmpty reports whether no bit is set.
func (f Flags) IsEmpty() bool {
	return f == 0
}

// String lists the set bits in ascending order, for diagnostics only. Bits
// without a name are printed in hex.
func (f Flags) String() string {
	if f == 0 {
		return "None"
	}
	var parts []string
	u := uint64(uint(f))
	for u != 0 {
		bit := Flags(1) << bits.TrailingZeros64(u)
		u &^= uint64(uint(bit))
		if name, ok := flagNames[bit]; ok {
			parts = append(parts, name)
		} else {
			parts = append(parts, fmt.Sprintf("%#x", uint(bit)))
		}
	}
	return strings.Join(parts, " | ")
}

var flagsByName = func() map[string]Flags {
	m := map[string]Flags{
		"none":           None,
		"mime":           Mime,
		"nodesc":         NoDesc,
		"nocheckbuiltin": NoCheckBuiltin,
	}
	for f, name := range flagNames {
		m[normalizeFlagName(name)] = f
	}
	return m
}()

func normalizeFlagName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "", "-", "").Replace(name)
}

// ParseFlags returns the union of the named flags. Names are matched case
// insensitively with '_' and '-' ignored, so "MIME_TYPE", "mime-type" and
// "MimeType" are the same flag. Composite names such as "Mime" are accepted.
func ParseFlags(names ...string) (Flags, error) {
	var f Flags
	for _, name := range names {
		v, ok := flagsByName[normalizeFlagName(name)]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownFlag, name)
		}
		f |= v
	}
	return f, nil
}
