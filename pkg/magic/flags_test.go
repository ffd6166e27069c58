package magic_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/filemagic/magic-go/pkg/magic"
)

var namedFlags = []magic.Flags{
	magic.Debug, magic.Symlink, magic.Compress, magic.Devices, magic.MimeType,
	magic.Continue, magic.Check, magic.PreserveAtime, magic.Raw, magic.Error,
	magic.MimeEncoding, magic.Apple, magic.NoCheckCompress, magic.NoCheckTar,
	magic.NoCheckSoft, magic.NoCheckAppType, magic.NoCheckELF, magic.NoCheckText,
	magic.NoCheckCDF, magic.NoCheckCSV, magic.NoCheckTokens, magic.NoCheckEncoding,
	magic.NoCheckJSON, magic.NoCheckSimh, magic.Extension, magic.CompressTransp,
	magic.NoCompressFork,
}

func TestCompositeFlags(t *testing.T) {
	assert.Equal(t, magic.Flags(0x410), magic.Mime)
	assert.Equal(t, magic.Flags(0x1000c10), magic.NoDesc)
	assert.Equal(t, magic.Flags(0xffb000), magic.NoCheckBuiltin)
	assert.False(t, magic.NoCheckBuiltin.Has(magic.NoCheckSoft))
	assert.True(t, magic.NoDesc.Has(magic.Mime))
	assert.True(t, magic.None.IsEmpty())

	var zero magic.Flags
	assert.Equal(t, magic.None, zero)
	assert.True(t, zero.IsEmpty())
}

func TestFlagsString(t *testing.T) {
	tests := []struct {
		flags magic.Flags
		want  string
	}{
		{magic.None, "None"},
		{magic.Symlink, "Symlink"},
		{magic.MimeType | magic.Symlink, "Symlink | MimeType"},
		{magic.Mime, "MimeType | MimeEncoding"},
		{magic.Error | magic.Flags(0x8000000), "Error | 0x8000000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.flags.String())
	}
}

func TestParseFlags(t *testing.T) {
	f, err := magic.ParseFlags("MIME_TYPE", "no-check-elf", "symlink")
	require.NoError(t, err)
	assert.Equal(t, magic.MimeType|magic.NoCheckELF|magic.Symlink, f)

	f, err = magic.ParseFlags("mime", "NoDesc")
	require.NoError(t, err)
	assert.Equal(t, magic.NoDesc, f)

	f, err = magic.ParseFlags()
	require.NoError(t, err)
	assert.Equal(t, magic.None, f)

	_, err = magic.ParseFlags("mime", "bogus")
	assert.ErrorIs(t, err, magic.ErrUnknownFlag)
	assert.Contains(t, err.Error(), `"bogus"`)
}

func TestFlagsUnionProperties(t *testing.T) {
	gen := rapid.Custom(func(t *rapid.T) magic.Flags {
		return magic.Flags(rapid.IntRange(0, 0x7ffffff).Draw(t, "bits"))
	})
	rapid.Check(t, func(t *rapid.T) {
		a, b := gen.Draw(t, "a"), gen.Draw(t, "b")
		u := a.Union(b)
		if !u.Has(a) || !u.Has(b) {
			t.Fatalf("%v | %v = %v misses an operand", a, b, u)
		}
		if u != b.Union(a) {
			t.Fatalf("union is not commutative for %v and %v", a, b)
		}
		if u.Union(b) != u {
			t.Fatalf("union is not idempotent: (%v | %v) | %v = %v", a, b, b, u.Union(b))
		}
		if a.Union(magic.None) != a {
			t.Fatalf("None is not neutral for %v", a)
		}
		if !b.IsEmpty() && u.Without(b).Has(b) {
			t.Fatalf("Without(%v) left bits set in %v", b, u)
		}
	})
}

func TestParseFlagsRoundTripsString(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		picked := rapid.SliceOfDistinct(rapid.SampledFrom(namedFlags), func(f magic.Flags) magic.Flags { return f }).Draw(t, "flags")
		want := magic.None.Union(picked...)

		got, err := magic.ParseFlags(strings.Split(want.String(), " | ")...)
		if err != nil {
			t.Fatalf("ParseFlags(%q): %v", want.String(), err)
		}
		if got != want {
			t.Fatalf("ParseFlags(%q) = %v, want %v", want.String(), got, want)
		}
	})
}
