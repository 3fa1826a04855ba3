package maps

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	ms, err := ParseString("08048000-08049000 r-xp 00000000 08:01 1234  /bin/cat")
	require.NoError(t, err)
	require.Len(t, ms, 1)

	want := Map{
		AddressRange: AddressRange{Begin: 0x08048000, End: 0x08049000},
		Permissions:  Permissions{Read: true, Write: false, Execute: true, Shared: false},
		Offset:       0,
		Device:       Device{Major: 8, Minor: 1},
		Inode:        1234,
		Pathname:     Pathname{Kind: PathnamePath, Raw: "/bin/cat"},
	}
	assert.Equal(t, want, ms[0])
	assert.Equal(t, uint64(0x1000), ms[0].AddressRange.Size())
}

func TestClassifyPathname(t *testing.T) {
	tests := []struct {
		raw  string
		kind PathnameKind
	}{
		{"", PathnameAbsent},
		{"[heap]", PathnameSpecial},
		{"/bin/ls (deleted)", PathnameDeleted},
		{"/lib/libc.so.6", PathnamePath},
		{"[stack:12345]", PathnameSpecial},
		{"[anon: scudo]", PathnameSpecial},
		{"/tmp/a b c", PathnamePath},
		{"[", PathnamePath},
		{"(deleted)", PathnamePath}, // suffix without the leading space
		{"/tmp/x (deleted) (deleted)", PathnameDeleted},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			p := classifyPathname(tt.raw)
			assert.Equal(t, tt.kind, p.Kind)
			if tt.kind == PathnameAbsent {
				assert.Empty(t, p.Raw)
			} else {
				// The raw text is retained verbatim, markers included.
				assert.Equal(t, tt.raw, p.Raw)
			}
		})
	}
}

func TestSpecialName(t *testing.T) {
	for raw, name := range map[string]string{
		"[heap]":     "heap",
		"[stack]":    "stack",
		"[vdso]":     "vdso",
		"[vvar]":     "vvar",
		"[vsyscall]": "vsyscall",
	} {
		assert.Equal(t, name, classifyPathname(raw).SpecialName())
	}
	assert.Empty(t, classifyPathname("[anon_shmem]").SpecialName())
	assert.Empty(t, classifyPathname("/bin/cat").SpecialName())
}

func TestAnonymousMapping(t *testing.T) {
	ms, err := ParseString("7fa392343000-7fa392344000 rw-p 00000000 00:00 0")
	require.NoError(t, err)
	require.Len(t, ms, 1)

	m := ms[0]
	assert.Equal(t, Device{Major: 0, Minor: 0}, m.Device)
	assert.True(t, m.Device.Zero())
	assert.Equal(t, uint64(0), m.Inode)
	assert.Equal(t, Pathname{Kind: PathnameAbsent}, m.Pathname)
}

func TestOverflowIsSemanticError(t *testing.T) {
	// 17 hex digits: matches the grammar but exceeds 64 bits.
	_, err := ParseString("fffffffffffffffff-ffffffffffffffff0 r-xp 00000000 08:01 1234")

	var sem *SemanticError
	require.ErrorAs(t, err, &sem)
	assert.Equal(t, 0, sem.Line)
	assert.Equal(t, FieldAddressRange, sem.Field)
	assert.ErrorIs(t, err, strconv.ErrRange)

	var syn *SyntaxError
	assert.False(t, errors.As(err, &syn), "overflow must be semantic, not syntactic")
}

func TestInodeOverflow(t *testing.T) {
	_, err := ParseString("00400000-00401000 r--p 00000000 08:01 99999999999999999999")

	var sem *SemanticError
	require.ErrorAs(t, err, &sem)
	assert.Equal(t, FieldInode, sem.Field)
	assert.ErrorIs(t, err, strconv.ErrRange)
}

func TestAddressOrderStrictness(t *testing.T) {
	reversed := "08049000-08048000 r-xp 00000000 08:01 1234 /bin/cat"

	_, err := ParseString(reversed)
	var sem *SemanticError
	require.ErrorAs(t, err, &sem)
	assert.Equal(t, FieldAddressRange, sem.Field)
	assert.ErrorIs(t, err, errAddressOrder)

	_, err = ParseString("08048000-08048000 r-xp 00000000 08:01 1234")
	assert.ErrorIs(t, err, errAddressOrder)

	ms, err := Parser{LooseAddressOrder: true}.ParseString(reversed)
	require.NoError(t, err)
	assert.Equal(t, AddressRange{Begin: 0x08049000, End: 0x08048000}, ms[0].AddressRange)
}

func TestDeletedSuffixRetained(t *testing.T) {
	ms, err := ParseString("7f0000000000-7f0000001000 r--p 00000000 08:01 42 /bin/ls (deleted)")
	require.NoError(t, err)

	p := ms[0].Pathname
	assert.Equal(t, PathnameDeleted, p.Kind)
	// No stripping: the marker is ambiguous, so the raw text keeps it.
	assert.Equal(t, "/bin/ls (deleted)", p.Raw)
}
