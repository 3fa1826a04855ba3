package maps

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monsterxx03/procmaps/pkg/proc"
)

const listing = `00400000-005af000 r-xp 00000000 103:02 5789181 /bin/snet
7fa392342000-7fa392343000 rw-p 00028000 103:02 12980870 /lib/x86_64-linux-gnu/ld-2.27.so
7fa392343000-7fa392344000 rw-p 00000000 00:00 0
ffffffffff600000-ffffffffff601000 r-xp 00000000 00:00 0 [vsyscall]
`

func TestParseStringOrder(t *testing.T) {
	ms, err := ParseString(listing)
	require.NoError(t, err)

	want := Maps{
		{
			AddressRange: AddressRange{Begin: 0x400000, End: 0x5af000},
			Permissions:  Permissions{Read: true, Execute: true},
			Device:       Device{Major: 0x103, Minor: 2},
			Inode:        5789181,
			Pathname:     Pathname{Kind: PathnamePath, Raw: "/bin/snet"},
		},
		{
			AddressRange: AddressRange{Begin: 0x7fa392342000, End: 0x7fa392343000},
			Permissions:  Permissions{Read: true, Write: true},
			Offset:       0x28000,
			Device:       Device{Major: 0x103, Minor: 2},
			Inode:        12980870,
			Pathname:     Pathname{Kind: PathnamePath, Raw: "/lib/x86_64-linux-gnu/ld-2.27.so"},
		},
		{
			AddressRange: AddressRange{Begin: 0x7fa392343000, End: 0x7fa392344000},
			Permissions:  Permissions{Read: true, Write: true},
			Pathname:     Pathname{Kind: PathnameAbsent},
		},
		{
			AddressRange: AddressRange{Begin: 0xffffffffff600000, End: 0xffffffffff601000},
			Permissions:  Permissions{Read: true, Execute: true},
			Pathname:     Pathname{Kind: PathnameSpecial, Raw: "[vsyscall]"},
		},
	}
	assert.Equal(t, want, ms)
}

func TestFirstFailingLineAborts(t *testing.T) {
	input := "00400000-00401000 r-xp 00000000 00:00 0\n" +
		"00401000-00402000 rw-p 00000000 00:00 0\n" +
		"garbage\n" +
		"00402000-00403000 rw-p 00000000 00:00 0\n"

	ms, err := ParseString(input)
	assert.Nil(t, ms, "no partial result on failure")

	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 2, serr.Line)
}

func TestMalformedLineRejected(t *testing.T) {
	// Missing "-end" in the address range.
	_, err := ParseString("08048000 r-xp 00000000 08:01 1234 /bin/cat")

	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 0, serr.Line)
	assert.Equal(t, FieldAddressRange, serr.Field)
}

func TestSemanticErrorLineIndex(t *testing.T) {
	input := "00400000-00401000 r-xp 00000000 00:00 0\n" +
		"fffffffffffffffff-ffffffffffffffff0 r-xp 00000000 00:00 0\n"

	_, err := ParseString(input)
	var sem *SemanticError
	require.ErrorAs(t, err, &sem)
	assert.Equal(t, 1, sem.Line)
}

func TestRoundTrip(t *testing.T) {
	ms, err := FromPath("testdata/maps")
	require.NoError(t, err)
	require.NotEmpty(t, ms)

	for _, m := range ms {
		back, err := ParseString(m.String())
		require.NoError(t, err, "re-parsing %q", m.String())
		require.Len(t, back, 1)
		assert.Equal(t, m, back[0])
	}
}

func TestFromPath(t *testing.T) {
	ms, err := FromPath("testdata/maps")
	require.NoError(t, err)
	require.Len(t, ms, 8)

	assert.Equal(t, "heap", ms[2].Pathname.SpecialName())
	assert.Equal(t, PathnameAbsent, ms[4].Pathname.Kind)
	assert.Equal(t, PathnameDeleted, ms[5].Pathname.Kind)
	assert.Equal(t, "/tmp/cache.db (deleted)", ms[5].Pathname.Raw)
	assert.True(t, ms[5].Permissions.Shared)
	assert.Equal(t, "vsyscall", ms[7].Pathname.SpecialName())
}

func TestParseReader(t *testing.T) {
	ms, err := ParseReader(strings.NewReader(listing))
	require.NoError(t, err)
	assert.Len(t, ms, 4)
}

func TestParseStringEmpty(t *testing.T) {
	for _, input := range []string{"", "\n"} {
		ms, err := ParseString(input)
		require.NoError(t, err)
		assert.Empty(t, ms)
	}
}

func TestIsParseError(t *testing.T) {
	_, err := ParseString("garbage")
	assert.True(t, IsParseError(err))

	_, err = ParseString("fffffffffffffffff-ffffffffffffffff0 r-xp 0 00:00 0")
	assert.True(t, IsParseError(err))

	_, err = proc.ReadMaps(-1)
	assert.False(t, IsParseError(err), "source access errors are not parse errors")
}
