package proc

import (
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapsPath(t *testing.T) {
	assert.Equal(t, "/proc/1234/maps", MapsPath(1234))
}

func TestReadMapsInvalidPid(t *testing.T) {
	for _, pid := range []int{0, -1} {
		_, err := ReadMaps(pid)
		assert.ErrorIs(t, err, ErrProcessNotFound)
	}
}

func TestReadMapsMissingPid(t *testing.T) {
	// Way above any realistic pid_max.
	_, err := ReadMaps(999999999)
	assert.ErrorIs(t, err, ErrProcessNotFound)
}

func TestReadMapsSelf(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("requires /proc")
	}
	data, err := ReadMaps(os.Getpid())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	// Every process maps at least its own executable.
	assert.True(t, strings.Contains(data, "r-xp") || strings.Contains(data, "r--p"))
}
