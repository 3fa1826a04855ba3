// Package proc reads per-process files from the proc filesystem. It
// is the only place that touches storage; parsing lives in pkg/maps.
package proc

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

var (
	// ErrProcessNotFound means no such pid is visible under /proc.
	ErrProcessNotFound = errors.New("process not found")
	// ErrPermissionDenied means the maps file exists but cannot be read.
	ErrPermissionDenied = errors.New("permission denied")
)

// MapsPath returns the maps file path for a pid.
func MapsPath(pid int) string {
	return fmt.Sprintf("/proc/%d/maps", pid)
}

// ReadMaps reads the raw maps listing of a live process. Failures are
// wrapped around the sentinel errors above so callers can distinguish
// a missing or forbidden process from an I/O fault.
func ReadMaps(pid int) (string, error) {
	if pid <= 0 {
		return "", errors.Wrapf(ErrProcessNotFound, "invalid pid %d", pid)
	}
	data, err := os.ReadFile(MapsPath(pid))
	switch {
	case os.IsNotExist(err):
		return "", errors.Wrapf(ErrProcessNotFound, "pid %d", pid)
	case os.IsPermission(err):
		return "", errors.Wrapf(ErrPermissionDenied, "pid %d", pid)
	case err != nil:
		return "", errors.Wrapf(err, "read maps of pid %d", pid)
	}
	return string(data), nil
}
