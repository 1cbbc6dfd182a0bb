//go:build linux

package combspan

import (
	"os"

	"golang.org/x/sys/unix"
)

// fallocateFile reserves size bytes for a table file so a full disk fails
// here rather than as SIGBUS while writing through the map.
func fallocateFile(file *os.File, size int64) error {
	if err := unix.Fallocate(int(file.Fd()), 0, 0, size); err != nil {
		// Not every filesystem supports fallocate (NFS, tmpfs on old kernels).
		return unix.Ftruncate(int(file.Fd()), size)
	}
	// Fallocate reserves blocks without changing the file size.
	return unix.Ftruncate(int(file.Fd()), size)
}
