//go:build !linux && !darwin

package combspan

import "os"

// fallocateFile sets the table file size. Disk blocks may not be reserved,
// so a full disk can still surface while writing through the map.
func fallocateFile(file *os.File, size int64) error {
	return file.Truncate(size)
}
