//go:build linux

package combspan

import "golang.org/x/sys/unix"

// fadviseRecords tells the kernel that the record region of a table file of
// fileSize bytes will be scanned front to back. The header and footer are
// read once and left out. Errors are ignored.
func fadviseRecords(fd int, fileSize int64) {
	region := fileSize - headerSize - footerSize
	if region <= 0 {
		return
	}
	_ = unix.Fadvise(fd, headerSize, region, unix.FADV_SEQUENTIAL)
	_ = unix.Fadvise(fd, headerSize, region, unix.FADV_WILLNEED)
}
