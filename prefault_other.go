//go:build !linux

package combspan

// prefaultRegion is a no-op outside Linux.
func prefaultRegion(data []byte) {}
