//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

func osMap(f *os.File, size int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, unix.Munmap, nil
}

// osAdviseRandom is a hint only; a failure leaves the default read-ahead.
func osAdviseRandom(data []byte) {
	_ = unix.Madvise(data, unix.MADV_RANDOM)
}
