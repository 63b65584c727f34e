//go:build linux

package casstore

import (
	"os"

	"golang.org/x/sys/unix"
)

// applyReadHint issues a posix_fadvise(2) hint matching the requested
// access pattern, the same low-level-syscall idiom bureau-foundation
// reaches for golang.org/x/sys/unix for elsewhere in that codebase. A
// failed advise is not an error: it only affects the kernel's readahead
// heuristics, never correctness.
func applyReadHint(f *os.File, opts ReadOptions) {
	fd := int(f.Fd())
	switch {
	case opts&ReadSequential != 0:
		_ = unix.Fadvise(fd, 0, 0, unix.FADV_SEQUENTIAL)
	case opts&ReadRandomAccess != 0:
		_ = unix.Fadvise(fd, 0, 0, unix.FADV_RANDOM)
	}
}
