//go:build !linux

package casstore

import "os"

// applyReadHint is a no-op on platforms without posix_fadvise; the
// option is still accepted, it simply has no effect on readahead.
func applyReadHint(f *os.File, opts ReadOptions) {}
