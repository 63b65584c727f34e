// Package encoding defines the pluggable Encoding capability the store
// uses to materialize compressed sibling files alongside a base object,
// and ships gzip and deflate reference implementations built on
// klauspost/compress (a drop-in, faster replacement for the stdlib
// compress/gzip and compress/flate packages used the same way
// bureau-foundation's artifact store reaches for it).
package encoding

import (
	"fmt"
	"io"
	"strings"
)

// Encoding is a named, reversible stream transform. Name is used verbatim
// as the filename suffix (after the dot) of the encoded sibling the store
// writes, so it must be non-empty and must not contain a path separator
// or a dot.
type Encoding interface {
	// Name is the stable identifier used as the sibling's filename suffix.
	Name() string

	// Encode wraps sink so that bytes written to the returned writer are
	// stored encoded in sink. The caller must Close the returned writer
	// (if it implements io.Closer) to flush any buffered trailer before
	// closing sink itself.
	Encode(sink io.Writer) (io.WriteCloser, error)

	// Decode wraps src so that bytes read from the returned reader are
	// the decoded form of the bytes read from src.
	Decode(src io.Reader) (io.ReadCloser, error)
}

// ValidateName reports whether name is an acceptable encoding name: non-
// empty, and free of path separators and dots (both would corrupt the
// store's path layout, which appends "." + name as a filename suffix).
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("encoding: name must not be empty")
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("encoding: name %q must not contain '/', '\\\\' or '.'", name)
	}
	return nil
}
