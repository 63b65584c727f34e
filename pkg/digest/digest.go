// Package digest computes the SHA-1 content address of a byte stream.
// The SHA-1 primitive itself is an external collaborator (crypto/sha1,
// out of scope to respecify per spec.md §1); this package only adapts
// that primitive to the store's streaming and one-shot use sites.
package digest

import (
	"crypto/sha1" //nolint:gosec // content-addressing, not a security boundary
	"hash"
	"io"

	"github.com/point-platform/cassette/pkg/address"
)

// bufferSize is the read chunk size used by the one-shot Compute path. The
// streaming Accumulator has no buffer of its own; callers choose their own
// chunk size when calling Update.
const bufferSize = 4096

// Accumulator is a streaming SHA-1 accumulator. It is not safe for
// concurrent use by multiple goroutines; create one Accumulator per
// in-flight write.
type Accumulator struct {
	h hash.Hash
}

// NewAccumulator returns a fresh Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{h: sha1.New()} //nolint:gosec
}

// Update feeds more bytes into the running digest. It never returns an
// error: hash.Hash.Write is documented to never fail.
func (a *Accumulator) Update(p []byte) {
	a.h.Write(p) //nolint:errcheck
}

// Finalize returns the Address for everything written so far. The
// Accumulator must not be reused afterwards.
func (a *Accumulator) Finalize() address.Address {
	sum := a.h.Sum(nil)
	var addr address.Address
	copy(addr[:], sum)
	return addr
}

// Compute reads r to EOF through a fresh Accumulator and returns its
// Address. It is safe to call concurrently from multiple goroutines on
// distinct readers: each call owns its own Accumulator and buffer.
func Compute(r io.Reader) (address.Address, error) {
	acc := NewAccumulator()
	buf := make([]byte, bufferSize)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			acc.Update(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return address.Address{}, err
		}
	}

	return acc.Finalize(), nil
}
