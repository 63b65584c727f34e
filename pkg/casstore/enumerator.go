package casstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/point-platform/cassette/pkg/address"
)

var (
	subdirNameRe     = regexp.MustCompile(`^[0-9a-fA-F]{4}$`)
	baseObjectNameRe = regexp.MustCompile(`^[0-9a-fA-F]{36}$`)
)

// Enumerator lazily walks the store, yielding every stored Address
// (spec.md §4.7). It holds open directory handles while iterating, so
// callers must call Close when done (including after exhausting it via
// repeated Next calls returning ok=false, to release the last handle).
//
// The walk is computed during iteration: concurrent writes and deletes
// may or may not be observed. That non-determinism is contractual, not a
// defect.
type Enumerator struct {
	store *Store

	root    *os.File
	current *os.File
	prefix  string

	err  error
	done bool
}

// List returns a new Enumerator rooted at the store.
func (s *Store) List() *Enumerator {
	return &Enumerator{store: s}
}

// Next advances the enumerator and returns the next stored Address. ok is
// false once the walk is exhausted or an error occurred; call Err to
// distinguish the two.
func (e *Enumerator) Next() (addr address.Address, ok bool) {
	for {
		if e.err != nil || e.done {
			return address.Address{}, false
		}

		if e.current == nil {
			if !e.openNextSubdir() {
				return address.Address{}, false
			}
			continue
		}

		entries, err := e.current.ReadDir(1)
		if err != nil {
			if errors.Is(err, io.EOF) {
				_ = e.current.Close()
				e.current = nil
				continue
			}
			e.fail(err)
			return address.Address{}, false
		}

		entry := entries[0]
		if entry.IsDir() || !baseObjectNameRe.MatchString(entry.Name()) {
			continue
		}

		parsed, ok := address.TryParse(e.prefix + strings.ToUpper(entry.Name()))
		if !ok {
			// A name that matched the shape regex but somehow fails to
			// parse cannot happen with this regex; skip defensively
			// rather than aborting the whole walk over one bad entry.
			continue
		}
		return parsed, true
	}
}

// openNextSubdir advances to the next fan-out subdirectory that matches
// the 4-hex-digit shape, opening root lazily on first use. Returns false
// once root is exhausted or an error occurs.
func (e *Enumerator) openNextSubdir() bool {
	if e.root == nil {
		f, err := os.Open(e.store.root)
		if err != nil {
			e.fail(fmt.Errorf("casstore: opening %s: %w", e.store.root, err))
			return false
		}
		e.root = f
	}

	for {
		entries, err := e.root.ReadDir(1)
		if err != nil {
			if errors.Is(err, io.EOF) {
				e.done = true
				_ = e.root.Close()
				e.root = nil
				return false
			}
			e.fail(err)
			return false
		}

		entry := entries[0]
		if !entry.IsDir() || !subdirNameRe.MatchString(entry.Name()) {
			continue
		}

		sub, err := os.Open(filepath.Join(e.store.root, entry.Name()))
		if err != nil {
			// The directory may have been removed concurrently; that's
			// an allowed race (spec.md §4.7), not a failure of the walk.
			if os.IsNotExist(err) {
				continue
			}
			e.fail(err)
			return false
		}

		e.current = sub
		e.prefix = strings.ToUpper(entry.Name())
		return true
	}
}

func (e *Enumerator) fail(err error) {
	e.err = err
}

// Err returns the first error encountered during iteration, if any.
func (e *Enumerator) Err() error {
	return e.err
}

// Close releases any directory handles still held. It is safe to call
// more than once.
func (e *Enumerator) Close() error {
	var err error
	if e.current != nil {
		err = e.current.Close()
		e.current = nil
	}
	if e.root != nil {
		if cerr := e.root.Close(); err == nil {
			err = cerr
		}
		e.root = nil
	}
	return err
}
