package casstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/point-platform/cassette/pkg/address"
)

// Delete removes addr's base object and every encoded sibling
// (spec.md §4.8). It returns false if nothing was stored at addr.
//
// Unlike Write's placement dance, Delete is a single pass under the
// coordinator's write section for its whole attribute-clear+unlink
// sequence (spec.md §9, Open Question 1: this spec adopts the stricter
// discipline over the source's unguarded delete).
//
// Matching is case-insensitive (spec.md §6): a legacy lower-case-named
// object or sibling is found and removed the same as one this store
// wrote itself.
func (s *Store) Delete(addr address.Address) (bool, error) {
	wantBase := addr.String()[prefixLen:]

	var deletedAny bool
	var opErr error

	s.lock.wsection(func() {
		subdir, found := s.resolveSubdir(addr)
		if !found {
			return
		}

		entries, err := os.ReadDir(subdir)
		if err != nil {
			if os.IsNotExist(err) {
				return
			}
			opErr = fmt.Errorf("casstore: listing %s: %w", subdir, err)
			return
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}

			name := strings.ToUpper(entry.Name())
			isBase := name == wantBase
			isSibling := strings.HasPrefix(name, wantBase+".")
			if !isBase && !isSibling {
				continue
			}

			path := filepath.Join(subdir, entry.Name())
			if err := os.Chmod(path, 0o644); err != nil && !os.IsNotExist(err) {
				opErr = fmt.Errorf("casstore: clearing read-only on %s: %w", path, err)
				return
			}
			if err := os.Remove(path); err != nil {
				if os.IsNotExist(err) {
					continue
				}
				opErr = fmt.Errorf("casstore: removing %s: %w", path, err)
				return
			}
			deletedAny = true
		}
	})

	return deletedAny, opErr
}
