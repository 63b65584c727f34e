package casstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/function61/gokit/fileexists"

	"github.com/point-platform/cassette/pkg/address"
)

// exists wraps function61/gokit/fileexists.Exists, the same existence
// probe localfsblobstore.RawStore uses before writing a chunk, so that
// every existence check in this package goes through one place.
func (s *Store) exists(path string) (bool, error) {
	found, err := fileexists.Exists(path)
	if err != nil {
		return false, fmt.Errorf("casstore: checking %s: %w", path, err)
	}
	return found, nil
}

// resolveSubdir finds addr's fan-out directory, preferring the canonical
// upper-case name but falling back to a case-insensitive scan of root so
// that directories written by a prior version in lower-case hex (spec.md
// §6) are still found.
func (s *Store) resolveSubdir(addr address.Address) (string, bool) {
	want := addr.String()[:prefixLen]
	fast := filepath.Join(s.root, want)
	if info, err := os.Stat(fast); err == nil && info.IsDir() {
		return fast, true
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.IsDir() && strings.EqualFold(e.Name(), want) {
			return filepath.Join(s.root, e.Name()), true
		}
	}
	return "", false
}

// resolvePath finds the canonical file for addr (with optional encoding
// suffix), preferring the exact upper-case name and falling back to a
// case-insensitive scan of the resolved subdir. Returns ok=false (no
// error) if nothing matches, matching the Reader's "never throws on not
// found" policy.
func (s *Store) resolvePath(addr address.Address, encodingName string) (path string, ok bool, err error) {
	wantName := addr.String()[prefixLen:]
	if encodingName != "" {
		wantName += "." + encodingName
	}

	subdir, found := s.resolveSubdir(addr)
	if !found {
		return "", false, nil
	}

	fast := filepath.Join(subdir, wantName)
	if _, statErr := os.Lstat(fast); statErr == nil {
		return fast, true, nil
	}

	entries, readErr := os.ReadDir(subdir)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("casstore: listing %s: %w", subdir, readErr)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), wantName) {
			return filepath.Join(subdir, e.Name()), true, nil
		}
	}
	return "", false, nil
}
