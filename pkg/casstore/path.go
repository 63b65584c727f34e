package casstore

import (
	"path/filepath"

	"github.com/point-platform/cassette/pkg/address"
)

// prefixLen is the number of hex characters of the address used as the
// fan-out subdirectory name (spec.md §3: 4 hex chars ⇒ up to 65,536
// buckets).
const prefixLen = 4

// subdir returns the fan-out directory an address's files live under:
// root/H[0:4].
func (s *Store) subdir(addr address.Address) string {
	hex := addr.String()
	return filepath.Join(s.root, hex[:prefixLen])
}

// contentPath returns the canonical path of the base object for addr:
// root/H[0:4]/H[4:40].
func (s *Store) contentPath(addr address.Address) string {
	hex := addr.String()
	return filepath.Join(s.root, hex[:prefixLen], hex[prefixLen:])
}

// siblingPath returns the canonical path of the encoding-named sibling of
// addr: contentPath(addr) + "." + name.
func (s *Store) siblingPath(addr address.Address, name string) string {
	return s.contentPath(addr) + "." + name
}

// objectPath returns contentPath when encoding is empty, or siblingPath
// otherwise. The Reader entry points do not use it: they resolve paths
// case-insensitively through resolvePath.
func (s *Store) objectPath(addr address.Address, encoding string) string {
	if encoding == "" {
		return s.contentPath(addr)
	}
	return s.siblingPath(addr, encoding)
}
