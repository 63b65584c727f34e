// Package casstore implements the storage engine of the content-
// addressable store: the path layout, the atomic write protocol, and the
// reader/enumeration/delete protocols that interleave safely on a live
// filesystem (spec.md components C3, C5-C9). It is grounded on
// function61/varasto's pkg/blobstore/localfsblobstore, generalized from a
// single fixed-size blob shape to arbitrary streams with optional encoded
// siblings.
package casstore

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/function61/gokit/logex"
)

// ErrInvalidEncodingName is returned by any operation given an encoding
// name that fails encoding.ValidateName.
var ErrInvalidEncodingName = errors.New("casstore: invalid encoding name")

// Store is a content-addressable store rooted at a single directory. The
// zero value is not usable; construct with New.
//
// A Store's only in-process shared mutable state is its lock (C9); the
// filesystem subtree at root is the other shared mutable resource, and is
// not safe to share between two Store values pointed at the same root in
// the same process (they would each run an independent coordinator).
type Store struct {
	root string
	lock upgradableLock
	log  *logex.Leveled
}

// New constructs a Store rooted at root, creating the directory if it
// does not already exist. logger may be nil, in which case log output is
// discarded (mirrors function61/gokit/logex.NonNil's contract).
func New(root string, logger *log.Logger) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("casstore: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("casstore: creating root %s: %w", root, err)
	}

	return &Store{
		root: root,
		log:  logex.Levels(logex.NonNil(logger)),
	}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}
