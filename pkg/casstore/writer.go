package casstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/function61/gokit/cryptorandombytes"
	"golang.org/x/sync/errgroup"

	"github.com/point-platform/cassette/pkg/address"
	"github.com/point-platform/cassette/pkg/digest"
	"github.com/point-platform/cassette/pkg/encoding"
)

// streamBufferSize is the chunk size used by the double-buffered
// hash-and-write loop (spec.md §4.5 step 2).
const streamBufferSize = 4096

// tmpDirName is where Write stages content before the atomic rename into
// its canonical path. It lives inside root so the rename is guaranteed to
// be same-volume, but its name can never match the 4-hex-digit fan-out
// directory pattern (spec.md §6), so List and Delete never see it.
const tmpDirName = ".tmp"

// Write consumes src, hashing it while writing it to a temp file, then
// atomically places it under its content address (spec.md §4.5). If
// encodings is non-empty, each is materialized as an encoded sibling
// after the base object is placed. Write returns the same Address
// regardless of how many times the same bytes have been written before
// (idempotent write, spec.md §6).
//
// ctx is observed only inside the streaming read/write loop (spec.md
// §5, "suspension points"); cancellation after that point does not abort
// the rename or the sibling-encoding copies.
func (s *Store) Write(ctx context.Context, src io.Reader, encodings ...encoding.Encoding) (address.Address, error) {
	for _, enc := range encodings {
		if err := encoding.ValidateName(enc.Name()); err != nil {
			return address.Address{}, fmt.Errorf("%w: %v", ErrInvalidEncodingName, err)
		}
	}

	tmpPath, tmpFile, err := s.createTempFile()
	if err != nil {
		return address.Address{}, err
	}

	abandon := true
	defer func() {
		if abandon {
			_ = os.Remove(tmpPath)
		}
	}()

	addr, err := s.streamToTemp(ctx, src, tmpFile)
	closeErr := tmpFile.Close()
	if err != nil {
		return address.Address{}, err
	}
	if closeErr != nil {
		return address.Address{}, fmt.Errorf("casstore: closing temp file: %w", closeErr)
	}

	if err := s.placeContent(addr, tmpPath); err != nil {
		return address.Address{}, err
	}
	abandon = false

	for _, enc := range encodings {
		if err := s.materializeSibling(addr, enc); err != nil {
			s.log.Error.Printf("casstore: materializing %s sibling for %s: %v", enc.Name(), addr, err)
		}
	}

	return addr, nil
}

// streamToTemp implements the double-buffered hash-while-write loop: one
// goroutine reads from src into successive buffers, a second drains them
// into tmpFile and feeds the running digest. The bounded channel between
// them (capacity 1, per spec.md §9) lets the reader fill the next buffer
// while the previous one is still being written, without letting the
// digest see bytes out of order or more than once.
func (s *Store) streamToTemp(ctx context.Context, src io.Reader, tmpFile *os.File) (address.Address, error) {
	type chunk struct {
		data []byte
		n    int
	}

	chunks := make(chan chunk, 1)
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer close(chunks)
		for {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			buf := make([]byte, streamBufferSize)
			n, err := src.Read(buf)
			if n > 0 {
				select {
				case chunks <- chunk{data: buf, n: n}:
				case <-groupCtx.Done():
					return groupCtx.Err()
				}
			}
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("casstore: reading source: %w", err)
			}
		}
	})

	acc := digest.NewAccumulator()
	group.Go(func() error {
		for c := range chunks {
			if _, err := tmpFile.Write(c.data[:c.n]); err != nil {
				return fmt.Errorf("casstore: writing temp file: %w", err)
			}
			acc.Update(c.data[:c.n])
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			return address.Address{}, context.Canceled
		}
		return address.Address{}, err
	}

	return acc.Finalize(), nil
}

// placeContent implements spec.md §4.5 step 4: under the upgradable read
// section, check whether the content already exists; if not, upgrade to
// the write section, create the fan-out directory, rename the temp file
// into place, and mark it read-only.
func (s *Store) placeContent(addr address.Address, tmpPath string) error {
	contentPath := s.contentPath(addr)

	alreadyExists, err := s.existsRLocked(contentPath)
	if err != nil {
		return err
	}
	if alreadyExists {
		_ = os.Remove(tmpPath)
		return nil
	}

	var placeErr error
	s.lock.wsection(func() {
		// Re-check under the write section: another writer may have won
		// the race since the read-section check above.
		exists, err := s.exists(contentPath)
		if err != nil {
			placeErr = err
			return
		}
		if exists {
			_ = os.Remove(tmpPath)
			return
		}

		if err := os.MkdirAll(s.subdir(addr), 0o755); err != nil {
			placeErr = fmt.Errorf("casstore: creating %s: %w", s.subdir(addr), err)
			return
		}

		if err := os.Rename(tmpPath, contentPath); err != nil {
			// A concurrent duplicate writer may have placed identical
			// content between our check and this rename (spec.md §4.5,
			// "Concurrent duplicate writes"). That is success, not a
			// failure, for us.
			if exists, _ := s.exists(contentPath); exists {
				_ = os.Remove(tmpPath)
				return
			}
			placeErr = fmt.Errorf("casstore: placing %s: %w", contentPath, err)
			return
		}

		// Tolerate the read-only bit already being set (spec.md §4.5,
		// "Failure semantics").
		if err := os.Chmod(contentPath, 0o444); err != nil {
			placeErr = fmt.Errorf("casstore: marking %s read-only: %w", contentPath, err)
		}
	})
	return placeErr
}

// existsRLocked runs the existence check inside the coordinator's read
// section, per spec.md §5.
func (s *Store) existsRLocked(path string) (bool, error) {
	var found bool
	var err error
	s.lock.rsection(func() {
		found, err = s.exists(path)
	})
	return found, err
}

// materializeSibling implements spec.md §4.5 step 5 for a single
// encoding: if the sibling already exists, it's a no-op; otherwise the
// base object is read through enc's encoder into a temp file, which is
// then atomically placed.
func (s *Store) materializeSibling(addr address.Address, enc encoding.Encoding) error {
	siblingPath := s.siblingPath(addr, enc.Name())

	exists, err := s.exists(siblingPath)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	base, err := os.Open(s.contentPath(addr))
	if err != nil {
		return fmt.Errorf("casstore: opening base object %s: %w", addr, err)
	}
	defer base.Close()

	tmpPath, tmpFile, err := s.createTempFile()
	if err != nil {
		return err
	}
	abandon := true
	defer func() {
		if abandon {
			_ = os.Remove(tmpPath)
		}
	}()

	encodedWriter, err := enc.Encode(tmpFile)
	if err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("casstore: initializing %s encoder: %w", enc.Name(), err)
	}
	if _, err := io.Copy(encodedWriter, base); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("casstore: encoding %s sibling of %s: %w", enc.Name(), addr, err)
	}
	if err := encodedWriter.Close(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("casstore: finalizing %s encoder: %w", enc.Name(), err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("casstore: closing temp file: %w", err)
	}

	if err := s.placeSibling(siblingPath, tmpPath); err != nil {
		return err
	}
	abandon = false
	return nil
}

// placeSibling is placeContent's counterpart for an encoded sibling: no
// digest is involved, and there is no read-section pre-check; the
// existence check, rename and chmod all run inside the write section.
func (s *Store) placeSibling(siblingPath, tmpPath string) error {
	var placeErr error
	s.lock.wsection(func() {
		exists, err := s.exists(siblingPath)
		if err != nil {
			placeErr = err
			return
		}
		if exists {
			_ = os.Remove(tmpPath)
			return
		}

		if err := os.Rename(tmpPath, siblingPath); err != nil {
			if exists, _ := s.exists(siblingPath); exists {
				_ = os.Remove(tmpPath)
				return
			}
			placeErr = fmt.Errorf("casstore: placing sibling %s: %w", siblingPath, err)
			return
		}

		if err := os.Chmod(siblingPath, 0o444); err != nil {
			placeErr = fmt.Errorf("casstore: marking %s read-only: %w", siblingPath, err)
		}
	})
	return placeErr
}

// createTempFile allocates a uniquely-named file under root's hidden
// staging directory, so the later rename into the canonical path is
// guaranteed same-volume. The random suffix comes from
// function61/gokit/cryptorandombytes, the same source varasto uses
// wherever it needs an unpredictable on-disk token, rather than
// math/rand.
func (s *Store) createTempFile() (path string, f *os.File, err error) {
	dir := filepath.Join(s.root, tmpDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("casstore: creating temp dir: %w", err)
	}

	name := filepath.Join(dir, "write-"+cryptorandombytes.Base64Url(12))
	f, err = os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", nil, fmt.Errorf("casstore: creating temp file: %w", err)
	}
	return name, f, nil
}
