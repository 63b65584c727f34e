package casstore

import (
	"fmt"
	"io"
	"os"

	"github.com/point-platform/cassette/pkg/address"
	"github.com/point-platform/cassette/pkg/encoding"
)

// ReadOptions are access-pattern hints for TryOpen (spec.md §4.6). They
// may be combined; Sequential and RandomAccess are mutually exclusive,
// and per spec.md, Sequential wins if both are set.
type ReadOptions uint8

const (
	// ReadNone requests no particular access pattern.
	ReadNone ReadOptions = 0

	// ReadSequential hints that the stream will be scanned start to end.
	ReadSequential ReadOptions = 1 << 0

	// ReadRandomAccess hints that the stream will be accessed via seeks.
	ReadRandomAccess ReadOptions = 1 << 1

	// ReadAsynchronous enables the async read path: the returned stream
	// is backed by a goroutine performing readahead into a pipe, rather
	// than handing the caller the raw file descriptor directly.
	ReadAsynchronous ReadOptions = 1 << 2
)

// Contains is a pure existence test on addr's canonical path (or the
// named encoded sibling's, if encodingName is non-empty).
func (s *Store) Contains(addr address.Address, encodingName string) (bool, error) {
	if err := validateOptionalEncodingName(encodingName); err != nil {
		return false, err
	}
	_, ok, err := s.resolvePath(addr, encodingName)
	return ok, err
}

// TryOpen atomically tests existence and, on success, opens a read-only
// stream. It returns ok=false (with a nil error) if nothing is stored at
// addr/encodingName; it never returns an error for "not found" (spec.md
// §7).
//
// Once TryOpen returns a stream, the bytes it yields are exactly the
// bytes originally written under addr: a concurrent Delete cannot
// truncate or alter an already-open reader's view, because unlinking a
// file a process still holds open leaves that process's handle (and the
// underlying inode) intact on every filesystem this store supports.
func (s *Store) TryOpen(addr address.Address, opts ReadOptions, encodingName string) (io.ReadCloser, bool, error) {
	if err := validateOptionalEncodingName(encodingName); err != nil {
		return nil, false, err
	}

	path, ok, err := s.resolvePath(addr, encodingName)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("casstore: opening %s: %w", path, err)
	}

	effective := opts
	if effective&ReadSequential != 0 {
		effective &^= ReadRandomAccess
	}
	applyReadHint(f, effective)

	if effective&ReadAsynchronous != 0 {
		return newAsyncReader(f), true, nil
	}
	return f, true, nil
}

// TryLength returns the size of addr's canonical object (or named
// sibling) from filesystem metadata, or ok=false if it does not exist.
func (s *Store) TryLength(addr address.Address, encodingName string) (uint64, bool, error) {
	if err := validateOptionalEncodingName(encodingName); err != nil {
		return 0, false, err
	}

	path, ok, err := s.resolvePath(addr, encodingName)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return 0, false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("casstore: stat %s: %w", path, err)
	}
	return uint64(info.Size()), true, nil
}

func validateOptionalEncodingName(name string) error {
	if name == "" {
		return nil
	}
	if err := encoding.ValidateName(name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEncodingName, err)
	}
	return nil
}

// asyncReadCloser backs the ReadAsynchronous option: a goroutine copies
// the open file into a pipe so the caller's reads overlap with the next
// read syscall instead of blocking on it directly, mirroring the
// cooperative-async streaming model spec.md §5 describes for the write
// path.
type asyncReadCloser struct {
	pipe *io.PipeReader
	file *os.File
}

func newAsyncReader(f *os.File) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		_, err := io.Copy(pw, f)
		_ = pw.CloseWithError(err)
	}()
	return &asyncReadCloser{pipe: pr, file: f}
}

func (a *asyncReadCloser) Read(p []byte) (int, error) {
	return a.pipe.Read(p)
}

func (a *asyncReadCloser) Close() error {
	_ = a.pipe.Close()
	return a.file.Close()
}
