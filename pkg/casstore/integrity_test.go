package casstore

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/function61/gokit/assert"

	"github.com/point-platform/cassette/pkg/address"
	"github.com/point-platform/cassette/pkg/encoding"
)

func TestStatReportsLengthAndEncodings(t *testing.T) {
	s := newTestStore(t)

	payload := "stat me, with a sibling"
	addr, err := s.Write(context.Background(), strings.NewReader(payload), encoding.Gzip)
	assert.Ok(t, err)

	info, ok, err := s.Stat(addr)
	assert.Ok(t, err)
	assert.Assert(t, ok)
	assert.Assert(t, info.Length == uint64(len(payload)))
	assert.Assert(t, len(info.Encodings) == 1)
	assert.EqualString(t, info.Encodings[0], "gzip")
}

func TestStatAbsentAddress(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.Stat(address.Zero)
	assert.Ok(t, err)
	assert.Assert(t, !ok)
}

func TestListEncodingsNoSiblings(t *testing.T) {
	s := newTestStore(t)

	addr, err := s.Write(context.Background(), strings.NewReader("no siblings here"))
	assert.Ok(t, err)

	names, err := s.ListEncodings(addr)
	assert.Ok(t, err)
	assert.Assert(t, len(names) == 0)
}

func TestVerifyIntegritySucceeds(t *testing.T) {
	s := newTestStore(t)

	payload := strings.Repeat("verify me thoroughly\n", 50)
	addr, err := s.Write(context.Background(), strings.NewReader(payload), encoding.Gzip, encoding.Deflate)
	assert.Ok(t, err)

	assert.Ok(t, s.VerifyIntegrity(addr, []encoding.Encoding{encoding.Gzip, encoding.Deflate}))
}

func TestVerifyIntegrityDetectsCorruptedBase(t *testing.T) {
	s := newTestStore(t)

	addr, err := s.Write(context.Background(), strings.NewReader("pristine content"))
	assert.Ok(t, err)

	path := s.contentPath(addr)
	assert.Ok(t, os.Chmod(path, 0o644))
	assert.Ok(t, os.WriteFile(path, []byte("tampered content!"), 0o644))

	err = s.VerifyIntegrity(addr, nil)
	assert.Assert(t, err != nil)
}

func TestVerifyIntegrityAbsentAddress(t *testing.T) {
	s := newTestStore(t)

	err := s.VerifyIntegrity(address.Zero, nil)
	assert.Assert(t, err != nil)
}
