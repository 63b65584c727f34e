package encoding

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/function61/gokit/assert"
)

func roundTrip(t *testing.T, enc Encoding, original []byte) []byte {
	var encoded bytes.Buffer
	w, err := enc.Encode(&encoded)
	assert.Ok(t, err)
	_, err = w.Write(original)
	assert.Ok(t, err)
	assert.Ok(t, w.Close())

	r, err := enc.Decode(bytes.NewReader(encoded.Bytes()))
	assert.Ok(t, err)
	defer r.Close()

	decoded, err := io.ReadAll(r)
	assert.Ok(t, err)

	if !bytes.Equal(decoded, original) {
		t.Fatalf("round trip mismatch for %s: got %d bytes, want %d bytes", enc.Name(), len(decoded), len(original))
	}

	return encoded.Bytes()
}

func TestGzipRoundTrip(t *testing.T) {
	assert.EqualString(t, Gzip.Name(), "gzip")
	original := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog\n", 200))
	encoded := roundTrip(t, Gzip, original)
	if len(encoded) >= len(original) {
		t.Fatalf("expected gzip to shrink a repetitive buffer: got %d, original %d", len(encoded), len(original))
	}
}

func TestDeflateRoundTrip(t *testing.T) {
	assert.EqualString(t, Deflate.Name(), "deflate")
	original := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog\n", 200))
	encoded := roundTrip(t, Deflate, original)
	if len(encoded) >= len(original) {
		t.Fatalf("expected deflate to shrink a repetitive buffer: got %d, original %d", len(encoded), len(original))
	}
}

func TestValidateName(t *testing.T) {
	assert.Ok(t, ValidateName("gzip"))
	assert.Assert(t, ValidateName("") != nil)
	assert.Assert(t, ValidateName("a/b") != nil)
	assert.Assert(t, ValidateName("a.b") != nil)
	assert.Assert(t, ValidateName(`a\b`) != nil)
}
