package encoding

import (
	"io"

	"github.com/klauspost/compress/flate"
)

// Deflate is the reference "deflate" Encoding. Name() returns exactly
// "deflate", matching the filename suffix spec.md mandates for the
// reference implementation.
var Deflate Encoding = deflateEncoding{}

type deflateEncoding struct{}

func (deflateEncoding) Name() string { return "deflate" }

func (deflateEncoding) Encode(sink io.Writer) (io.WriteCloser, error) {
	return flate.NewWriter(sink, flate.DefaultCompression)
}

func (deflateEncoding) Decode(src io.Reader) (io.ReadCloser, error) {
	return flate.NewReader(src), nil
}
