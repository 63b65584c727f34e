package encoding

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// Gzip is the reference "gzip" Encoding. Name() returns exactly "gzip",
// matching the filename suffix spec.md mandates for the reference
// implementation.
var Gzip Encoding = gzipEncoding{}

type gzipEncoding struct{}

func (gzipEncoding) Name() string { return "gzip" }

func (gzipEncoding) Encode(sink io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(sink), nil
}

func (gzipEncoding) Decode(src io.Reader) (io.ReadCloser, error) {
	r, err := gzip.NewReader(src)
	if err != nil {
		return nil, err
	}
	return r, nil
}
