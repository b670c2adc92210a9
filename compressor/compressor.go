// Package compressor compresses transport payloads with pooled encoders.
package compressor

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"io"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/cockroachdb/errors"
)

// ContentEncoding identifies how a payload is compressed.
type ContentEncoding int

const (
	ContentEncodingPlain   ContentEncoding = 0
	ContentEncodingGzip    ContentEncoding = 1
	ContentEncodingDeflate ContentEncoding = 2
	ContentEncodingBrotli  ContentEncoding = 3
)

var (
	ErrUnknownContentEncoding = errors.New("[RRPC] unknown content encoding")
)

// String returns the HTTP style name of the encoding.
func (e ContentEncoding) String() string {
	switch e {
	case ContentEncodingPlain:
		return "identity"
	case ContentEncodingGzip:
		return "gzip"
	case ContentEncodingDeflate:
		return "deflate"
	case ContentEncodingBrotli:
		return "br"
	default:
		return "unknown"
	}
}

type encoder interface {
	io.WriteCloser
	Reset(w io.Writer)
}

// codec pairs a pool of reusable encoders with a decoder constructor.
type codec struct {
	encoders sync.Pool
	decoder  func(r io.Reader) (io.ReadCloser, error)
}

// CompressorManager compresses and uncompresses payloads.
// It is safe for concurrent use, and slices it returns are owned by the caller.
type CompressorManager struct {
	buffers sync.Pool
	readers sync.Pool
	codecs  map[ContentEncoding]*codec
}

// NewCompressorManager returns a manager for gzip, deflate and brotli payloads.
func NewCompressorManager() *CompressorManager {
	m := &CompressorManager{
		buffers: sync.Pool{New: func() interface{} { return new(bytes.Buffer) }},
		readers: sync.Pool{New: func() interface{} { return bytes.NewReader(nil) }},
		codecs:  make(map[ContentEncoding]*codec, 3),
	}

	m.codecs[ContentEncodingGzip] = newCodec(
		func() encoder { return gzip.NewWriter(nil) },
		func(r io.Reader) (io.ReadCloser, error) { return gzip.NewReader(r) },
	)
	m.codecs[ContentEncodingDeflate] = newCodec(
		func() encoder { return zlib.NewWriter(nil) },
		zlib.NewReader,
	)
	m.codecs[ContentEncodingBrotli] = newCodec(
		func() encoder { return brotli.NewWriter(nil) },
		func(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(brotli.NewReader(r)), nil },
	)
	return m
}

func newCodec(newEncoder func() encoder, decoder func(io.Reader) (io.ReadCloser, error)) *codec {
	return &codec{
		encoders: sync.Pool{New: func() interface{} { return newEncoder() }},
		decoder:  decoder,
	}
}

// Compress encodes data with enc. Plain data is returned as is and nil stays nil.
func (m *CompressorManager) Compress(enc ContentEncoding, data []byte) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	if enc == ContentEncodingPlain {
		return data, nil
	}

	cd, ok := m.codecs[enc]
	if !ok {
		return nil, ErrUnknownContentEncoding
	}

	w := cd.encoders.Get().(encoder)
	defer cd.encoders.Put(w)

	buf := m.buffers.Get().(*bytes.Buffer)
	defer m.buffers.Put(buf)
	buf.Reset()
	w.Reset(buf)

	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrapf(err, "%s encode", enc)
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrapf(err, "%s encode", enc)
	}
	// buf goes back to the pool, so the caller gets its own copy.
	return bytes.Clone(buf.Bytes()), nil
}

// Uncompress decodes data that was produced by Compress with the same enc.
func (m *CompressorManager) Uncompress(enc ContentEncoding, data []byte) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	if enc == ContentEncodingPlain {
		return data, nil
	}

	cd, ok := m.codecs[enc]
	if !ok {
		return nil, ErrUnknownContentEncoding
	}

	src := m.readers.Get().(*bytes.Reader)
	defer m.readers.Put(src)
	src.Reset(data)

	r, err := cd.decoder(src)
	if err != nil {
		return nil, errors.Wrapf(err, "%s decode", enc)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "%s decode", enc)
	}
	return out, nil
}
