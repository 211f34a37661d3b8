package compress

import (
	"bytes"
	"fmt"
	"io"

	dbz2 "github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// Compression algorithm ids of the OpenPGP compressed data packet.
const (
	None  = 0
	ZIP   = 1
	ZLIB  = 2
	BZIP2 = 3
)

type Codec interface {
	Compress([]byte) ([]byte, error)
	NewReader(io.Reader) (io.ReadCloser, error)
}

// Get returns the codec for an algorithm id.
func Get(alg byte) (Codec, error) {
	switch alg {
	case None:
		return noop{}, nil
	case ZIP:
		return deflateCodec{}, nil
	case ZLIB:
		return zlibCodec{}, nil
	case BZIP2:
		return bzip2Codec{}, nil
	default:
		return nil, fmt.Errorf("compress: unknown algorithm %d", alg)
	}
}

// NewReader decompresses r with the algorithm alg.
func NewReader(alg byte, r io.Reader) (io.ReadCloser, error) {
	c, err := Get(alg)
	if err != nil {
		return nil, err
	}
	return c.NewReader(r)
}

type noop struct{}

func (noop) Compress(b []byte) ([]byte, error)          { return b, nil }
func (noop) NewReader(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(r), nil }

type deflateCodec struct{}

func (deflateCodec) Compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, _ := flate.NewWriter(&buf, flate.BestCompression)
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (deflateCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return flate.NewReader(r), nil
}

type zlibCodec struct{}

func (zlibCodec) Compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, _ := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (zlibCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return zlib.NewReader(r)
}

type bzip2Codec struct{}

func (bzip2Codec) Compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := dbz2.NewWriter(&buf, &dbz2.WriterConfig{Level: dbz2.BestCompression})
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (bzip2Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return dbz2.NewReader(r, &dbz2.ReaderConfig{})
}
