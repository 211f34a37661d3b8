package pgp

import (
	"io"
)

// NewBodyReader returns a reader over the logical body of the packet whose
// header h has just been consumed from r.
func NewBodyReader(r io.Reader, h Header) io.Reader {
	switch {
	case h.Partial:
		return &partialLengthReader{r: r, remaining: h.Chunk, isPartial: true}
	case h.Indeterminate:
		return r
	default:
		return &definiteReader{r: r, remaining: h.Length}
	}
}

// definiteReader is io.LimitReader that reports a short body as
// io.ErrUnexpectedEOF instead of a clean EOF.
type definiteReader struct {
	r         io.Reader
	remaining int64
}

func (d *definiteReader) Read(p []byte) (int, error) {
	if d.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > d.remaining {
		p = p[:d.remaining]
	}
	n, err := d.r.Read(p)
	d.remaining -= int64(n)
	if err == io.EOF && d.remaining > 0 {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

// partialLengthReader wraps the stream of a packet body that uses partial
// length chunks and yields the concatenated chunk contents.
type partialLengthReader struct {
	r         io.Reader
	remaining int64
	isPartial bool
}

func (p *partialLengthReader) Read(buf []byte) (n int, err error) {
	for p.remaining == 0 {
		if !p.isPartial {
			return 0, io.EOF
		}
		p.remaining, p.isPartial, err = readChunkLength(p.r)
		if err != nil {
			return 0, err
		}
	}
	toRead := int64(len(buf))
	if toRead > p.remaining {
		toRead = p.remaining
	}
	n, err = p.r.Read(buf[:toRead])
	p.remaining -= int64(n)
	if n < int(toRead) && err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return
}

// readChunkLength reads the length that follows a partial chunk.
func readChunkLength(r io.Reader) (length int64, isPartial bool, err error) {
	var buf [4]byte
	if _, err = io.ReadFull(r, buf[:1]); err != nil {
		return 0, false, unexpected(err)
	}
	switch {
	case buf[0] < 192:
		length = int64(buf[0])
	case buf[0] < 224:
		length = int64(buf[0]-192) << 8
		if _, err = io.ReadFull(r, buf[:1]); err != nil {
			return 0, false, unexpected(err)
		}
		length += int64(buf[0]) + 192
	case buf[0] < 255:
		length = int64(1) << (buf[0] & 0x1F)
		isPartial = true
	default:
		if _, err = io.ReadFull(r, buf[:4]); err != nil {
			return 0, false, unexpected(err)
		}
		length = int64(buf[0])<<24 | int64(buf[1])<<16 | int64(buf[2])<<8 | int64(buf[3])
	}
	return length, isPartial, nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
