package dump

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"example.com/pgpdump/pkg/pgp"
)

const sourceBufferSize = 8192

// Source is a peekable byte stream that counts consumed octets.
type Source struct {
	r   *bufio.Reader
	off int64
}

func NewSource(r io.Reader) *Source {
	return &Source{r: bufio.NewReaderSize(r, sourceBufferSize)}
}

// Offset returns the number of octets consumed so far.
func (s *Source) Offset() int64 { return s.off }

// EOF reports whether the stream is cleanly exhausted. A read error other
// than io.EOF is surfaced by the next PeekHeader instead.
func (s *Source) EOF() bool {
	_, err := s.r.Peek(1)
	return err == io.EOF
}

// Peek returns up to n octets without consuming them.
func (s *Source) Peek(n int) ([]byte, error) {
	b, err := s.r.Peek(n)
	if err == io.EOF || err == bufio.ErrBufferFull {
		err = nil
	}
	return b, err
}

// PeekHeader decodes the next packet header without consuming it.
func (s *Source) PeekHeader() (pgp.Header, error) {
	b, err := s.r.Peek(pgp.MaxHeaderSize)
	if len(b) == 0 {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return pgp.Header{}, errors.Wrapf(err, "packet header at offset %d", s.off)
	}
	h, perr := pgp.ParseHeader(b)
	if perr != nil {
		return pgp.Header{}, errors.Wrapf(perr, "packet header at offset %d", s.off)
	}
	return h, nil
}

func (s *Source) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.off += int64(n)
	return n, err
}

func (s *Source) Discard(n int) (int, error) {
	d, err := s.r.Discard(n)
	s.off += int64(d)
	return d, err
}
