package pgp

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// DecodeError describes where and why a packet body could not be decoded.
type DecodeError struct {
	Offset int
	Field  string
	Want   int
	Have   int
	Msg    string
}

func (e *DecodeError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("pgp: %s: %s at offset %d", e.Field, e.Msg, e.Offset)
	}
	return fmt.Sprintf("pgp: %s: need %d bytes at offset %d, have %d", e.Field, e.Want, e.Offset, e.Have)
}

func (e *DecodeError) Unwrap() error { return ErrPacket }

// Buffer is a read cursor over an in-memory packet body.
type Buffer struct {
	b   []byte
	off int
}

func NewBuffer(b []byte) *Buffer { return &Buffer{b: b} }

// Len returns the number of unread octets.
func (r *Buffer) Len() int { return len(r.b) - r.off }

// Offset returns the number of octets consumed so far.
func (r *Buffer) Offset() int { return r.off }

// Since returns the octets consumed after offset start.
func (r *Buffer) Since(start int) []byte { return r.b[start:r.off] }

// Errorf builds a DecodeError at the current offset.
func (r *Buffer) Errorf(field, format string, a ...interface{}) error {
	return &DecodeError{Offset: r.off, Field: field, Msg: fmt.Sprintf(format, a...)}
}

func (r *Buffer) Next(field string, n int) ([]byte, error) {
	if n < 0 || r.Len() < n {
		return nil, &DecodeError{Offset: r.off, Field: field, Want: n, Have: r.Len()}
	}
	out := r.b[r.off : r.off+n]
	r.off += n
	return out, nil
}

func (r *Buffer) Byte(field string) (byte, error) {
	b, err := r.Next(field, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Buffer) Uint16(field string) (uint16, error) {
	b, err := r.Next(field, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Buffer) Uint32(field string) (uint32, error) {
	b, err := r.Next(field, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Prefixed reads a one-octet length followed by that many octets.
func (r *Buffer) Prefixed(field string) ([]byte, error) {
	n, err := r.Byte(field)
	if err != nil {
		return nil, err
	}
	return r.Next(field, int(n))
}

// Rest consumes and returns every unread octet.
func (r *Buffer) Rest() []byte {
	out := r.b[r.off:]
	r.off = len(r.b)
	return out
}

// Done fails when unread octets remain.
func (r *Buffer) Done(field string) error {
	if r.Len() != 0 {
		return &DecodeError{Offset: r.off, Field: field, Msg: fmt.Sprintf("%d bytes of trailing data", r.Len())}
	}
	return nil
}

// MPI is an OpenPGP multiprecision integer as it appears on the wire.
type MPI struct {
	Declared uint16
	Bytes    []byte
}

// BitLen returns the bit length of the value, ignoring the declared count.
func (m MPI) BitLen() int {
	for i, b := range m.Bytes {
		if b != 0 {
			return (len(m.Bytes)-i-1)*8 + bits.Len8(b)
		}
	}
	return 0
}

// MPI reads a two-octet bit count and the octets it covers.
func (r *Buffer) MPI(field string) (MPI, error) {
	n, err := r.Uint16(field)
	if err != nil {
		return MPI{}, err
	}
	b, err := r.Next(field, (int(n)+7)/8)
	if err != nil {
		return MPI{}, err
	}
	return MPI{Declared: n, Bytes: b}, nil
}
