package pgp

import (
	"encoding/binary"
	"errors"
)

// MaxHeaderSize is the longest possible packet header: tag octet plus a
// five octet new-format length.
const MaxHeaderSize = 6

var (
	ErrPacket      = errors.New("pgp: malformed packet")
	ErrShortHeader = errors.New("pgp: truncated packet header")
	ErrBadTag      = errors.New("pgp: invalid packet tag octet")
)

// Header is a peeked packet header. Length is meaningful only when neither
// Partial nor Indeterminate is set; Chunk holds the first partial chunk size.
type Header struct {
	Tag           byte
	Raw           []byte
	Length        int64
	Chunk         int64
	Partial       bool
	Indeterminate bool
	NewFormat     bool
}

// Len returns the number of header octets.
func (h Header) Len() int { return len(h.Raw) }

// ParseHeader decodes the header at the start of b. b may hold more than the
// header; ErrShortHeader is returned when it holds less.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < 1 {
		return Header{}, ErrShortHeader
	}
	first := b[0]
	if first&0x80 == 0 {
		return Header{}, ErrBadTag
	}
	if first&0x40 != 0 {
		return parseNewFormat(b)
	}
	return parseOldFormat(b)
}

func parseNewFormat(b []byte) (Header, error) {
	h := Header{Tag: b[0] & 0x3F, NewFormat: true}
	if len(b) < 2 {
		return Header{}, ErrShortHeader
	}
	l1 := b[1]
	n := 2
	switch {
	case l1 < 192:
		h.Length = int64(l1)
	case l1 <= 223:
		if len(b) < 3 {
			return Header{}, ErrShortHeader
		}
		h.Length = int64(l1-192)<<8 + int64(b[2]) + 192
		n = 3
	case l1 == 255:
		if len(b) < 6 {
			return Header{}, ErrShortHeader
		}
		h.Length = int64(binary.BigEndian.Uint32(b[2:6]))
		n = 6
	default:
		h.Partial = true
		h.Chunk = 1 << (l1 & 0x1F)
	}
	h.Raw = append([]byte(nil), b[:n]...)
	return h, nil
}

func parseOldFormat(b []byte) (Header, error) {
	h := Header{Tag: (b[0] & 0x3C) >> 2}
	n := 1
	switch b[0] & 3 {
	case 0:
		if len(b) < 2 {
			return Header{}, ErrShortHeader
		}
		h.Length = int64(b[1])
		n = 2
	case 1:
		if len(b) < 3 {
			return Header{}, ErrShortHeader
		}
		h.Length = int64(binary.BigEndian.Uint16(b[1:3]))
		n = 3
	case 2:
		if len(b) < 5 {
			return Header{}, ErrShortHeader
		}
		h.Length = int64(binary.BigEndian.Uint32(b[1:5]))
		n = 5
	default:
		h.Indeterminate = true
	}
	h.Raw = append([]byte(nil), b[:n]...)
	return h, nil
}
